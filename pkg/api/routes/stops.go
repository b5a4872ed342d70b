package routes

import (
	"github.com/fastroute/fastroute/pkg/ctdf"
	"github.com/fastroute/fastroute/pkg/network"
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
)

type stopsHandler struct {
	network *network.Network
}

func StopsRouter(router fiber.Router, routeNetwork *network.Network) {
	handler := &stopsHandler{network: routeNetwork}

	router.Get("/", handler.listStops)
	router.Get("/nearest", handler.getNearestStop)
	router.Get("/search", handler.searchStops)
	router.Get("/:identifier", handler.getStop)
	router.Get("/:identifier/next", handler.getNextStop)
}

func (h *stopsHandler) listStops(c *fiber.Ctx) error {
	return marshalGroups(c, h.network.Stops(), "basic")
}

func (h *stopsHandler) searchStops(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return badRequest(c, "Parameter name is required")
	}

	return marshalGroups(c, h.network.Search(name), "basic")
}

func (h *stopsHandler) getStop(c *fiber.Ctx) error {
	stop, exists := h.network.Stop(c.Params("identifier"))
	if !exists {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Stop matching Stop Identifier",
		})
	}

	return marshalGroups(c, stop, "basic", "detailed")
}

func (h *stopsHandler) getNextStop(c *fiber.Ctx) error {
	identifier := c.Params("identifier")
	if _, exists := h.network.Stop(identifier); !exists {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Stop matching Stop Identifier",
		})
	}

	next, err := h.nextStopResponse(identifier)
	if err != nil {
		return err
	}

	return c.JSON(next)
}

func (h *stopsHandler) getNearestStop(c *fiber.Ctx) error {
	latitude, longitude, err := getCoordinateQuery(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	nearest, found := h.network.Nearest(latitude, longitude)
	if !found {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "No stops loaded",
		})
	}

	stop, err := reduceStop(nearest.Stop)
	if err != nil {
		return err
	}

	next, err := h.nextStopResponse(nearest.Stop.PrimaryIdentifier)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"stop":     stop,
		"distance": nearest.DistanceMeters,
		"fallback": nearest.Fallback,
		"next":     next,
	})
}

func (h *stopsHandler) nextStopResponse(identifier string) (fiber.Map, error) {
	next, exists := h.network.NextStop(identifier)
	if !exists {
		return fiber.Map{
			"final": true,
		}, nil
	}

	stop, err := reduceStop(next.Stop)
	if err != nil {
		return nil, err
	}

	return fiber.Map{
		"final":    false,
		"stop":     stop,
		"distance": pathDistance(next.Path.Distance, next.Path.Reachable()),
	}, nil
}

func reduceStop(stop *ctdf.Stop) (interface{}, error) {
	return sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, stop)
}

// pathDistance maps an unreachable distance to null as JSON cannot carry infinity
func pathDistance(distance float64, reachable bool) *float64 {
	if !reachable {
		return nil
	}

	return &distance
}
