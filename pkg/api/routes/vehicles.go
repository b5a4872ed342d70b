package routes

import (
	"context"
	"time"

	"github.com/fastroute/fastroute/pkg/ctdf"
	"github.com/fastroute/fastroute/pkg/realtime/vehicletracker"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type StatusReader interface {
	Get(ctx context.Context, vehicleRef string) (*ctdf.VehicleStatus, bool, error)
	List(ctx context.Context) ([]*ctdf.VehicleStatus, error)
}

type vehiclesHandler struct {
	publisher vehicletracker.Publisher
	statuses  StatusReader
}

func VehiclesRouter(router fiber.Router, publisher vehicletracker.Publisher, statuses StatusReader, positionMiddleware ...fiber.Handler) {
	handler := &vehiclesHandler{
		publisher: publisher,
		statuses:  statuses,
	}

	positionHandlers := append(positionMiddleware, handler.postPosition)
	router.Post("/positions", positionHandlers...)

	router.Get("/", handler.listVehicles)
	router.Get("/:identifier", handler.getVehicle)
}

func (h *vehiclesHandler) postPosition(c *fiber.Ctx) error {
	var report vehicletracker.PositionReport
	if err := c.BodyParser(&report); err != nil {
		return badRequest(c, "Body must be a JSON position report")
	}

	event, err := report.ToEvent(time.Now(), "api")
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.publisher.Publish(c.UserContext(), event); err != nil {
		log.Error().Err(err).Str("vehicle", event.VehicleRef).Msg("Failed to publish position report")

		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Could not accept position report",
		})
	}

	c.SendStatus(fiber.StatusAccepted)
	return c.JSON(fiber.Map{
		"vehicle":     event.VehicleRef,
		"recorded_at": event.RecordedAt,
	})
}

func (h *vehiclesHandler) listVehicles(c *fiber.Ctx) error {
	statuses, err := h.statuses.List(c.UserContext())
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return marshalGroups(c, statuses, "basic")
}

func (h *vehiclesHandler) getVehicle(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	status, found, err := h.statuses.Get(c.UserContext(), identifier)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if !found {
		status = &ctdf.VehicleStatus{
			VehicleRef: identifier,
			Status:     ctdf.ServiceStatusOffline,
		}
	}

	return marshalGroups(c, status, "basic")
}
