package routes

import (
	"github.com/fastroute/fastroute/pkg/network"
	"github.com/gofiber/fiber/v2"
)

func PlannerRouter(router fiber.Router, routeNetwork *network.Network) {
	router.Get("/:origin/:destination", func(c *fiber.Ctx) error {
		return getPlanBetweenStops(c, routeNetwork)
	})
}

func getPlanBetweenStops(c *fiber.Ctx, routeNetwork *network.Network) error {
	originIdentifier := c.Params("origin")
	destinationIdentifier := c.Params("destination")

	for _, identifier := range []string{originIdentifier, destinationIdentifier} {
		if _, exists := routeNetwork.Stop(identifier); !exists {
			c.SendStatus(fiber.StatusNotFound)
			return c.JSON(fiber.Map{
				"error": "Could not find Stop matching Stop Identifier " + identifier,
			})
		}
	}

	path := routeNetwork.ShortestPath(originIdentifier, destinationIdentifier)

	stops := path.Stops
	if stops == nil {
		stops = []string{}
	}

	return c.JSON(fiber.Map{
		"origin":      originIdentifier,
		"destination": destinationIdentifier,
		"reachable":   path.Reachable(),
		"distance":    pathDistance(path.Distance, path.Reachable()),
		"path":        stops,
	})
}
