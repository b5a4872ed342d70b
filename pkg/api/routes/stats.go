package routes

import (
	"github.com/fastroute/fastroute/pkg/coverage"
	"github.com/fastroute/fastroute/pkg/network"
	"github.com/gofiber/fiber/v2"
)

type RecordsStats struct {
	Stops         int
	GraphNodes    int
	CoverageCells int
}

func Stats(routeNetwork *network.Network, tracker *coverage.Tracker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(RecordsStats{
			Stops:         len(routeNetwork.Stops()),
			GraphNodes:    routeNetwork.Graph().NodeCount(),
			CoverageCells: tracker.Len(),
		})
	}
}
