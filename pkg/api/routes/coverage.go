package routes

import (
	"errors"

	"github.com/fastroute/fastroute/pkg/coverage"
	"github.com/gofiber/fiber/v2"
)

type coverageRequest struct {
	Latitude  *float64 `json:"lat"`
	Longitude *float64 `json:"lon"`
}

func CoverageRouter(router fiber.Router, tracker *coverage.Tracker) {
	router.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"cell_size": tracker.CellSize(),
			"since":     tracker.Since(),
			"cells":     tracker.Snapshot(),
		})
	})

	router.Post("/", func(c *fiber.Ctx) error {
		var request coverageRequest
		if err := c.BodyParser(&request); err != nil {
			return badRequest(c, "Body must be a JSON object with lat and lon")
		}

		if request.Latitude == nil || request.Longitude == nil {
			return badRequest(c, "lat and lon are required")
		}

		cell, err := tracker.Record(*request.Latitude, *request.Longitude)
		if errors.Is(err, coverage.ErrCapacityReached) {
			c.SendStatus(fiber.StatusInsufficientStorage)
			return c.JSON(fiber.Map{
				"error": err.Error(),
			})
		} else if err != nil {
			return badRequest(c, err.Error())
		}

		return c.JSON(fiber.Map{
			"message": "Coordinate recorded",
			"cell":    cell,
		})
	})

	router.Delete("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"cleared": tracker.Reset(),
		})
	})

	router.All("/", methodNotAllowed)
}
