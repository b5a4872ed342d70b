package routes

import (
	"errors"
	"strconv"

	"github.com/fastroute/fastroute/pkg/ctdf"
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
)

func getCoordinateQuery(c *fiber.Ctx) (float64, float64, error) {
	latString := c.Query("lat")
	lonString := c.Query("lon")

	if latString == "" || lonString == "" {
		return 0, 0, errors.New("Parameters lat and lon are required")
	}

	latitude, latErr := strconv.ParseFloat(latString, 64)
	longitude, lonErr := strconv.ParseFloat(lonString, 64)
	if latErr != nil || lonErr != nil || !ctdf.ValidCoordinates(latitude, longitude) {
		return 0, 0, errors.New("Parameters lat and lon must be valid coordinates")
	}

	return latitude, longitude, nil
}

func badRequest(c *fiber.Ctx, message string) error {
	c.SendStatus(fiber.StatusBadRequest)
	return c.JSON(fiber.Map{
		"error": message,
	})
}

func marshalGroups(c *fiber.Ctx, value any, groups ...string) error {
	reduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, value)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce object",
		})
	}

	return c.JSON(reduced)
}

func methodNotAllowed(c *fiber.Ctx) error {
	c.SendStatus(fiber.StatusMethodNotAllowed)
	return c.JSON(fiber.Map{
		"error": "Method not allowed",
	})
}
