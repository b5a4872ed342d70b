package api

import (
	"github.com/fastroute/fastroute/pkg/api/routes"
	"github.com/fastroute/fastroute/pkg/coverage"
	"github.com/fastroute/fastroute/pkg/metrics"
	"github.com/fastroute/fastroute/pkg/network"
	"github.com/fastroute/fastroute/pkg/realtime/vehicletracker"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// Services are the long lived components the routes read from
type Services struct {
	Network   *network.Network
	Coverage  *coverage.Tracker
	Publisher vehicletracker.Publisher
	Statuses  routes.StatusReader

	// PositionAuth guards position submission when set
	PositionAuth fiber.Handler
}

func NewApp(services Services) *fiber.App {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	webApp.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)
	group.Get("stats", routes.Stats(services.Network, services.Coverage))

	routes.StopsRouter(group.Group("/stops"), services.Network)

	routes.PlannerRouter(group.Group("/planner"), services.Network)

	routes.CoverageRouter(group.Group("/coverage"), services.Coverage)

	var positionMiddleware []fiber.Handler
	if services.PositionAuth != nil {
		positionMiddleware = append(positionMiddleware, services.PositionAuth)
	}
	routes.VehiclesRouter(group.Group("/vehicles"), services.Publisher, services.Statuses, positionMiddleware...)

	return webApp
}

func SetupServer(listen string, services Services) error {
	return NewApp(services).Listen(listen)
}
