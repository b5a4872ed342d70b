package api

import (
	"context"

	"github.com/fastroute/fastroute/pkg/config"
	"github.com/fastroute/fastroute/pkg/coverage"
	"github.com/fastroute/fastroute/pkg/elastic_client"
	"github.com/fastroute/fastroute/pkg/network"
	"github.com/fastroute/fastroute/pkg/realtime/vehicletracker"
	"github.com/fastroute/fastroute/pkg/redis_client"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the core web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "path to a YAML configuration file",
					},
					&cli.BoolFlag{
						Name:  "embedded-tracker",
						Usage: "classify position reports in process instead of publishing them to the queue",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}
					if err := elastic_client.Connect(false); err != nil {
						return err
					}

					ctx, cancel := context.WithCancel(context.Background())
					defer cancel()

					routeNetwork, err := network.Load(ctx, cfg)
					if err != nil {
						return err
					}

					services := Services{
						Network:  routeNetwork,
						Coverage: coverage.NewTracker(cfg.Coverage.CellSize, cfg.Coverage.MaxCells),
					}

					if c.Bool("embedded-tracker") {
						classifier := vehicletracker.NewClassifier(cfg)
						tracker := vehicletracker.NewTracker(classifier, nil, 1)

						services.Publisher = &vehicletracker.DirectPublisher{Tracker: tracker}
						services.Statuses = &classifierStatuses{classifier: classifier}

						go classifier.Run(ctx, cfg.Liveness.SweepIntervalDuration())

						log.Info().Msg("Vehicle tracking running in process")
					} else {
						if err := redis_client.Connect(); err != nil {
							return err
						}

						queue, err := redis_client.QueueConnection.OpenQueue(redis_client.PositionsQueue)
						if err != nil {
							return err
						}

						trackerConfig := vehicletracker.GetTrackerConfig()

						services.Publisher = &vehicletracker.QueuePublisher{Queue: queue}
						services.Statuses = vehicletracker.NewStatusStore(redis_client.Client, trackerConfig.StatusExpiration)
					}

					if PositionAuthEnabled() {
						services.PositionAuth = EnsureValidToken()
					}

					return SetupServer(c.String("listen"), services)
				},
			},
		},
	}
}
