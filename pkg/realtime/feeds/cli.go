package feeds

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fastroute/fastroute/pkg/realtime/vehicletracker"
	"github.com/fastroute/fastroute/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func queuePublisher() (vehicletracker.Publisher, error) {
	if err := redis_client.Connect(); err != nil {
		return nil, err
	}

	queue, err := redis_client.QueueConnection.OpenQueue(redis_client.PositionsQueue)
	if err != nil {
		return nil, err
	}

	return &vehicletracker.QueuePublisher{Queue: queue}, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "feeds",
		Usage: "Ingest vehicle positions from external realtime feeds",
		Subcommands: []*cli.Command{
			{
				Name:  "gtfs-rt",
				Usage: "poll a GTFS-RT VehiclePositions feed",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "url",
						Usage:    "feed URL",
						Required: true,
					},
					&cli.DurationFlag{
						Name:  "interval",
						Value: 5 * time.Second,
						Usage: "time between polls",
					},
					&cli.DurationFlag{
						Name:  "max-age",
						Value: 20 * time.Minute,
						Usage: "skip positions older than this",
					},
				},
				Action: func(c *cli.Context) error {
					publisher, err := queuePublisher()
					if err != nil {
						return err
					}

					ctx, cancel := signalContext()
					defer cancel()

					poller := &GTFSRealtimePoller{
						URL:       c.String("url"),
						Interval:  c.Duration("interval"),
						MaxAge:    c.Duration("max-age"),
						Publisher: publisher,
					}

					return poller.Run(ctx)
				},
			},
			{
				Name:  "stomp",
				Usage: "subscribe to JSON position reports on a STOMP broker",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "address",
						Value: "localhost:61613",
						Usage: "broker address",
					},
					&cli.StringFlag{
						Name:     "destination",
						Usage:    "queue or topic carrying position reports",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "username",
						EnvVars: []string{"FASTROUTE_STOMP_USERNAME"},
					},
					&cli.StringFlag{
						Name:    "password",
						EnvVars: []string{"FASTROUTE_STOMP_PASSWORD"},
					},
				},
				Action: func(c *cli.Context) error {
					publisher, err := queuePublisher()
					if err != nil {
						return err
					}

					ctx, cancel := signalContext()
					defer cancel()

					client := &StompClient{
						Address:     c.String("address"),
						Destination: c.String("destination"),
						Username:    c.String("username"),
						Password:    c.String("password"),
						Publisher:   publisher,
					}

					return client.Run(ctx)
				},
			},
		},
	}
}
