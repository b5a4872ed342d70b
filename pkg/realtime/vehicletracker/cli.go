package vehicletracker

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fastroute/fastroute/pkg/config"
	"github.com/fastroute/fastroute/pkg/consumer"
	"github.com/fastroute/fastroute/pkg/elastic_client"
	"github.com/fastroute/fastroute/pkg/realtime/liveness"
	"github.com/fastroute/fastroute/pkg/redis_client"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func NewClassifier(cfg *config.Config) *liveness.Classifier {
	return liveness.New(liveness.Config{
		WaitingAfter: cfg.Liveness.WaitingAfterDuration(),
		OfflineAfter: cfg.Liveness.OfflineAfterDuration(),
	})
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "vehicle-tracker",
		Usage: "Consumes vehicle position reports and tracks each vehicle's reporting status",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run an instance of the vehicle tracker",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Usage: "path to a YAML configuration file",
					},
					&cli.StringFlag{
						Name:  "stats-listen",
						Value: ":3333",
						Usage: "listen target for the queue stats server",
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
					if err := redis_client.Connect(); err != nil {
						return err
					}

					trackerConfig := GetTrackerConfig()

					classifier := NewClassifier(cfg)
					store := NewStatusStore(redis_client.Client, trackerConfig.StatusExpiration)
					tracker := NewTracker(classifier, store, trackerConfig.Workers)

					redisConsumer := &consumer.RedisConsumer{
						QueueName:       redis_client.PositionsQueue,
						NumberConsumers: trackerConfig.NumberConsumers,
						BatchSize:       trackerConfig.BatchSize,
						Timeout:         trackerConfig.BatchTimeout,
						Consumer:        NewBatchConsumer(tracker),
						StatsAddress:    c.String("stats-listen"),
					}
					if err := redisConsumer.Setup(); err != nil {
						return err
					}

					ctx, cancel := context.WithCancel(context.Background())
					defer cancel()
					go classifier.Run(ctx, cfg.Liveness.SweepIntervalDuration())

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
					defer signal.Stop(signals)

					<-signals // wait for signal
					go func() {
						<-signals // hard exit on second signal (in case shutdown gets stuck)
						os.Exit(1)
					}()

					log.Info().Msg("Shutting down vehicle tracker")

					<-redis_client.QueueConnection.StopAllConsuming() // wait for all Consume() calls to finish
					cancel()
					elastic_client.WaitUntilQueueEmpty()

					return nil
				},
			},
			{
				Name:  "cleaner",
				Usage: "run the queue cleaner for the positions queue",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "interval",
						Value: 5 * time.Minute,
						Usage: "time between cleaner runs",
					},
				},
				Action: func(c *cli.Context) error {
					if err := redis_client.Connect(); err != nil {
						return err
					}

					go consumer.StartCleaner(c.Duration("interval"))

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
					defer signal.Stop(signals)

					<-signals

					return nil
				},
			},
		},
	}
}
