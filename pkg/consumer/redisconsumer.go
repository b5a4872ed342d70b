package consumer

import (
	"fmt"
	"net/http"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/fastroute/fastroute/pkg/redis_client"
	"github.com/rs/zerolog/log"
)

type RedisConsumer struct {
	QueueName string

	NumberConsumers int
	BatchSize       int

	Timeout time.Duration

	Consumer rmq.BatchConsumer

	StatsAddress string
}

func (c *RedisConsumer) Setup() error {
	if err := c.startConsumers(); err != nil {
		return err
	}

	go c.startStatsServer()

	return nil
}

func (c *RedisConsumer) startConsumers() error {
	log.Info().Str("queue", c.QueueName).Msg("Starting consumers")

	queue, err := redis_client.QueueConnection.OpenQueue(c.QueueName)
	if err != nil {
		return err
	}
	if err := queue.StartConsuming(int64(c.NumberConsumers*c.BatchSize), 1*time.Second); err != nil {
		return err
	}

	for i := 0; i < c.NumberConsumers; i++ {
		log.Info().Msgf("Starting %s consumer %d", c.QueueName, i)

		if _, err := queue.AddBatchConsumer(fmt.Sprintf("%s-%d", c.QueueName, i), int64(c.BatchSize), c.Timeout, c.Consumer); err != nil {
			return err
		}
	}

	return nil
}

func (c *RedisConsumer) startStatsServer() {
	address := c.StatsAddress
	if address == "" {
		address = ":3333"
	}

	mux := http.NewServeMux()
	endpoint := fmt.Sprintf("/%s/stats", c.QueueName)
	mux.Handle(endpoint, NewStatsHandler(redis_client.QueueConnection))
	mux.Handle("/health", NewHealthHandler())

	log.Info().Msgf("Stats server listening on http://localhost%s%s", address, endpoint)
	if err := http.ListenAndServe(address, mux); err != nil {
		log.Error().Err(err).Msg("Stats server stopped")
	}
}

// StartCleaner returns unacked deliveries of dead consumers to their queues every interval
func StartCleaner(interval time.Duration) {
	cleaner := rmq.NewCleaner(redis_client.QueueConnection)

	log.Info().Msg("Starting queue cleaner process")

	for range time.Tick(interval) {
		returned, err := cleaner.Clean()
		if err != nil {
			log.Error().Err(err).Msg("Failed to clean")
			continue
		}

		if returned != 0 {
			log.Info().Msgf("Cleaned %d records", returned)
		}
	}
}
