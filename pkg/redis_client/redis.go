package redis_client

import (
	"context"
	"strconv"

	"github.com/adjust/rmq/v5"
	"github.com/fastroute/fastroute/pkg/util"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Client *redis.Client
var QueueConnection rmq.Connection

const defaultConnectionAddress = "localhost:6379"
const defaultConnectionPassword = ""
const defaultDatabase = 0

const PositionsQueue = "positions-queue"

func Connect() error {
	address := defaultConnectionAddress
	password := defaultConnectionPassword
	database := defaultDatabase

	env := util.GetEnvironmentVariables()

	if env["FASTROUTE_REDIS_ADDRESS"] != "" {
		address = env["FASTROUTE_REDIS_ADDRESS"]
	}

	if env["FASTROUTE_REDIS_PASSWORD"] != "" {
		password = env["FASTROUTE_REDIS_PASSWORD"]
	}

	if env["FASTROUTE_REDIS_DATABASE"] != "" {
		if n, err := strconv.Atoi(env["FASTROUTE_REDIS_DATABASE"]); err == nil {
			database = n
		} else {
			return err
		}
	}

	return ConnectWithOptions(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	})
}

func ConnectWithOptions(options *redis.Options) error {
	Client = redis.NewClient(options)

	if err := Client.Ping(context.Background()).Err(); err != nil {
		return err
	}

	var err error
	QueueConnection, err = rmq.OpenConnectionWithRedisClient("fastroute", Client, nil)
	if err != nil {
		return err
	}

	log.Info().Str("address", options.Addr).Msg("Connected to redis")

	return nil
}
