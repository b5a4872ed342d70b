package main

import (
	"os"
	"time"

	"github.com/fastroute/fastroute/pkg/api"
	"github.com/fastroute/fastroute/pkg/journeygraph"
	"github.com/fastroute/fastroute/pkg/realtime"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	_ = godotenv.Load(".env")

	if os.Getenv("FASTROUTE_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("FASTROUTE_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "fastroute",
		Description: "Single binary for the route network API, vehicle tracking and position feeds",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			realtime.RegisterCLI(),
			journeygraph.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
