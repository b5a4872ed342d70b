package realtime

import (
	"github.com/fastroute/fastroute/pkg/realtime/feeds"
	"github.com/fastroute/fastroute/pkg/realtime/vehicletracker"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "realtime",
		Usage: "Realtime vehicle position sources and tracking",
		Subcommands: []*cli.Command{
			vehicletracker.RegisterCLI(),
			feeds.RegisterCLI(),
		},
	}
}
