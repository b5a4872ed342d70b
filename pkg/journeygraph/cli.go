package journeygraph

import (
	"context"
	"fmt"

	"github.com/fastroute/fastroute/pkg/config"
	"github.com/fastroute/fastroute/pkg/network"
	"github.com/kr/pretty"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	configFlag := &cli.StringFlag{
		Name:  "config",
		Usage: "path to a YAML configuration file",
	}

	return &cli.Command{
		Name:  "graph",
		Usage: "Inspect and export the route graph",
		Subcommands: []*cli.Command{
			{
				Name:  "test",
				Usage: "compute the shortest path from the first to the last stop",
				Flags: []cli.Flag{configFlag},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}

					routeNetwork, err := network.Load(context.Background(), cfg)
					if err != nil {
						return err
					}

					path, ok := routeNetwork.RoutePath()
					if !ok {
						return fmt.Errorf("no stops loaded")
					}

					pretty.Println(path)

					return nil
				},
			},
			{
				Name:  "export",
				Usage: "replace the Neo4j graph with the loaded route",
				Flags: []cli.Flag{configFlag},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}

					routeNetwork, err := network.Load(context.Background(), cfg)
					if err != nil {
						return err
					}

					return Export(context.Background(), routeNetwork, Neo4jConfigFromEnvironment())
				},
			},
		},
	}
}
