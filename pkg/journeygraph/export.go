package journeygraph

import (
	"context"

	"github.com/fastroute/fastroute/pkg/network"
	"github.com/fastroute/fastroute/pkg/util"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

type Neo4jConfig struct {
	URI      string
	Username string
	Password string
	Database string
}

func Neo4jConfigFromEnvironment() Neo4jConfig {
	env := util.GetEnvironmentVariables()

	config := Neo4jConfig{
		URI:      "neo4j://localhost",
		Username: "neo4j",
		Password: "neo4jneo4j",
		Database: "neo4j",
	}

	if env["FASTROUTE_NEO4J_URI"] != "" {
		config.URI = env["FASTROUTE_NEO4J_URI"]
	}
	if env["FASTROUTE_NEO4J_USERNAME"] != "" {
		config.Username = env["FASTROUTE_NEO4J_USERNAME"]
	}
	if env["FASTROUTE_NEO4J_PASSWORD"] != "" {
		config.Password = env["FASTROUTE_NEO4J_PASSWORD"]
	}
	if env["FASTROUTE_NEO4J_DATABASE"] != "" {
		config.Database = env["FASTROUTE_NEO4J_DATABASE"]
	}

	return config
}

type stopNode struct {
	PrimaryIdentifier string
	PrimaryName       string
	Latitude          float64
	Longitude         float64
	Sequence          int
}

type connection struct {
	From     string
	To       string
	Distance float64
}

// Export replaces the graph in Neo4j with the stops and connections of the network
func Export(ctx context.Context, routeNetwork *network.Network, config Neo4jConfig) error {
	driver, err := neo4j.NewDriverWithContext(config.URI, neo4j.BasicAuth(config.Username, config.Password, ""))
	if err != nil {
		return err
	}
	defer driver.Close(ctx)

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return err
	}

	session := driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: config.Database})
	defer session.Close(ctx)

	nodes, connections := graphRecords(routeNetwork)

	_, err = session.ExecuteWrite(ctx,
		func(tx neo4j.ManagedTransaction) (any, error) {
			if _, err := tx.Run(ctx, "MATCH (s:Stop) DETACH DELETE s", map[string]any{}); err != nil {
				return nil, err
			}

			for _, stop := range nodes {
				_, err := tx.Run(
					ctx,
					"CREATE (s:Stop {primaryidentifier: $primaryidentifier, primaryname: $primaryname, location: point({latitude: $latitude, longitude: $longitude}), sequence: $sequence})",
					map[string]any{
						"primaryidentifier": stop.PrimaryIdentifier,
						"primaryname":       stop.PrimaryName,
						"latitude":          stop.Latitude,
						"longitude":         stop.Longitude,
						"sequence":          stop.Sequence,
					})
				if err != nil {
					return nil, err
				}
			}

			for _, edge := range connections {
				_, err := tx.Run(
					ctx,
					"MATCH (a:Stop {primaryidentifier: $from}), (b:Stop {primaryidentifier: $to}) CREATE (a)-[:NEXT {distance: $distance}]->(b)",
					map[string]any{
						"from":     edge.From,
						"to":       edge.To,
						"distance": edge.Distance,
					})
				if err != nil {
					return nil, err
				}
			}

			return nil, nil
		})
	if err != nil {
		return err
	}

	log.Info().Int("stops", len(nodes)).Int("connections", len(connections)).Msg("Exported route graph to Neo4j")

	return nil
}

func graphRecords(routeNetwork *network.Network) ([]stopNode, []connection) {
	var nodes []stopNode
	for _, stop := range routeNetwork.Stops() {
		nodes = append(nodes, stopNode{
			PrimaryIdentifier: stop.PrimaryIdentifier,
			PrimaryName:       stop.PrimaryName,
			Latitude:          stop.Location.Latitude(),
			Longitude:         stop.Location.Longitude(),
			Sequence:          stop.Sequence,
		})
	}

	graph := routeNetwork.Graph()

	var connections []connection
	for _, from := range graph.Nodes() {
		for _, edge := range graph.Edges(from) {
			connections = append(connections, connection{From: from, To: edge.Target, Distance: edge.Weight})
		}
	}

	return nodes, connections
}
