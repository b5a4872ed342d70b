package network

import (
	"fmt"
	"strings"

	"github.com/fastroute/fastroute/pkg/ctdf"
	"github.com/fastroute/fastroute/pkg/metrics"
	"github.com/fastroute/fastroute/pkg/quadtree"
	"github.com/fastroute/fastroute/pkg/routegraph"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

const DefaultSearchHalfExtent = 0.01

type Config struct {
	Boundary         quadtree.Region
	Capacity         int
	SearchHalfExtent float64
}

// Network is the immutable view of one route: its stops, a spatial index over them
// and the directed graph joining consecutive stops.
type Network struct {
	config Config

	stops     []*ctdf.Stop
	positions map[string]int

	index *quadtree.QuadTree[int]
	graph *routegraph.Graph
}

type NearestStop struct {
	Stop           *ctdf.Stop
	DistanceMeters float64
	// Fallback is set when no stop was inside the search region and every stop was scanned
	Fallback bool
}

type NextStop struct {
	Stop *ctdf.Stop
	Path routegraph.Path
}

// New builds the network from stops already ordered by sequence. The stops are
// copied so later changes by the caller are not seen here.
func New(stops []*ctdf.Stop, config Config) (*Network, error) {
	if config.SearchHalfExtent <= 0 {
		config.SearchHalfExtent = DefaultSearchHalfExtent
	}

	network := &Network{
		config:    config,
		stops:     make([]*ctdf.Stop, 0, len(stops)),
		positions: map[string]int{},
		index:     quadtree.New[int](config.Boundary, config.Capacity),
		graph:     routegraph.New(),
	}

	for _, stop := range stops {
		if _, exists := network.positions[stop.PrimaryIdentifier]; exists {
			return nil, fmt.Errorf("duplicate stop identifier %s", stop.PrimaryIdentifier)
		}
		if stop.Location == nil || !stop.Location.Valid() {
			return nil, fmt.Errorf("stop %s has no valid location", stop.PrimaryIdentifier)
		}

		var owned ctdf.Stop
		if err := copier.CopyWithOption(&owned, stop, copier.Option{DeepCopy: true}); err != nil {
			return nil, err
		}

		position := len(network.stops)
		network.stops = append(network.stops, &owned)
		network.positions[owned.PrimaryIdentifier] = position
		network.graph.AddNode(owned.PrimaryIdentifier)

		inserted := network.index.Insert(quadtree.Point[int]{
			X:       owned.Location.Latitude(),
			Y:       owned.Location.Longitude(),
			Payload: position,
		})
		if !inserted {
			log.Warn().
				Str("stop", owned.PrimaryIdentifier).
				Float64("lat", owned.Location.Latitude()).
				Float64("lon", owned.Location.Longitude()).
				Msg("Stop outside of network boundary, only reachable through full scan")
		}
	}

	for i := 1; i < len(network.stops); i++ {
		from := network.stops[i-1]
		to := network.stops[i]

		if err := network.graph.AddConnection(from.PrimaryIdentifier, to.PrimaryIdentifier, from.Location.Distance(to.Location)); err != nil {
			return nil, err
		}
	}

	log.Info().
		Int("stops", len(network.stops)).
		Int("indexed", network.index.Len()).
		Msg("Built route network")

	return network, nil
}

func (n *Network) Stops() []*ctdf.Stop {
	return n.stops
}

func (n *Network) Stop(identifier string) (*ctdf.Stop, bool) {
	position, exists := n.positions[identifier]
	if !exists {
		return nil, false
	}

	return n.stops[position], true
}

func (n *Network) Graph() *routegraph.Graph {
	return n.graph
}

// Nearest returns the closest stop to the coordinate. It is only false when the network has no stops.
func (n *Network) Nearest(latitude float64, longitude float64) (NearestStop, bool) {
	metrics.NearestQueries.Inc()

	if len(n.stops) == 0 {
		return NearestStop{}, false
	}

	region := quadtree.NewRegion(latitude, longitude, n.config.SearchHalfExtent, n.config.SearchHalfExtent)
	candidates := n.index.Query(region)

	positions := make([]int, 0, len(candidates))
	for _, candidate := range candidates {
		positions = append(positions, candidate.Payload)
	}

	fallback := len(positions) == 0
	if fallback {
		metrics.NearestFallbacks.Inc()
		for position := range n.stops {
			positions = append(positions, position)
		}
	}

	query := ctdf.NewPoint(latitude, longitude)
	nearest := NearestStop{Fallback: fallback}
	found := false

	for _, position := range positions {
		stop := n.stops[position]
		distance := query.Distance(stop.Location)

		if !found || distance < nearest.DistanceMeters {
			nearest.Stop = stop
			nearest.DistanceMeters = distance
			found = true
		}
	}

	return nearest, true
}

func (n *Network) ShortestPath(from string, to string) routegraph.Path {
	metrics.PathQueries.Inc()

	path := n.graph.ShortestPath(from, to)
	if !path.Reachable() {
		metrics.UnreachablePaths.Inc()
	}

	return path
}

// NextStop returns the following stop in sequence and the path to it, false on the final stop
func (n *Network) NextStop(identifier string) (NextStop, bool) {
	position, exists := n.positions[identifier]
	if !exists || position+1 >= len(n.stops) {
		return NextStop{}, false
	}

	next := n.stops[position+1]

	return NextStop{
		Stop: next,
		Path: n.ShortestPath(identifier, next.PrimaryIdentifier),
	}, true
}

// RoutePath is the shortest path from the first to the last stop
func (n *Network) RoutePath() (routegraph.Path, bool) {
	if len(n.stops) == 0 {
		return routegraph.Path{}, false
	}

	return n.ShortestPath(n.stops[0].PrimaryIdentifier, n.stops[len(n.stops)-1].PrimaryIdentifier), true
}

// Search matches stop names case insensitively, in sequence order
func (n *Network) Search(term string) []*ctdf.Stop {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return []*ctdf.Stop{}
	}

	matches := slices.Clone(n.stops)
	matches = slices.DeleteFunc(matches, func(stop *ctdf.Stop) bool {
		return !strings.Contains(strings.ToLower(stop.PrimaryName), term)
	})

	return matches
}
