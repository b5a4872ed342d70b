package routegraph

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

var ErrInvalidWeight = errors.New("connection weight must be a non-negative number")

type Edge struct {
	Target string
	Weight float64
}

// Path is the result of a shortest path search. An unreachable destination has an
// infinite distance and no stops.
type Path struct {
	Distance float64
	Stops    []string
}

func (p Path) Reachable() bool {
	return !math.IsInf(p.Distance, 1)
}

func unreachable() Path {
	return Path{Distance: math.Inf(1)}
}

// Graph is a directed weighted graph keyed by node identifier.
// Edges are never deduplicated and nodes are created on first reference.
type Graph struct {
	mu        sync.RWMutex
	adjacency map[string][]Edge
	order     []string
}

func New() *Graph {
	return &Graph{
		adjacency: map[string][]Edge{},
	}
}

func (g *Graph) AddNode(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.addNode(id)
}

func (g *Graph) addNode(id string) {
	if _, exists := g.adjacency[id]; exists {
		return
	}

	g.adjacency[id] = []Edge{}
	g.order = append(g.order, id)
}

// AddConnection appends a directed edge from -> to, creating either node if missing
func (g *Graph) AddConnection(from string, to string, weight float64) error {
	if math.IsNaN(weight) || weight < 0 {
		return fmt.Errorf("%s -> %s (%v): %w", from, to, weight, ErrInvalidWeight)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.addNode(from)
	g.addNode(to)

	g.adjacency[from] = append(g.adjacency[from], Edge{Target: to, Weight: weight})

	return nil
}

func (g *Graph) HasNode(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, exists := g.adjacency[id]
	return exists
}

func (g *Graph) Edges(id string) []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	edges := make([]Edge, len(g.adjacency[id]))
	copy(edges, g.adjacency[id])

	return edges
}

// Nodes returns node identifiers in the order they were first seen
func (g *Graph) Nodes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	nodes := make([]string, len(g.order))
	copy(nodes, g.order)

	return nodes
}

func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.order)
}

// ShortestPath runs Dijkstra from start, stopping as soon as end is settled.
// Selection is a linear scan over the unvisited nodes in insertion order, which is
// plenty for route sized graphs and keeps tie breaking deterministic.
func (g *Graph) ShortestPath(start string, end string) Path {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, startExists := g.adjacency[start]
	_, endExists := g.adjacency[end]
	if !startExists || !endExists {
		return unreachable()
	}

	distances := make(map[string]float64, len(g.order))
	previous := map[string]string{}
	visited := make(map[string]bool, len(g.order))

	for _, id := range g.order {
		distances[id] = math.Inf(1)
	}
	distances[start] = 0

	for {
		var current string
		currentDistance := math.Inf(1)
		found := false

		for _, id := range g.order {
			if !visited[id] && distances[id] < currentDistance {
				current = id
				currentDistance = distances[id]
				found = true
			}
		}

		// Frontier exhausted
		if !found {
			break
		}

		visited[current] = true

		if current == end {
			break
		}

		for _, edge := range g.adjacency[current] {
			if visited[edge.Target] {
				continue
			}

			candidate := currentDistance + edge.Weight
			if candidate < distances[edge.Target] {
				distances[edge.Target] = candidate
				previous[edge.Target] = current
			}
		}
	}

	if !visited[end] {
		return unreachable()
	}

	stops := []string{end}
	for node := end; node != start; {
		node = previous[node]
		stops = append(stops, node)
	}

	for i, j := 0, len(stops)-1; i < j; i, j = i+1, j-1 {
		stops[i], stops[j] = stops[j], stops[i]
	}

	return Path{
		Distance: distances[end],
		Stops:    stops,
	}
}
