package graph

import (
	"city-route-optimizer/internal/domain"
	"fmt"
	"math"
	"slices"
)

type pairKey struct{ lo, hi int }

func keyOf(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// WeightedGraph is a simple undirected road network.
//
// It is built once per run and then treated as read-only; all query methods
// are safe for concurrent use as long as no Add* call runs at the same time.
type WeightedGraph struct {
	nodes    map[int]domain.Node
	edges    map[pairKey]domain.Edge
	adj      map[int][]int
	maxSpeed float64
}

func New() *WeightedGraph {
	return &WeightedGraph{
		nodes: make(map[int]domain.Node),
		edges: make(map[pairKey]domain.Edge),
		adj:   make(map[int][]int),
	}
}

// Add a node. Node identifiers must be unique.
func (g *WeightedGraph) AddNode(n domain.Node) error {
	if _, ok := g.nodes[n.ID]; ok {
		return fmt.Errorf("add node: %w: duplicate node id %d", domain.ErrInvalidGraph, n.ID)
	}
	g.nodes[n.ID] = n
	g.adj[n.ID] = nil
	return nil
}

// Add an undirected edge between two existing nodes.
// Self-loops, parallel edges and negative or non-finite attributes are rejected.
// A finite speed keeps the time heuristic admissible.
func (g *WeightedGraph) AddEdge(e domain.Edge) error {
	if _, ok := g.nodes[e.Source]; !ok {
		return fmt.Errorf("add edge %d-%d: %w: %d", e.Source, e.Target, domain.ErrUnknownNode, e.Source)
	}
	if _, ok := g.nodes[e.Target]; !ok {
		return fmt.Errorf("add edge %d-%d: %w: %d", e.Source, e.Target, domain.ErrUnknownNode, e.Target)
	}
	if e.Source == e.Target {
		return fmt.Errorf("add edge %d-%d: %w: self-loop", e.Source, e.Target, domain.ErrInvalidGraph)
	}
	if !validAttr(e.DistanceKm) || !validAttr(e.SpeedKmh) {
		return fmt.Errorf(
			"add edge %d-%d: %w: distance_km=%v speed_kmh=%v",
			e.Source, e.Target, domain.ErrInvalidGraph, e.DistanceKm, e.SpeedKmh,
		)
	}

	k := keyOf(e.Source, e.Target)
	if _, ok := g.edges[k]; ok {
		return fmt.Errorf("add edge %d-%d: %w: parallel edge", e.Source, e.Target, domain.ErrInvalidGraph)
	}

	// Re-derive time so callers cannot store an inconsistent value.
	e = domain.NewEdge(e.Source, e.Target, e.DistanceKm, e.SpeedKmh)
	g.edges[k] = e

	// Adjacency stays sorted so relaxation order, and therefore tie-breaking, is stable.
	g.adj[e.Source] = insertSorted(g.adj[e.Source], e.Target)
	g.adj[e.Target] = insertSorted(g.adj[e.Target], e.Source)

	if e.SpeedKmh > g.maxSpeed {
		g.maxSpeed = e.SpeedKmh
	}
	return nil
}

func validAttr(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func insertSorted(s []int, v int) []int {
	i, _ := slices.BinarySearch(s, v)
	return slices.Insert(s, i, v)
}

func (g *WeightedGraph) HasNode(id int) bool {
	_, ok := g.nodes[id]
	return ok
}

func (g *WeightedGraph) Node(id int) (domain.Node, error) {
	n, ok := g.nodes[id]
	if !ok {
		return domain.Node{}, fmt.Errorf("%w: %d", domain.ErrUnknownNode, id)
	}
	return n, nil
}

// Return all nodes ordered by id.
func (g *WeightedGraph) Nodes() []domain.Node {
	out := make([]domain.Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	slices.SortFunc(out, func(a, b domain.Node) int { return a.ID - b.ID })
	return out
}

// Return all edges ordered by (lower endpoint, higher endpoint).
func (g *WeightedGraph) Edges() []domain.Edge {
	keys := make([]pairKey, 0, len(g.edges))
	for k := range g.edges {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b pairKey) int {
		if a.lo != b.lo {
			return a.lo - b.lo
		}
		return a.hi - b.hi
	})

	out := make([]domain.Edge, 0, len(keys))
	for _, k := range keys {
		out = append(out, g.edges[k])
	}
	return out
}

func (g *WeightedGraph) Edge(a, b int) (domain.Edge, bool) {
	e, ok := g.edges[keyOf(a, b)]
	return e, ok
}

// Neighbors returns the sorted adjacency of id. The slice must not be modified.
func (g *WeightedGraph) Neighbors(id int) []int { return g.adj[id] }

func (g *WeightedGraph) NodeCount() int { return len(g.nodes) }

func (g *WeightedGraph) EdgeCount() int { return len(g.edges) }

// Highest finite positive edge speed, or 0 when the graph has none.
func (g *WeightedGraph) MaxSpeed() float64 { return g.maxSpeed }

// Euclidean distance between two node positions.
func (g *WeightedGraph) Euclidean(a, b int) float64 {
	na, nb := g.nodes[a], g.nodes[b]
	return math.Hypot(nb.X-na.X, nb.Y-na.Y)
}

// PathWeight sums the key attribute along consecutive path nodes.
// A path of zero or one node weighs 0. Missing edges fail with ErrNoPathFound.
func (g *WeightedGraph) PathWeight(path []int, key domain.WeightKey) (float64, error) {
	if err := key.Validate(); err != nil {
		return 0, fmt.Errorf("path weight: %w", err)
	}
	for _, id := range path {
		if !g.HasNode(id) {
			return 0, fmt.Errorf("path weight: %w: %d", domain.ErrUnknownNode, id)
		}
	}

	total := 0.0
	for i := 1; i < len(path); i++ {
		e, ok := g.Edge(path[i-1], path[i])
		if !ok {
			return 0, fmt.Errorf("path weight: %w: no edge %d-%d", domain.ErrNoPathFound, path[i-1], path[i])
		}
		total += e.Weight(key)
	}
	return total, nil
}
