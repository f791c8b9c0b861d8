package services

import (
	"city-route-optimizer/internal/domain"
	"city-route-optimizer/internal/graph"
	"city-route-optimizer/internal/ports"
	"context"
	"errors"
	"fmt"
	"log"

	"go.uber.org/atomic"
)

// Coster computes the travel cost between two waypoints.
type Coster interface {
	Cost(ctx context.Context, a, b int) (float64, error)
}

// RouterStats reports how many pairwise costs were served by search versus cache.
type RouterStats struct {
	Queries     int64
	CacheHits   int64
	CacheMisses int64
}

// Router answers shortest-path queries on one graph under one weight key.
//
// A Router is bound to a single WeightKey so every tour operation of a route
// plan shares the same cost model. It is safe for concurrent use by cluster
// workers because the graph is read-only and counters are atomic.
type Router struct {
	graph       *graph.WeightedGraph
	weight      domain.WeightKey
	heuristic   bool
	cache       ports.DistanceCache
	fingerprint string

	queries *atomic.Int64
	hits    *atomic.Int64
	misses  *atomic.Int64
}

type RouterOption func(*Router)

// WithHeuristic enables A* search guided by node positions.
func WithHeuristic(enabled bool) RouterOption {
	return func(r *Router) { r.heuristic = enabled }
}

// WithDistanceCache memoizes Cost results in c.
func WithDistanceCache(c ports.DistanceCache) RouterOption {
	return func(r *Router) { r.cache = c }
}

func NewRouter(g *graph.WeightedGraph, weight domain.WeightKey, opts ...RouterOption) (*Router, error) {
	if g == nil {
		return nil, errors.New("new router: graph must be non-nil")
	}
	if err := weight.Validate(); err != nil {
		return nil, fmt.Errorf("new router: %w", err)
	}

	r := &Router{
		graph:   g,
		weight:  weight,
		queries: atomic.NewInt64(0),
		hits:    atomic.NewInt64(0),
		misses:  atomic.NewInt64(0),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache != nil {
		r.fingerprint = g.Fingerprint()
	}
	return r, nil
}

func (r *Router) Graph() *graph.WeightedGraph { return r.graph }

func (r *Router) Weight() domain.WeightKey { return r.weight }

// Path returns the shortest node sequence between a and b and its weight.
func (r *Router) Path(ctx context.Context, a, b int) ([]int, float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	r.queries.Inc()
	if r.heuristic {
		shortestPathQueries.WithLabelValues(string(r.weight), "astar").Inc()
		return AStarPath(r.graph, a, b, r.weight)
	}
	shortestPathQueries.WithLabelValues(string(r.weight), "dijkstra").Inc()
	return ShortestPath(r.graph, a, b, r.weight)
}

// Cost returns the shortest-path weight between a and b.
func (r *Router) Cost(ctx context.Context, a, b int) (float64, error) {
	if a == b && r.graph.HasNode(a) {
		return 0, nil
	}

	var key ports.DistanceKey
	if r.cache != nil {
		key = ports.NewDistanceKey(r.fingerprint, r.weight, a, b)
		c, ok, err := r.cache.Get(ctx, key)
		if err != nil {
			return 0, fmt.Errorf("router cost %d -> %d: read cache: %w", a, b, err)
		}
		if ok {
			r.hits.Inc()
			distanceCacheLookups.WithLabelValues("hit").Inc()
			return c, nil
		}
		r.misses.Inc()
		distanceCacheLookups.WithLabelValues("miss").Inc()
	}

	_, c, err := r.Path(ctx, a, b)
	if err != nil {
		return 0, err
	}

	if r.cache != nil {
		if err := r.cache.Put(ctx, key, c); err != nil {
			log.Printf("distance cache write failed: from=%d to=%d err=%v", a, b, err)
		}
	}
	return c, nil
}

func (r *Router) Stats() RouterStats {
	return RouterStats{
		Queries:     r.queries.Load(),
		CacheHits:   r.hits.Load(),
		CacheMisses: r.misses.Load(),
	}
}
