package services

import (
	"city-route-optimizer/internal/domain"
	"city-route-optimizer/internal/graph"
	"container/heap"
	"fmt"
)

// searchItem is a frontier entry. Priority is cost plus heuristic; cost alone for Dijkstra.
type searchItem struct {
	id       int
	cost     float64
	priority float64
}

// searchQueue is a min-heap ordered by priority, then by node id so that
// equal-priority pops are deterministic.
type searchQueue []searchItem

func (q searchQueue) Len() int { return len(q) }
func (q searchQueue) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority < q[j].priority
	}
	return q[i].id < q[j].id
}
func (q searchQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *searchQueue) Push(x any)   { *q = append(*q, x.(searchItem)) }
func (q *searchQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

// ShortestPath returns the minimum-weight node sequence from src to dst under key
// and its total weight, using Dijkstra relaxation.
//
// +Inf edge weights are legal. Such an edge is only used when no finite
// alternative exists, and the resulting +Inf weight is returned as-is.
func ShortestPath(g *graph.WeightedGraph, src, dst int, key domain.WeightKey) ([]int, float64, error) {
	return search(g, src, dst, key, nil)
}

// ShortestPathLength returns only the weight of the shortest path from src to dst.
func ShortestPathLength(g *graph.WeightedGraph, src, dst int, key domain.WeightKey) (float64, error) {
	_, w, err := search(g, src, dst, key, nil)
	return w, err
}

// AStarPath is ShortestPath guided by straight-line distance to dst.
//
// For distance_km the Euclidean distance is used directly. For time_h it is
// divided by the highest edge speed in the graph, which keeps the estimate a
// lower bound on travel time. Without any positive speed the heuristic is zero
// and the search degrades to Dijkstra.
func AStarPath(g *graph.WeightedGraph, src, dst int, key domain.WeightKey) ([]int, float64, error) {
	return search(g, src, dst, key, EuclideanHeuristic(g, dst, key))
}

// EuclideanHeuristic builds an admissible remaining-cost estimate towards dst.
func EuclideanHeuristic(g *graph.WeightedGraph, dst int, key domain.WeightKey) func(int) float64 {
	if key == domain.WeightTime {
		maxSpeed := g.MaxSpeed()
		if maxSpeed <= 0 {
			return func(int) float64 { return 0 }
		}
		return func(v int) float64 { return g.Euclidean(v, dst) / maxSpeed }
	}
	return func(v int) float64 { return g.Euclidean(v, dst) }
}

func search(
	g *graph.WeightedGraph,
	src, dst int,
	key domain.WeightKey,
	h func(int) float64,
) ([]int, float64, error) {
	if err := key.Validate(); err != nil {
		return nil, 0, fmt.Errorf("shortest path: %w", err)
	}
	if !g.HasNode(src) {
		return nil, 0, fmt.Errorf("shortest path: source: %w: %d", domain.ErrUnknownNode, src)
	}
	if !g.HasNode(dst) {
		return nil, 0, fmt.Errorf("shortest path: destination: %w: %d", domain.ErrUnknownNode, dst)
	}
	if src == dst {
		return []int{src}, 0, nil
	}
	if h == nil {
		h = func(int) float64 { return 0 }
	}

	// A node present in cost has been reached, even when its cost is +Inf.
	cost := map[int]float64{src: 0}
	prev := make(map[int]int)
	done := make(map[int]bool)

	pq := &searchQueue{{id: src, cost: 0, priority: h(src)}}
	for pq.Len() > 0 {
		it := heap.Pop(pq).(searchItem)
		u := it.id
		if done[u] {
			continue
		}
		done[u] = true

		if u == dst {
			return buildPath(prev, src, dst), cost[dst], nil
		}

		for _, v := range g.Neighbors(u) {
			if done[v] {
				continue
			}
			e, _ := g.Edge(u, v)
			nc := cost[u] + e.Weight(key)

			// Strict improvement only: the first path found wins ties.
			if old, seen := cost[v]; seen && !(nc < old) {
				continue
			}
			cost[v] = nc
			prev[v] = u
			heap.Push(pq, searchItem{id: v, cost: nc, priority: nc + h(v)})
		}
	}

	return nil, 0, fmt.Errorf("shortest path: %w: %d -> %d", domain.ErrNoPathFound, src, dst)
}

func buildPath(prev map[int]int, src, dst int) []int {
	path := []int{dst}
	for cur := dst; cur != src; {
		cur = prev[cur]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
