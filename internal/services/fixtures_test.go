package services

import (
	"city-route-optimizer/internal/domain"
	"city-route-optimizer/internal/graph"
	"city-route-optimizer/internal/ports"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// unit square 0-1-2-3-0, every side 1 km at 10 km/h.
func squareGraph(t *testing.T) *graph.WeightedGraph {
	t.Helper()
	g := graph.New()
	for _, n := range []domain.Node{
		{ID: 0, Name: "Centro", X: 0, Y: 0},
		{ID: 1, Name: "A", X: 1, Y: 0},
		{ID: 2, Name: "B", X: 1, Y: 1},
		{ID: 3, Name: "C", X: 0, Y: 1},
	} {
		require.NoError(t, g.AddNode(n))
	}
	for _, e := range [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}} {
		require.NoError(t, g.AddEdge(domain.NewEdge(e[0], e[1], 1, 10)))
	}
	return g
}

// straight street 0-1-...-(n-1), 1 km per block at 10 km/h.
func lineGraph(t *testing.T, n int) *graph.WeightedGraph {
	t.Helper()
	g := graph.New()
	for i := 0; i < n; i++ {
		require.NoError(t, g.AddNode(domain.Node{ID: i, X: float64(i)}))
	}
	for i := 1; i < n; i++ {
		require.NoError(t, g.AddEdge(domain.NewEdge(i-1, i, 1, 10)))
	}
	return g
}

// size x size grid with id = y*size + x. Block lengths are >= the Euclidean
// spacing so the A* heuristic stays admissible, and speeds vary per block.
func gridGraph(t *testing.T, size int) *graph.WeightedGraph {
	t.Helper()
	g := graph.New()
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			require.NoError(t, g.AddNode(domain.Node{ID: y*size + x, X: float64(x), Y: float64(y)}))
		}
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			id := y*size + x
			if x+1 < size {
				dist := 1.0 + float64((id*7)%5)/10
				speed := 20.0 + float64((id*3)%4)*10
				require.NoError(t, g.AddEdge(domain.NewEdge(id, id+1, dist, speed)))
			}
			if y+1 < size {
				dist := 1.0 + float64((id*11)%3)/10
				speed := 15.0 + float64((id*5)%3)*15
				require.NoError(t, g.AddEdge(domain.NewEdge(id, id+size, dist, speed)))
			}
		}
	}
	return g
}

func newTestRouter(t *testing.T, g *graph.WeightedGraph, key domain.WeightKey, opts ...RouterOption) *Router {
	t.Helper()
	r, err := NewRouter(g, key, opts...)
	require.NoError(t, err)
	return r
}

type mapCache struct {
	mu sync.Mutex
	m  map[ports.DistanceKey]float64
}

func newMapCache() *mapCache { return &mapCache{m: make(map[ports.DistanceKey]float64)} }

func (c *mapCache) Get(_ context.Context, k ports.DistanceKey) (float64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[k]
	return v, ok, nil
}

func (c *mapCache) Put(_ context.Context, k ports.DistanceKey, v float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[k] = v
	return nil
}
