package graph

import (
	"city-route-optimizer/internal/domain"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(t *testing.T) *WeightedGraph {
	t.Helper()
	g := New()
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

func TestAddEdgeRejectsInvalidEdges(t *testing.T) {
	g := square(t)

	err := g.AddEdge(domain.NewEdge(0, 42, 1, 10))
	assert.ErrorIs(t, err, domain.ErrUnknownNode)

	err = g.AddEdge(domain.NewEdge(1, 1, 1, 10))
	assert.ErrorIs(t, err, domain.ErrInvalidGraph)

	err = g.AddEdge(domain.NewEdge(1, 0, 2, 10))
	assert.ErrorIs(t, err, domain.ErrInvalidGraph, "parallel edge in reverse orientation")

	err = g.AddEdge(domain.NewEdge(0, 2, -1, 10))
	assert.ErrorIs(t, err, domain.ErrInvalidGraph)

	err = g.AddEdge(domain.NewEdge(0, 2, 1, math.Inf(1)))
	assert.ErrorIs(t, err, domain.ErrInvalidGraph, "infinite speed")

	err = g.AddEdge(domain.NewEdge(0, 2, math.Inf(1), 10))
	assert.ErrorIs(t, err, domain.ErrInvalidGraph, "infinite distance")

	err = g.AddEdge(domain.NewEdge(0, 2, 1, math.NaN()))
	assert.ErrorIs(t, err, domain.ErrInvalidGraph)

	assert.ErrorIs(t, g.AddNode(domain.Node{ID: 2}), domain.ErrInvalidGraph)
	assert.Equal(t, 4, g.EdgeCount())
}

func TestZeroSpeedEdgeIsTimeImpassable(t *testing.T) {
	e := domain.NewEdge(0, 1, 3, 0)
	assert.True(t, math.IsInf(e.TimeH, 1))
	assert.Equal(t, 3.0, e.Weight(domain.WeightDistance))
}

func TestNeighborsSortedAndSymmetric(t *testing.T) {
	g := square(t)
	assert.Equal(t, []int{1, 3}, g.Neighbors(0))
	assert.Equal(t, []int{0, 2}, g.Neighbors(1))

	e, ok := g.Edge(3, 0)
	require.True(t, ok)
	assert.InDelta(t, 0.1, e.TimeH, 1e-12)
	assert.Equal(t, 10.0, g.MaxSpeed())
}

func TestPathWeight(t *testing.T) {
	g := square(t)

	w, err := g.PathWeight([]int{0, 1, 2, 3}, domain.WeightDistance)
	require.NoError(t, err)
	assert.Equal(t, 3.0, w)

	w, err = g.PathWeight([]int{2}, domain.WeightTime)
	require.NoError(t, err)
	assert.Equal(t, 0.0, w)

	_, err = g.PathWeight([]int{0, 2}, domain.WeightDistance)
	assert.ErrorIs(t, err, domain.ErrNoPathFound)

	_, err = g.PathWeight([]int{0, 9}, domain.WeightDistance)
	assert.ErrorIs(t, err, domain.ErrUnknownNode)

	_, err = g.PathWeight([]int{0, 1}, domain.WeightKey("speed"))
	assert.ErrorIs(t, err, domain.ErrInvalidWeightKey)
}

func TestFingerprintTracksContent(t *testing.T) {
	a, b := square(t), square(t)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	require.NoError(t, b.AddEdge(domain.NewEdge(0, 2, 1.5, 20)))
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}
