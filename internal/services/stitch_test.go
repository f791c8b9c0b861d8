package services

import (
	"city-route-optimizer/internal/domain"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStitchShortestPaths(t *testing.T) {
	r := newTestRouter(t, squareGraph(t), domain.WeightDistance)

	full, cost, err := StitchShortestPaths(context.Background(), r, domain.Tour{0, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, domain.FullPath{0, 1, 2, 3}, full)
	assert.Equal(t, 3.0, cost)
}

func TestStitchSingleWaypoint(t *testing.T) {
	r := newTestRouter(t, squareGraph(t), domain.WeightTime)

	full, cost, err := StitchShortestPaths(context.Background(), r, domain.Tour{3})
	require.NoError(t, err)
	assert.Equal(t, domain.FullPath{3}, full)
	assert.Equal(t, 0.0, cost)

	_, _, err = StitchShortestPaths(context.Background(), r, domain.Tour{42})
	assert.ErrorIs(t, err, domain.ErrUnknownNode)
}

func TestStitchedPathIsEdgeConnected(t *testing.T) {
	g := gridGraph(t, 5)
	r := newTestRouter(t, g, domain.WeightTime, WithHeuristic(true))
	ctx := context.Background()
	tour := domain.Tour{0, 24, 4, 20, 12}

	full, cost, err := StitchShortestPaths(ctx, r, tour)
	require.NoError(t, err)

	for i := 1; i < len(full); i++ {
		_, ok := g.Edge(full[i-1], full[i])
		assert.True(t, ok, "no edge between %d and %d", full[i-1], full[i])
	}
	assert.Equal(t, 0, full[0])
	assert.Equal(t, 12, full[len(full)-1])

	waypointCost, err := TourCost(ctx, r, tour)
	require.NoError(t, err)
	assert.InDelta(t, waypointCost, cost, 1e-9)
}

func TestStitchPropagatesNoPath(t *testing.T) {
	g := squareGraph(t)
	require.NoError(t, g.AddNode(domain.Node{ID: 9}))
	r := newTestRouter(t, g, domain.WeightDistance)

	_, _, err := StitchShortestPaths(context.Background(), r, domain.Tour{0, 1, 9})
	assert.ErrorIs(t, err, domain.ErrNoPathFound)
}
