package services

import (
	"city-route-optimizer/internal/domain"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unlabeled(ids ...int) []domain.Delivery {
	out := make([]domain.Delivery, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Delivery{NodeID: id})
	}
	return out
}

func labeled(pairs ...[2]int) []domain.Delivery {
	out := make([]domain.Delivery, 0, len(pairs))
	for _, p := range pairs {
		cluster := p[1]
		out = append(out, domain.Delivery{NodeID: p[0], ClusterID: &cluster})
	}
	return out
}

func baseRequest() PlanClustersRequest {
	return PlanClustersRequest{
		Weight:  domain.WeightDistance,
		Drivers: 2,
		Plan:    DefaultPlanOptions(),
		Workers: 2,
	}
}

func TestPlanClustersAssignsBands(t *testing.T) {
	g := lineGraph(t, 5)

	plans, err := PlanClusters(context.Background(), g, unlabeled(4, 2, 3, 1), baseRequest(), newMapCache())
	require.NoError(t, err)
	require.Len(t, plans, 2)

	assert.Equal(t, 0, plans[0].ClusterID)
	assert.Equal(t, []int{1, 2}, plans[0].Targets)
	assert.Equal(t, domain.FullPath{0, 1, 2}, plans[0].After.Path)

	assert.Equal(t, 1, plans[1].ClusterID)
	assert.Equal(t, domain.Tour{0, 3, 4}, plans[1].After.Tour)
	assert.Equal(t, 4.0, plans[1].After.Metrics.DistanceKm)
}

func TestPlanClustersUsesExplicitLabels(t *testing.T) {
	g := squareGraph(t)
	deliveries := labeled([2]int{3, 5}, [2]int{1, 2}, [2]int{2, 2})

	plans, err := PlanClusters(context.Background(), g, deliveries, baseRequest(), nil)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, 2, plans[0].ClusterID)
	assert.Equal(t, []int{1, 2}, plans[0].Targets)
	assert.Equal(t, 5, plans[1].ClusterID)
	assert.Equal(t, domain.Tour{0, 3}, plans[1].After.Tour)
}

func TestPlanClustersFailures(t *testing.T) {
	g := squareGraph(t)
	require.NoError(t, g.AddNode(domain.Node{ID: 9}))
	ctx := context.Background()
	deliveries := labeled([2]int{1, 0}, [2]int{9, 1}, [2]int{0, 2})

	_, err := PlanClusters(ctx, g, deliveries, baseRequest(), nil)
	assert.ErrorIs(t, err, domain.ErrNoPathFound)

	req := baseRequest()
	req.SkipFailed = true
	plans, err := PlanClusters(ctx, g, deliveries, req, nil)
	require.NoError(t, err)
	require.Len(t, plans, 1, "unreachable cluster 1 and depot-only cluster 2 are skipped")
	assert.Equal(t, 0, plans[0].ClusterID)

	mixed := append(labeled([2]int{1, 0}), unlabeled(2)...)
	_, err = PlanClusters(ctx, g, mixed, baseRequest(), nil)
	assert.Error(t, err)

	_, err = PlanClusters(ctx, g, unlabeled(42), baseRequest(), nil)
	assert.ErrorIs(t, err, domain.ErrUnknownNode)

	req = baseRequest()
	req.Weight = "fuel"
	_, err = PlanClusters(ctx, g, unlabeled(1), req, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidWeightKey)
}

func TestPlanClustersNoDeliveries(t *testing.T) {
	plans, err := PlanClusters(context.Background(), squareGraph(t), nil, baseRequest(), nil)
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestAssignStopsByDistance(t *testing.T) {
	r := newTestRouter(t, lineGraph(t, 5), domain.WeightDistance)
	ctx := context.Background()

	clusters, err := AssignStopsByDistance(ctx, r, 0, []int{3, 1, 4, 2, 0, 3}, 3)
	require.NoError(t, err)
	assert.Equal(t, map[int][]int{0: {1, 2}, 1: {3, 4}}, clusters)

	_, err = AssignStopsByDistance(ctx, r, 0, []int{1}, 0)
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	plans := []*domain.ClusterPlan{
		{Improvement: domain.Improvement{DistancePct: 10, TimePct: 20, CostPct: 10}},
		{Improvement: domain.Improvement{DistancePct: 30, TimePct: 0, CostPct: 30}},
	}

	s := Summarize(plans)
	assert.Equal(t, 2, s.Clusters)
	assert.Equal(t, 20.0, s.MeanDistancePct)
	assert.Equal(t, 10.0, s.MeanTimePct)
	assert.Equal(t, 20.0, s.MeanCostPct)

	assert.Equal(t, Summary{}, Summarize(nil))
	assert.Equal(t, 33.33, Round(100.0/3, 2))
}
