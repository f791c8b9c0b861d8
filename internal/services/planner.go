package services

import (
	"city-route-optimizer/internal/domain"
	"city-route-optimizer/internal/platform/obs"
	"context"
	"errors"
	"fmt"
	"time"
)

// Options for planning a single cluster route.
type PlanOptions struct {
	Depot  int
	TwoOpt bool
	// TwoOptOptions bounds the improvement step when TwoOpt is set.
	TwoOptOptions TwoOptOptions
	Fuel          FuelConfig
}

func DefaultPlanOptions() PlanOptions {
	return PlanOptions{
		Depot:         0,
		TwoOpt:        true,
		TwoOptOptions: DefaultTwoOptOptions(),
		Fuel:          DefaultFuelConfig(),
	}
}

// PlanCluster builds the before and after routes for one driver cluster.
//
// The initial order starts at the first target, is built with nearest-neighbor
// search, and is then prefixed with the depot. When TwoOpt is enabled the order
// is improved with the depot held fixed. Both orders are stitched into full
// paths and evaluated under distance and time.
func PlanCluster(
	ctx context.Context,
	router *Router,
	clusterID int,
	targets []int,
	opts PlanOptions,
) (_ *domain.ClusterPlan, err error) {
	defer obs.Time(ctx, fmt.Sprintf("planner.PlanCluster cluster=%d", clusterID))(&err)

	if router == nil {
		return nil, errors.New("plan cluster: router must be non-nil")
	}

	start := time.Now()
	defer func() {
		clusterPlanDuration.WithLabelValues(string(router.Weight())).Observe(time.Since(start).Seconds())
	}()

	stops := uniqueStops(targets, opts.Depot)
	if len(stops) == 0 {
		return nil, fmt.Errorf("plan cluster %d: %w", clusterID, domain.ErrEmptyTargetSet)
	}

	seq, err := NearestNeighborTour(ctx, router, stops, stops[0])
	if err != nil {
		return nil, fmt.Errorf("plan cluster %d: %w", clusterID, err)
	}
	seq0 := append(domain.Tour{opts.Depot}, seq...)

	before, err := snapshot(ctx, router, seq0, opts.Fuel)
	if err != nil {
		return nil, fmt.Errorf("plan cluster %d: before: %w", clusterID, err)
	}

	seq1 := seq0.Clone()
	var stats TwoOptStats
	if opts.TwoOpt {
		seq1, stats, err = TwoOpt(ctx, router, seq0, opts.TwoOptOptions)
		if err != nil {
			return nil, fmt.Errorf("plan cluster %d: %w", clusterID, err)
		}
	}

	after, err := snapshot(ctx, router, seq1, opts.Fuel)
	if err != nil {
		return nil, fmt.Errorf("plan cluster %d: after: %w", clusterID, err)
	}

	return &domain.ClusterPlan{
		ClusterID:   clusterID,
		Weight:      router.Weight(),
		TwoOpt:      opts.TwoOpt,
		Targets:     stops,
		Before:      before,
		After:       after,
		Improvement: CompareMetrics(before.Metrics, after.Metrics),
		Sweeps:      stats.Sweeps,
		Moves:       stats.Moves,
	}, nil
}

func snapshot(ctx context.Context, router *Router, tour domain.Tour, fuel FuelConfig) (domain.RouteSnapshot, error) {
	path, cost, err := StitchShortestPaths(ctx, router, tour)
	if err != nil {
		return domain.RouteSnapshot{}, err
	}

	metrics, err := EvaluateRoute(router.Graph(), path, fuel)
	if err != nil {
		return domain.RouteSnapshot{}, err
	}

	return domain.RouteSnapshot{
		Tour:     tour,
		Path:     path,
		PathCost: cost,
		Metrics:  metrics,
	}, nil
}

// uniqueStops keeps the first occurrence of every target except the depot.
func uniqueStops(targets []int, depot int) []int {
	seen := map[int]struct{}{depot: {}}
	out := make([]int, 0, len(targets))
	for _, t := range targets {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
