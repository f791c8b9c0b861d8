package services

import (
	"city-route-optimizer/internal/domain"
	"city-route-optimizer/internal/graph"
	"city-route-optimizer/internal/platform/obs"
	"city-route-optimizer/internal/ports"
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"slices"

	"golang.org/x/sync/errgroup"
)

type PlanClustersRequest struct {
	Weight domain.WeightKey
	// Drivers is the number of clusters built when deliveries carry no cluster id.
	Drivers      int
	Plan         PlanOptions
	UseHeuristic bool
	Workers      int
	// SkipFailed logs and drops clusters whose planning fails instead of aborting the run.
	SkipFailed bool
}

// PlanClusters plans every driver cluster of a delivery set on g.
//
// Clusters come from the deliveries' ClusterID when present, otherwise from
// AssignStopsByDistance. Clusters are independent and planned in parallel
// against the shared read-only graph; results are ordered by cluster id.
// Clusters with no targets are always skipped.
func PlanClusters(
	ctx context.Context,
	g *graph.WeightedGraph,
	deliveries []domain.Delivery,
	req PlanClustersRequest,
	cache ports.DistanceCache,
) (_ []*domain.ClusterPlan, err error) {
	defer obs.Time(ctx, "planner.PlanClusters")(&err)

	opts := []RouterOption{WithHeuristic(req.UseHeuristic)}
	if cache != nil {
		opts = append(opts, WithDistanceCache(cache))
	}
	router, err := NewRouter(g, req.Weight, opts...)
	if err != nil {
		return nil, fmt.Errorf("plan clusters: %w", err)
	}

	if !g.HasNode(req.Plan.Depot) {
		return nil, fmt.Errorf("plan clusters: depot: %w: %d", domain.ErrUnknownNode, req.Plan.Depot)
	}

	clusters, err := resolveClusters(ctx, router, deliveries, req)
	if err != nil {
		return nil, fmt.Errorf("plan clusters: %w", err)
	}
	if len(clusters) == 0 {
		return []*domain.ClusterPlan{}, nil
	}

	ids := make([]int, 0, len(clusters))
	for id := range clusters {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	workers := req.Workers
	if workers < 1 {
		workers = 1
	}

	plans := make([]*domain.ClusterPlan, len(ids))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, id := range ids {
		i, id := i, id
		eg.Go(func() error {
			plan, err := PlanCluster(egCtx, router, id, clusters[id], req.Plan)
			switch {
			case err == nil:
				clusterPlans.WithLabelValues("ok").Inc()
				plans[i] = plan
				return nil
			case errors.Is(err, domain.ErrEmptyTargetSet):
				clusterPlans.WithLabelValues("skipped").Inc()
				log.Printf("skipping cluster=%d: %v", id, err)
				return nil
			case req.SkipFailed && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded):
				clusterPlans.WithLabelValues("skipped").Inc()
				log.Printf("skipping failed cluster=%d: %v", id, err)
				return nil
			default:
				clusterPlans.WithLabelValues("failed").Inc()
				return err
			}
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("plan clusters: %w", err)
	}

	out := make([]*domain.ClusterPlan, 0, len(plans))
	for _, p := range plans {
		if p != nil {
			out = append(out, p)
		}
	}

	stats := router.Stats()
	log.Printf(
		"planned clusters=%d weight=%s queries=%d cache_hits=%d cache_misses=%d",
		len(out), req.Weight, stats.Queries, stats.CacheHits, stats.CacheMisses,
	)
	return out, nil
}

func resolveClusters(
	ctx context.Context,
	router *Router,
	deliveries []domain.Delivery,
	req PlanClustersRequest,
) (map[int][]int, error) {
	if len(deliveries) == 0 {
		return map[int][]int{}, nil
	}

	labeled := 0
	for _, d := range deliveries {
		if !router.Graph().HasNode(d.NodeID) {
			return nil, fmt.Errorf("delivery: %w: %d", domain.ErrUnknownNode, d.NodeID)
		}
		if d.ClusterID != nil {
			labeled++
		}
	}

	if labeled == len(deliveries) {
		clusters := make(map[int][]int)
		for _, d := range deliveries {
			clusters[*d.ClusterID] = append(clusters[*d.ClusterID], d.NodeID)
		}
		return clusters, nil
	}
	if labeled > 0 {
		return nil, fmt.Errorf("deliveries: %d of %d stops have a cluster id; label all or none", labeled, len(deliveries))
	}

	stops := make([]int, 0, len(deliveries))
	for _, d := range deliveries {
		stops = append(stops, d.NodeID)
	}

	drivers := req.Drivers
	if drivers < 1 {
		drivers = 1
	}
	return AssignStopsByDistance(ctx, router, req.Plan.Depot, stops, drivers)
}

// Mean improvement across planned clusters.
type Summary struct {
	Clusters        int
	MeanDistancePct float64
	MeanTimePct     float64
	MeanCostPct     float64
}

func Summarize(plans []*domain.ClusterPlan) Summary {
	s := Summary{Clusters: len(plans)}
	if len(plans) == 0 {
		return s
	}

	for _, p := range plans {
		s.MeanDistancePct += p.Improvement.DistancePct
		s.MeanTimePct += p.Improvement.TimePct
		s.MeanCostPct += p.Improvement.CostPct
	}

	n := float64(len(plans))
	s.MeanDistancePct /= n
	s.MeanTimePct /= n
	s.MeanCostPct /= n
	return s
}

// Round to a fixed number of decimals for reporting.
func Round(v float64, decimals int) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
