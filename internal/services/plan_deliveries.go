package services

import (
	"city-route-optimizer/internal/domain"
	"city-route-optimizer/internal/platform/obs"
	"city-route-optimizer/internal/ports"
	"context"
	"errors"
	"fmt"
	"log"
)

// ErrPersistenceDisabled is returned when a run asks to persist plans but no repository is wired.
var ErrPersistenceDisabled = errors.New("plan persistence is not configured")

type PlanDeliveriesRequest struct {
	Clusters PlanClustersRequest
	Persist  bool
	// RunID defaults to the request id on ctx, then to a fresh id.
	RunID string
}

type PlanDeliveriesResult struct {
	RunID            string
	GraphFingerprint string
	Plans            []*domain.ClusterPlan
	Summary          Summary
	Persisted        bool
}

// PlanDeliveries loads the graph and deliveries from src, plans every cluster
// and optionally stores the plans in repo.
func PlanDeliveries(
	ctx context.Context,
	req PlanDeliveriesRequest,
	src ports.GraphSource,
	cache ports.DistanceCache,
	repo ports.PlanRepository,
) (_ *PlanDeliveriesResult, err error) {
	defer obs.Time(ctx, "planner.PlanDeliveries")(&err)

	if src == nil {
		return nil, errors.New("plan deliveries: graph source must be non-nil")
	}
	if req.Persist && repo == nil {
		return nil, fmt.Errorf("plan deliveries: %w", ErrPersistenceDisabled)
	}

	g, err := src.LoadGraph(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}
	deliveries, err := src.ListDeliveries(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	plans, err := PlanClusters(ctx, g, deliveries, req.Clusters, cache)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	runID := req.RunID
	if runID == "" {
		runID = obs.RequestID(ctx)
	}
	if runID == "" {
		runID = obs.NewRequestID()
	}

	res := &PlanDeliveriesResult{
		RunID:            runID,
		GraphFingerprint: g.Fingerprint(),
		Plans:            plans,
		Summary:          Summarize(plans),
	}

	if req.Persist {
		run := ports.PlanRun{RunID: res.RunID, GraphFingerprint: res.GraphFingerprint}
		if err := repo.SavePlans(ctx, run, plans); err != nil {
			return nil, fmt.Errorf("plan deliveries: %w", err)
		}
		res.Persisted = true
		log.Printf("persisted run_id=%s clusters=%d", res.RunID, len(plans))
	}

	return res, nil
}
