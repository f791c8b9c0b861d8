package ports

import (
	"city-route-optimizer/internal/domain"
	"context"
)

// Metadata shared by every plan produced in one planning invocation.
type PlanRun struct {
	RunID            string
	GraphFingerprint string
}

// Port: persistence for planned cluster routes.
type PlanRepository interface {
	SavePlans(ctx context.Context, run PlanRun, plans []*domain.ClusterPlan) error
	ListPlans(ctx context.Context, runID string) ([]*domain.ClusterPlan, error)
}
