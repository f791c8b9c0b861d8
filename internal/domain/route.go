package domain

import "slices"

// Ordered waypoints of a route; the first element is the depot.
type Tour []int

// Return an owned copy so callers can mutate without aliasing.
func (t Tour) Clone() Tour { return slices.Clone(t) }

// Concrete node-by-node path realizing a Tour. Consecutive nodes always share an edge.
type FullPath []int

// Aggregate cost of a FullPath under both weight keys plus fuel figures.
// It is recomputed from the path and never reused across paths.
type RouteMetrics struct {
	DistanceKm  float64
	TimeH       float64
	FuelL       float64
	FuelCostBRL float64
}

// One side (before or after improvement) of a cluster route.
type RouteSnapshot struct {
	Tour     Tour
	Path     FullPath
	PathCost float64
	Metrics  RouteMetrics
}

// Percentage gains of the improved route, computed per metric.
type Improvement struct {
	DistancePct float64
	TimePct     float64
	CostPct     float64
}

// Represents the planned route for a single driver cluster.
// Before holds the nearest-neighbor construction; After holds the route
// after optional 2-opt improvement, both stitched with the same weight key.
type ClusterPlan struct {
	ClusterID   int
	Weight      WeightKey
	TwoOpt      bool
	Targets     []int
	Before      RouteSnapshot
	After       RouteSnapshot
	Improvement Improvement
	Sweeps      int
	Moves       int
}
