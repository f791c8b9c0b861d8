package dto

type PlanRequest struct {
	Weight     string `json:"weight"`
	Drivers    int    `json:"drivers"`
	TwoOpt     *bool  `json:"two_opt"`
	SkipFailed bool   `json:"skip_failed"`
	Persist    bool   `json:"persist"`
}

// Metric values are null when the route is impassable under that metric.
type MetricsResponse struct {
	DistanceKm  *float64 `json:"distance_km"`
	TimeH       *float64 `json:"time_h"`
	FuelL       *float64 `json:"fuel_l"`
	FuelCostBRL *float64 `json:"fuel_cost_brl"`
}

type RouteResponse struct {
	Tour     []int           `json:"tour"`
	Path     []int           `json:"path"`
	PathCost *float64        `json:"path_cost"`
	Metrics  MetricsResponse `json:"metrics"`
}

type ImprovementResponse struct {
	DistancePct float64 `json:"distance_pct"`
	TimePct     float64 `json:"time_pct"`
	CostPct     float64 `json:"cost_pct"`
}

type ClusterPlanResponse struct {
	ClusterID   int                 `json:"cluster_id"`
	Targets     []int               `json:"targets"`
	Before      RouteResponse       `json:"before"`
	After       RouteResponse       `json:"after"`
	Improvement ImprovementResponse `json:"improvement"`
	Sweeps      int                 `json:"sweeps"`
	Moves       int                 `json:"moves"`
}

type SummaryResponse struct {
	Clusters        int     `json:"clusters"`
	MeanDistancePct float64 `json:"mean_distance_pct"`
	MeanTimePct     float64 `json:"mean_time_pct"`
	MeanCostPct     float64 `json:"mean_cost_pct"`
}

type ListPlanResponse struct {
	RunID            string                `json:"run_id"`
	GraphFingerprint string                `json:"graph_fingerprint"`
	Weight           string                `json:"weight"`
	TwoOpt           bool                  `json:"two_opt"`
	Persisted        bool                  `json:"persisted"`
	Plans            []ClusterPlanResponse `json:"plans"`
	Summary          SummaryResponse       `json:"summary"`
}
