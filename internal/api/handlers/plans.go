package handlers

import (
	"city-route-optimizer/internal/api/dto"
	"city-route-optimizer/internal/domain"
	"city-route-optimizer/internal/ports"
	"city-route-optimizer/internal/services"
	"errors"
	"log"
	"math"
	"net/http"
	"strings"
)

const maxDrivers = 50

// RequestBuilder maps request knobs onto a planning request using server defaults.
type RequestBuilder func(weight string, drivers int, twoOpt, skipFailed bool) services.PlanClustersRequest

type PlanHandler struct {
	Source         ports.GraphSource
	Cache          ports.DistanceCache
	Repo           ports.PlanRepository
	BuildRequest   RequestBuilder
	DefaultDrivers int
}

// Plan builds before and after routes for every driver cluster.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodPost) {
		return
	}

	var req dto.PlanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		msg := "invalid json body"
		if errors.Is(err, errTrailingData) {
			msg = err.Error()
		}
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	weight := strings.TrimSpace(req.Weight)
	if weight != "" {
		if _, err := domain.ParseWeightKey(weight); err != nil {
			writeError(w, r, http.StatusBadRequest, "weight must be distance_km or time_h")
			return
		}
	}

	drivers := req.Drivers
	if drivers == 0 {
		drivers = h.DefaultDrivers
	}
	if drivers < 1 || drivers > maxDrivers {
		writeError(w, r, http.StatusBadRequest, "drivers must be between 1 and 50")
		return
	}

	twoOpt := true
	if req.TwoOpt != nil {
		twoOpt = *req.TwoOpt
	}

	svcReq := services.PlanDeliveriesRequest{
		Clusters: h.BuildRequest(weight, drivers, twoOpt, req.SkipFailed),
		Persist:  req.Persist,
	}

	result, err := services.PlanDeliveries(r.Context(), svcReq, h.Source, h.Cache, h.Repo)
	if err != nil {
		status, msg := planErrorStatus(err)
		log.Printf("plan deliveries failed: status=%d err=%v", status, err)
		writeError(w, r, status, msg)
		return
	}

	res := dto.ListPlanResponse{
		RunID:            result.RunID,
		GraphFingerprint: result.GraphFingerprint,
		Weight:           string(svcReq.Clusters.Weight),
		TwoOpt:           twoOpt,
		Persisted:        result.Persisted,
		Plans:            make([]dto.ClusterPlanResponse, 0, len(result.Plans)),
		Summary: dto.SummaryResponse{
			Clusters:        result.Summary.Clusters,
			MeanDistancePct: services.Round(result.Summary.MeanDistancePct, 2),
			MeanTimePct:     services.Round(result.Summary.MeanTimePct, 2),
			MeanCostPct:     services.Round(result.Summary.MeanCostPct, 2),
		},
	}
	for _, p := range result.Plans {
		res.Plans = append(res.Plans, dto.ClusterPlanResponse{
			ClusterID: p.ClusterID,
			Targets:   p.Targets,
			Before:    routeResponse(p.Before),
			After:     routeResponse(p.After),
			Improvement: dto.ImprovementResponse{
				DistancePct: services.Round(p.Improvement.DistancePct, 2),
				TimePct:     services.Round(p.Improvement.TimePct, 2),
				CostPct:     services.Round(p.Improvement.CostPct, 2),
			},
			Sweeps: p.Sweeps,
			Moves:  p.Moves,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func planErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidWeightKey):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrPersistenceDisabled):
		return http.StatusConflict, "persistence requires DATABASE_URL"
	case errors.Is(err, domain.ErrUnknownNode),
		errors.Is(err, domain.ErrNoPathFound),
		errors.Is(err, domain.ErrInvalidGraph):
		return http.StatusUnprocessableEntity, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func routeResponse(s domain.RouteSnapshot) dto.RouteResponse {
	return dto.RouteResponse{
		Tour:     s.Tour,
		Path:     s.Path,
		PathCost: finite(s.PathCost, 4),
		Metrics: dto.MetricsResponse{
			DistanceKm:  finite(s.Metrics.DistanceKm, 3),
			TimeH:       finite(s.Metrics.TimeH, 4),
			FuelL:       finite(s.Metrics.FuelL, 3),
			FuelCostBRL: finite(s.Metrics.FuelCostBRL, 2),
		},
	}
}

// finite rounds v for display; JSON has no Inf so impassable values become null.
func finite(v float64, decimals int) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	r := services.Round(v, decimals)
	return &r
}
