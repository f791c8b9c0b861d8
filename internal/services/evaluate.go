package services

import (
	"city-route-optimizer/internal/domain"
	"city-route-optimizer/internal/graph"
	"errors"
	"fmt"
	"math"
)

// Fuel economy parameters used to derive fuel volume and cost from distance.
type FuelConfig struct {
	KmPerLiter   float64
	CostPerLiter float64
}

// Typical delivery motorcycle figures, in BRL.
func DefaultFuelConfig() FuelConfig {
	return FuelConfig{KmPerLiter: 35.0, CostPerLiter: 6.50}
}

func (c FuelConfig) Validate() error {
	if !(c.KmPerLiter > 0) || math.IsInf(c.KmPerLiter, 0) {
		return fmt.Errorf("fuel config: km per liter must be positive and finite, got %v", c.KmPerLiter)
	}
	if c.CostPerLiter < 0 || math.IsNaN(c.CostPerLiter) || math.IsInf(c.CostPerLiter, 0) {
		return fmt.Errorf("fuel config: cost per liter must be non-negative and finite, got %v", c.CostPerLiter)
	}
	return nil
}

// EvaluateRoute weighs a full path under both weight keys independently and
// derives fuel volume and cost from the distance.
func EvaluateRoute(g *graph.WeightedGraph, path domain.FullPath, fuel FuelConfig) (domain.RouteMetrics, error) {
	if g == nil {
		return domain.RouteMetrics{}, errors.New("evaluate route: graph must be non-nil")
	}
	if err := fuel.Validate(); err != nil {
		return domain.RouteMetrics{}, fmt.Errorf("evaluate route: %w", err)
	}

	dist, err := g.PathWeight(path, domain.WeightDistance)
	if err != nil {
		return domain.RouteMetrics{}, fmt.Errorf("evaluate route: distance: %w", err)
	}
	timeH, err := g.PathWeight(path, domain.WeightTime)
	if err != nil {
		return domain.RouteMetrics{}, fmt.Errorf("evaluate route: time: %w", err)
	}

	fuelL := dist / fuel.KmPerLiter
	return domain.RouteMetrics{
		DistanceKm:  dist,
		TimeH:       timeH,
		FuelL:       fuelL,
		FuelCostBRL: fuelL * fuel.CostPerLiter,
	}, nil
}

// ImprovementPercent is 100 * (before - after) / before.
// It reports 0 when before is zero or when either value is not finite.
func ImprovementPercent(before, after float64) float64 {
	if before == 0 || math.IsInf(before, 0) || math.IsNaN(before) || math.IsInf(after, 0) || math.IsNaN(after) {
		return 0
	}
	return 100 * (before - after) / before
}

func CompareMetrics(before, after domain.RouteMetrics) domain.Improvement {
	return domain.Improvement{
		DistancePct: ImprovementPercent(before.DistanceKm, after.DistanceKm),
		TimePct:     ImprovementPercent(before.TimeH, after.TimeH),
		CostPct:     ImprovementPercent(before.FuelCostBRL, after.FuelCostBRL),
	}
}
