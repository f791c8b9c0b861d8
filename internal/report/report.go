// Package report renders before/after route comparisons as text tables and CSV files.
package report

import (
	"city-route-optimizer/internal/domain"
	"city-route-optimizer/internal/services"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"
)

var comparisonHeader = []string{
	"cluster", "weight",
	"km_before", "km_after",
	"time_h_before", "time_h_after",
	"fuel_brl_before", "fuel_brl_after",
	"improv_km_%", "improv_time_%", "improv_cost_%",
}

func comparisonRow(p *domain.ClusterPlan) []string {
	b, a := p.Before.Metrics, p.After.Metrics
	return []string{
		strconv.Itoa(p.ClusterID),
		string(p.Weight),
		num(b.DistanceKm, 3), num(a.DistanceKm, 3),
		num(b.TimeH, 4), num(a.TimeH, 4),
		num(b.FuelCostBRL, 2), num(a.FuelCostBRL, 2),
		num(p.Improvement.DistancePct, 2),
		num(p.Improvement.TimePct, 2),
		num(p.Improvement.CostPct, 2),
	}
}

func num(v float64, decimals int) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return strconv.FormatFloat(services.Round(v, decimals), 'f', -1, 64)
}

// WriteComparison prints one aligned row per cluster followed by the mean gains.
func WriteComparison(w io.Writer, plans []*domain.ClusterPlan) error {
	if len(plans) == 0 {
		_, err := fmt.Fprintln(w, "no clusters were planned")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(comparisonHeader, "\t")+"\t")
	for _, p := range plans {
		fmt.Fprintln(tw, strings.Join(comparisonRow(p), "\t")+"\t")
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := services.Summarize(plans)
	_, err := fmt.Fprintf(w,
		"\nmean gain (time): %.2f%%\nmean gain (km): %.2f%%\nmean gain (cost): %.2f%%\n",
		s.MeanTimePct, s.MeanDistancePct, s.MeanCostPct,
	)
	return err
}

// WriteComparisonCSV writes the per-cluster comparison as CSV.
func WriteComparisonCSV(w io.Writer, plans []*domain.ClusterPlan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(comparisonHeader); err != nil {
		return err
	}
	for _, p := range plans {
		if err := cw.Write(comparisonRow(p)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRoutesCSV writes the improved waypoint order and metrics of every cluster.
func WriteRoutesCSV(w io.Writer, plans []*domain.ClusterPlan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"cluster", "sequence", "distance_km", "time_h", "fuel_l", "fuel_cost_brl"}); err != nil {
		return err
	}
	for _, p := range plans {
		seq := make([]string, 0, len(p.After.Tour))
		for _, id := range p.After.Tour {
			seq = append(seq, strconv.Itoa(id))
		}
		m := p.After.Metrics
		err := cw.Write([]string{
			strconv.Itoa(p.ClusterID),
			strings.Join(seq, " "),
			num(m.DistanceKm, 3), num(m.TimeH, 4), num(m.FuelL, 3), num(m.FuelCostBRL, 2),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
