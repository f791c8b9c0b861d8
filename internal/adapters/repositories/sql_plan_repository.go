package repositories

import (
	"city-route-optimizer/internal/domain"
	"city-route-optimizer/internal/platform/db"
	"city-route-optimizer/internal/ports"
	"city-route-optimizer/internal/services"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// SQL-backed implementation of the PlanRepository port.
type SQLPlanRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
	now     func() time.Time
}

func NewSQLPlanRepository(conn *sql.DB, dialect db.Dialect) *SQLPlanRepository {
	return &SQLPlanRepository{DB: conn, Dialect: dialect, now: time.Now}
}

var planColumns = []string{
	"run_id",
	"cluster_id",
	"graph_fingerprint",
	"weight_key",
	"two_opt",
	"targets",
	"tour_before",
	"path_before",
	"tour_after",
	"path_after",
	"distance_km_before",
	"time_h_before",
	"fuel_l_before",
	"fuel_cost_before",
	"distance_km_after",
	"time_h_after",
	"fuel_l_after",
	"fuel_cost_after",
	"sweeps",
	"moves",
	"created_at",
}

// Store all cluster plans of one run atomically.
func (r *SQLPlanRepository) SavePlans(ctx context.Context, run ports.PlanRun, plans []*domain.ClusterPlan) error {
	if r.DB == nil {
		return errors.New("sql plan repository: DB is nil")
	}
	if strings.TrimSpace(run.RunID) == "" {
		return errors.New("save plans: run id must not be empty")
	}
	if len(plans) == 0 {
		return nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save plans: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(
		`INSERT INTO route_plans (%s) VALUES (%s);`,
		strings.Join(planColumns, ", "),
		r.Dialect.Placeholders(0, len(planColumns)),
	)
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("save plans: prepare insert: %w", err)
	}
	defer stmt.Close()

	createdAt := r.now().UTC().Format(time.RFC3339Nano)
	for _, p := range plans {
		enc, err := encodeSequences(p)
		if err != nil {
			return fmt.Errorf("save plans: cluster %d: %w", p.ClusterID, err)
		}

		_, err = stmt.ExecContext(ctx,
			run.RunID,
			p.ClusterID,
			run.GraphFingerprint,
			string(p.Weight),
			p.TwoOpt,
			enc[0], enc[1], enc[2], enc[3], enc[4],
			finite(p.Before.Metrics.DistanceKm),
			finite(p.Before.Metrics.TimeH),
			finite(p.Before.Metrics.FuelL),
			finite(p.Before.Metrics.FuelCostBRL),
			finite(p.After.Metrics.DistanceKm),
			finite(p.After.Metrics.TimeH),
			finite(p.After.Metrics.FuelL),
			finite(p.After.Metrics.FuelCostBRL),
			p.Sweeps,
			p.Moves,
			createdAt,
		)
		if err != nil {
			return fmt.Errorf("save plans: insert run_id=%s cluster_id=%d: %w", run.RunID, p.ClusterID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save plans: commit tx: %w", err)
	}
	return nil
}

// Return the plans stored for runID ordered by cluster id.
func (r *SQLPlanRepository) ListPlans(ctx context.Context, runID string) ([]*domain.ClusterPlan, error) {
	if r.DB == nil {
		return nil, errors.New("sql plan repository: DB is nil")
	}

	query := fmt.Sprintf(`
	SELECT
		cluster_id,
		weight_key,
		two_opt,
		targets,
		tour_before,
		path_before,
		tour_after,
		path_after,
		distance_km_before,
		time_h_before,
		fuel_l_before,
		fuel_cost_before,
		distance_km_after,
		time_h_after,
		fuel_l_after,
		fuel_cost_after,
		sweeps,
		moves
	FROM route_plans
	WHERE run_id = %s
	ORDER BY cluster_id;
	`, r.Dialect.Placeholder(1))

	rows, err := r.DB.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("list plans: query route_plans table: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.ClusterPlan, 0, 8)
	for rows.Next() {
		var (
			p       domain.ClusterPlan
			weight  string
			seqs    [5]string
			metrics [8]sql.NullFloat64
		)
		err := rows.Scan(
			&p.ClusterID, &weight, &p.TwoOpt,
			&seqs[0], &seqs[1], &seqs[2], &seqs[3], &seqs[4],
			&metrics[0], &metrics[1], &metrics[2], &metrics[3],
			&metrics[4], &metrics[5], &metrics[6], &metrics[7],
			&p.Sweeps, &p.Moves,
		)
		if err != nil {
			return nil, fmt.Errorf("list plans: scan row: %w", err)
		}

		p.Weight = domain.WeightKey(weight)
		if err := decodeSequences(&p, seqs); err != nil {
			return nil, fmt.Errorf("list plans: cluster %d: %w", p.ClusterID, err)
		}

		p.Before.Metrics = domain.RouteMetrics{
			DistanceKm:  orInf(metrics[0]),
			TimeH:       orInf(metrics[1]),
			FuelL:       orInf(metrics[2]),
			FuelCostBRL: orInf(metrics[3]),
		}
		p.After.Metrics = domain.RouteMetrics{
			DistanceKm:  orInf(metrics[4]),
			TimeH:       orInf(metrics[5]),
			FuelL:       orInf(metrics[6]),
			FuelCostBRL: orInf(metrics[7]),
		}
		p.Before.PathCost = pathCost(p.Weight, p.Before.Metrics)
		p.After.PathCost = pathCost(p.Weight, p.After.Metrics)
		p.Improvement = services.CompareMetrics(p.Before.Metrics, p.After.Metrics)
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list plans: row iteration: %w", err)
	}

	return out, nil
}

func encodeSequences(p *domain.ClusterPlan) ([5]string, error) {
	var out [5]string
	for i, seq := range [][]int{p.Targets, p.Before.Tour, p.Before.Path, p.After.Tour, p.After.Path} {
		if seq == nil {
			seq = []int{}
		}
		b, err := json.Marshal(seq)
		if err != nil {
			return out, fmt.Errorf("encode sequence #%d: %w", i+1, err)
		}
		out[i] = string(b)
	}
	return out, nil
}

func decodeSequences(p *domain.ClusterPlan, seqs [5]string) error {
	targets := []int{}
	dst := []any{&targets, &p.Before.Tour, &p.Before.Path, &p.After.Tour, &p.After.Path}
	for i, s := range seqs {
		if err := json.Unmarshal([]byte(s), dst[i]); err != nil {
			return fmt.Errorf("decode sequence #%d: %w", i+1, err)
		}
	}
	p.Targets = targets
	return nil
}

// NULL marks +Inf so both dialects store impassable routes.
func finite(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: !math.IsInf(v, 0) && !math.IsNaN(v)}
}

func orInf(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.Inf(1)
	}
	return v.Float64
}

// The stitched path cost equals the metric of the plan's weight key.
func pathCost(key domain.WeightKey, m domain.RouteMetrics) float64 {
	if key == domain.WeightTime {
		return m.TimeH
	}
	return m.DistanceKm
}
