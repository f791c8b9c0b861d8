package repositories

import (
	"city-route-optimizer/internal/domain"
	"city-route-optimizer/internal/platform/db"
	"city-route-optimizer/internal/ports"
	"context"
	"database/sql"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func csvFixture(t *testing.T, deliveries string) *CSVGraphSource {
	t.Helper()
	dir := t.TempDir()
	return NewCSVGraphSource(
		writeFile(t, dir, "nodes.csv", "\ufeffid,name,x,y\n0,Centro,0,0\n1,A,1,0\n2.0,B,1,1\n3,C,0,1\n"),
		writeFile(t, dir, "edges.csv", "source,target,distance_km,speed_kmh\n0,1,1,10\n1,2,1,20\n2,3,1,0\n3,0,1.5,30\n"),
		writeFile(t, dir, "deliveries.csv", deliveries),
	)
}

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(db.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, InitSchema(context.Background(), conn, db.SQLite))
	return conn
}

func TestCSVGraphSource_LoadGraph(t *testing.T) {
	src := csvFixture(t, "node_id\n2\n")

	g, err := src.LoadGraph(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, g.NodeCount())
	assert.Equal(t, 4, g.EdgeCount())

	n, err := g.Node(2)
	require.NoError(t, err)
	assert.Equal(t, "B", n.Name)

	e, ok := g.Edge(2, 1)
	require.True(t, ok)
	assert.InDelta(t, 0.05, e.TimeH, 1e-12)

	e, ok = g.Edge(3, 2)
	require.True(t, ok)
	assert.True(t, math.IsInf(e.TimeH, 1), "zero speed makes the block impassable by time")
}

func TestCSVGraphSource_ListDeliveries(t *testing.T) {
	src := csvFixture(t, "node_id,cluster\n3,1\n1,0\n2,\n")

	got, err := src.ListDeliveries(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, 3, got[0].NodeID)
	require.NotNil(t, got[0].ClusterID)
	assert.Equal(t, 1, *got[0].ClusterID)
	assert.Equal(t, 1, got[1].NodeID)
	require.NotNil(t, got[1].ClusterID)
	assert.Equal(t, 0, *got[1].ClusterID)
	assert.Nil(t, got[2].ClusterID)
}

func TestCSVGraphSource_Errors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	missing := NewCSVGraphSource(filepath.Join(dir, "nope.csv"), "", "")
	_, err := missing.LoadGraph(ctx)
	require.Error(t, err)

	noColumn := NewCSVGraphSource(writeFile(t, dir, "n.csv", "id,x\n0,0\n"), "", "")
	_, err = noColumn.LoadGraph(ctx)
	require.ErrorContains(t, err, `missing column "y"`)

	badEdge := NewCSVGraphSource(
		writeFile(t, dir, "n2.csv", "id,x,y\n0,0,0\n"),
		writeFile(t, dir, "e2.csv", "source,target,distance_km,speed_kmh\n0,9,1,10\n"),
		"",
	)
	_, err = badEdge.LoadGraph(ctx)
	require.ErrorIs(t, err, domain.ErrUnknownNode)

	infSpeed := NewCSVGraphSource(
		writeFile(t, dir, "n3.csv", "id,x,y\n0,0,0\n1,1,0\n"),
		writeFile(t, dir, "e3.csv", "source,target,distance_km,speed_kmh\n0,1,1,inf\n"),
		"",
	)
	_, err = infSpeed.LoadGraph(ctx)
	require.ErrorIs(t, err, domain.ErrInvalidGraph)
	require.ErrorContains(t, err, "e3.csv line 2")

	badID := NewCSVGraphSource("", "", writeFile(t, dir, "d.csv", "node_id\nabc\n"))
	_, err = badID.ListDeliveries(ctx)
	require.ErrorContains(t, err, "line 2")
}

func TestSeedFromSource_RoundTrip(t *testing.T) {
	ctx := context.Background()
	conn := openSQLite(t)
	src := csvFixture(t, "node_id,cluster\n3,1\n1,0\n2,\n")

	require.NoError(t, SeedFromSource(ctx, conn, db.SQLite, src))
	// seeding twice replaces rows instead of duplicating them
	require.NoError(t, SeedFromSource(ctx, conn, db.SQLite, src))

	want, err := src.LoadGraph(ctx)
	require.NoError(t, err)

	sqlSrc := NewSQLGraphSource(conn)
	got, err := sqlSrc.LoadGraph(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.Fingerprint(), got.Fingerprint())
	assert.Equal(t, want.Nodes(), got.Nodes())

	wantDeliveries, err := src.ListDeliveries(ctx)
	require.NoError(t, err)
	gotDeliveries, err := sqlSrc.ListDeliveries(ctx)
	require.NoError(t, err)
	assert.Equal(t, wantDeliveries, gotDeliveries)
}

func samplePlan(clusterID int) *domain.ClusterPlan {
	return &domain.ClusterPlan{
		ClusterID: clusterID,
		Weight:    domain.WeightDistance,
		TwoOpt:    true,
		Targets:   []int{2, 1, 3},
		Before: domain.RouteSnapshot{
			Tour:     domain.Tour{0, 2, 1, 3},
			Path:     domain.FullPath{0, 1, 2, 1, 2, 3},
			PathCost: 5,
			Metrics:  domain.RouteMetrics{DistanceKm: 5, TimeH: math.Inf(1), FuelL: 5.0 / 35, FuelCostBRL: 6.5 * 5 / 35},
		},
		After: domain.RouteSnapshot{
			Tour:     domain.Tour{0, 1, 2, 3},
			Path:     domain.FullPath{0, 1, 2, 3},
			PathCost: 3,
			Metrics:  domain.RouteMetrics{DistanceKm: 3, TimeH: 0.25, FuelL: 3.0 / 35, FuelCostBRL: 6.5 * 3 / 35},
		},
		Sweeps: 2,
		Moves:  1,
	}
}

func TestSQLPlanRepository_SaveAndList(t *testing.T) {
	ctx := context.Background()
	conn := openSQLite(t)

	repo := NewSQLPlanRepository(conn, db.SQLite)
	repo.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	run := ports.PlanRun{RunID: "run-1", GraphFingerprint: "fp"}
	require.NoError(t, repo.SavePlans(ctx, run, []*domain.ClusterPlan{samplePlan(1), samplePlan(0)}))

	got, err := repo.ListPlans(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].ClusterID)
	assert.Equal(t, 1, got[1].ClusterID)

	p := got[0]
	assert.Equal(t, domain.WeightDistance, p.Weight)
	assert.True(t, p.TwoOpt)
	assert.Equal(t, []int{2, 1, 3}, p.Targets)
	assert.Equal(t, domain.Tour{0, 1, 2, 3}, p.After.Tour)
	assert.Equal(t, domain.FullPath{0, 1, 2, 1, 2, 3}, p.Before.Path)
	assert.Equal(t, 5.0, p.Before.PathCost)
	assert.Equal(t, 3.0, p.After.PathCost)
	assert.True(t, math.IsInf(p.Before.Metrics.TimeH, 1), "NULL reads back as +Inf")
	assert.InDelta(t, 40.0, p.Improvement.DistancePct, 1e-9)
	assert.Equal(t, 0.0, p.Improvement.TimePct)
	assert.Equal(t, 2, p.Sweeps)
	assert.Equal(t, 1, p.Moves)

	var createdAt string
	require.NoError(t, conn.QueryRowContext(ctx, `SELECT created_at FROM route_plans LIMIT 1`).Scan(&createdAt))
	assert.Equal(t, "2026-01-02T03:04:05Z", createdAt)

	empty, err := repo.ListPlans(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSQLPlanRepository_DuplicateRunIsRejected(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLPlanRepository(openSQLite(t), db.SQLite)
	run := ports.PlanRun{RunID: "run-1", GraphFingerprint: "fp"}

	require.NoError(t, repo.SavePlans(ctx, run, []*domain.ClusterPlan{samplePlan(0)}))
	require.Error(t, repo.SavePlans(ctx, run, []*domain.ClusterPlan{samplePlan(0)}))

	require.Error(t, repo.SavePlans(ctx, ports.PlanRun{}, []*domain.ClusterPlan{samplePlan(0)}))
	require.NoError(t, repo.SavePlans(ctx, ports.PlanRun{RunID: "run-2"}, nil))
}
