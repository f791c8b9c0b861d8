package repositories

import (
	"city-route-optimizer/internal/platform/db"
	"city-route-optimizer/internal/ports"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the database schema. Statements are portable between PostgreSQL and SQLite.
func InitSchema(ctx context.Context, conn *sql.DB, dialect db.Dialect) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createNodesQuery := `
	CREATE TABLE IF NOT EXISTS nodes (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		x DOUBLE PRECISION NOT NULL,
		y DOUBLE PRECISION NOT NULL
	);
	`

	createEdgesQuery := `
	CREATE TABLE IF NOT EXISTS edges (
		source INTEGER NOT NULL REFERENCES nodes(id),
		target INTEGER NOT NULL REFERENCES nodes(id),
		distance_km DOUBLE PRECISION NOT NULL,
		speed_kmh DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (source, target)
	);
	`

	createDeliveriesQuery := `
	CREATE TABLE IF NOT EXISTS deliveries (
		position INTEGER PRIMARY KEY,
		node_id INTEGER NOT NULL REFERENCES nodes(id),
		cluster_id INTEGER
	);
	`

	createDistanceCacheQuery := `
	CREATE TABLE IF NOT EXISTS distance_cache (
        graph_fingerprint TEXT NOT NULL,
        weight_key TEXT NOT NULL,
        from_node INTEGER NOT NULL,
        to_node INTEGER NOT NULL,
        cost DOUBLE PRECISION,
        PRIMARY KEY (graph_fingerprint, weight_key, from_node, to_node)
    );
	`

	createRoutePlansQuery := `
	CREATE TABLE IF NOT EXISTS route_plans (
		run_id TEXT NOT NULL,
		cluster_id INTEGER NOT NULL,
		graph_fingerprint TEXT NOT NULL,
		weight_key TEXT NOT NULL,
		two_opt BOOLEAN NOT NULL,
		targets TEXT NOT NULL,
		tour_before TEXT NOT NULL,
		path_before TEXT NOT NULL,
		tour_after TEXT NOT NULL,
		path_after TEXT NOT NULL,
		distance_km_before DOUBLE PRECISION,
		time_h_before DOUBLE PRECISION,
		fuel_l_before DOUBLE PRECISION,
		fuel_cost_before DOUBLE PRECISION,
		distance_km_after DOUBLE PRECISION,
		time_h_after DOUBLE PRECISION,
		fuel_l_after DOUBLE PRECISION,
		fuel_cost_after DOUBLE PRECISION,
		sweeps INTEGER NOT NULL,
		moves INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (run_id, cluster_id)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_route_plans_graph
    ON route_plans(graph_fingerprint, weight_key);
	`

	statements := []string{
		createNodesQuery,
		createEdgesQuery,
		createDeliveriesQuery,
		createDistanceCacheQuery,
		createRoutePlansQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %s: exec statement #%d: %w", dialect, i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Replace the stored graph and deliveries with the contents of src.
func SeedFromSource(ctx context.Context, conn *sql.DB, dialect db.Dialect, src ports.GraphSource) error {
	g, err := src.LoadGraph(ctx)
	if err != nil {
		return fmt.Errorf("seed graph: load graph: %w", err)
	}
	deliveries, err := src.ListDeliveries(ctx)
	if err != nil {
		return fmt.Errorf("seed graph: list deliveries: %w", err)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed graph: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"deliveries", "edges", "nodes"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("seed graph: clear %s: %w", table, err)
		}
	}

	nodeStmt, err := tx.PrepareContext(ctx,
		fmt.Sprintf(`INSERT INTO nodes (id, name, x, y) VALUES (%s);`, dialect.Placeholders(0, 4)))
	if err != nil {
		return fmt.Errorf("seed graph: prepare node insert: %w", err)
	}
	defer nodeStmt.Close()

	for _, n := range g.Nodes() {
		if _, err := nodeStmt.ExecContext(ctx, n.ID, n.Name, n.X, n.Y); err != nil {
			return fmt.Errorf("seed graph: insert node id=%d: %w", n.ID, err)
		}
	}

	edgeStmt, err := tx.PrepareContext(ctx,
		fmt.Sprintf(`INSERT INTO edges (source, target, distance_km, speed_kmh) VALUES (%s);`, dialect.Placeholders(0, 4)))
	if err != nil {
		return fmt.Errorf("seed graph: prepare edge insert: %w", err)
	}
	defer edgeStmt.Close()

	for _, e := range g.Edges() {
		if _, err := edgeStmt.ExecContext(ctx, e.Source, e.Target, e.DistanceKm, e.SpeedKmh); err != nil {
			return fmt.Errorf("seed graph: insert edge %d-%d: %w", e.Source, e.Target, err)
		}
	}

	deliveryStmt, err := tx.PrepareContext(ctx,
		fmt.Sprintf(`INSERT INTO deliveries (position, node_id, cluster_id) VALUES (%s);`, dialect.Placeholders(0, 3)))
	if err != nil {
		return fmt.Errorf("seed graph: prepare delivery insert: %w", err)
	}
	defer deliveryStmt.Close()

	for i, d := range deliveries {
		var cluster sql.NullInt64
		if d.ClusterID != nil {
			cluster = sql.NullInt64{Int64: int64(*d.ClusterID), Valid: true}
		}
		if _, err := deliveryStmt.ExecContext(ctx, i+1, d.NodeID, cluster); err != nil {
			return fmt.Errorf("seed graph: insert delivery #%d node_id=%d: %w", i+1, d.NodeID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed graph: commit tx: %w", err)
	}

	return nil
}
