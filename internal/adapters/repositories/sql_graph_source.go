package repositories

import (
	"city-route-optimizer/internal/domain"
	"city-route-optimizer/internal/graph"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQL-backed implementation of the GraphSource port.
type SQLGraphSource struct{ DB *sql.DB }

func NewSQLGraphSource(conn *sql.DB) *SQLGraphSource {
	return &SQLGraphSource{DB: conn}
}

func (s *SQLGraphSource) LoadGraph(ctx context.Context) (*graph.WeightedGraph, error) {
	if s.DB == nil {
		return nil, errors.New("sql graph source: DB is nil")
	}

	g := graph.New()

	nodeRows, err := s.DB.QueryContext(ctx, `
	SELECT
		id,
		name,
		x,
		y
	FROM nodes
	ORDER BY id;
	`)
	if err != nil {
		return nil, fmt.Errorf("load graph: query nodes table: %w", err)
	}
	defer nodeRows.Close()

	for nodeRows.Next() {
		var n domain.Node
		if err := nodeRows.Scan(&n.ID, &n.Name, &n.X, &n.Y); err != nil {
			return nil, fmt.Errorf("load graph: scan node row: %w", err)
		}
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("load graph: %w", err)
		}
	}
	if err := nodeRows.Err(); err != nil {
		return nil, fmt.Errorf("load graph: node row iteration: %w", err)
	}

	edgeRows, err := s.DB.QueryContext(ctx, `
	SELECT
		source,
		target,
		distance_km,
		speed_kmh
	FROM edges
	ORDER BY source, target;
	`)
	if err != nil {
		return nil, fmt.Errorf("load graph: query edges table: %w", err)
	}
	defer edgeRows.Close()

	for edgeRows.Next() {
		var src, dst int
		var dist, speed float64
		if err := edgeRows.Scan(&src, &dst, &dist, &speed); err != nil {
			return nil, fmt.Errorf("load graph: scan edge row: %w", err)
		}
		if err := g.AddEdge(domain.NewEdge(src, dst, dist, speed)); err != nil {
			return nil, fmt.Errorf("load graph: %w", err)
		}
	}
	if err := edgeRows.Err(); err != nil {
		return nil, fmt.Errorf("load graph: edge row iteration: %w", err)
	}

	return g, nil
}

func (s *SQLGraphSource) ListDeliveries(ctx context.Context) ([]domain.Delivery, error) {
	if s.DB == nil {
		return nil, errors.New("sql graph source: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT
		node_id,
		cluster_id
	FROM deliveries
	ORDER BY position;
	`)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: query deliveries table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Delivery, 0, 64)
	for rows.Next() {
		var nodeID int
		var cluster sql.NullInt64
		if err := rows.Scan(&nodeID, &cluster); err != nil {
			return nil, fmt.Errorf("list deliveries: scan row: %w", err)
		}

		d := domain.Delivery{NodeID: nodeID}
		if cluster.Valid {
			c := int(cluster.Int64)
			d.ClusterID = &c
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list deliveries: row iteration: %w", err)
	}

	return out, nil
}
