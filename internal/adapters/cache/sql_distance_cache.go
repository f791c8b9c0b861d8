package cache

import (
	"city-route-optimizer/internal/platform/db"
	"city-route-optimizer/internal/ports"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
)

// SQLDistanceCache is a persistent SQL-backed cache of pairwise costs.
// A NULL cost stores +Inf so both dialects round-trip impassable pairs.
type SQLDistanceCache struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLDistanceCache(conn *sql.DB, dialect db.Dialect) *SQLDistanceCache {
	return &SQLDistanceCache{DB: conn, Dialect: dialect}
}

func (s *SQLDistanceCache) Get(ctx context.Context, key ports.DistanceKey) (float64, bool, error) {
	if s.DB == nil {
		return 0, false, errors.New("distance cache: db is nil")
	}

	q := fmt.Sprintf(`
	SELECT cost
    FROM distance_cache
    WHERE graph_fingerprint = %s
        AND weight_key = %s
        AND from_node = %s
        AND to_node = %s;
	`, s.Dialect.Placeholder(1), s.Dialect.Placeholder(2), s.Dialect.Placeholder(3), s.Dialect.Placeholder(4))

	var cost sql.NullFloat64
	err := s.DB.QueryRowContext(ctx, q, key.Graph, string(key.Weight), key.From, key.To).Scan(&cost)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get distance cache: query distance_cache table: %w", err)
	}

	if !cost.Valid {
		return math.Inf(1), true, nil
	}
	return cost.Float64, true, nil
}

func (s *SQLDistanceCache) Put(ctx context.Context, key ports.DistanceKey, cost float64) error {
	if s.DB == nil {
		return errors.New("distance cache: db is nil")
	}
	if key.Graph == "" {
		return errors.New("insert distance cache: graph fingerprint must not be empty")
	}

	var upsert string
	if s.Dialect == db.Postgres {
		upsert = `
	INSERT INTO distance_cache (graph_fingerprint, weight_key, from_node, to_node, cost)
    VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (graph_fingerprint, weight_key, from_node, to_node) DO UPDATE
	SET cost = EXCLUDED.cost;
	`
	} else {
		upsert = `
	INSERT OR REPLACE INTO distance_cache (
        graph_fingerprint,
        weight_key,
        from_node,
        to_node,
        cost
    )
    VALUES (?, ?, ?, ?, ?);
	`
	}

	stored := sql.NullFloat64{Float64: cost, Valid: !math.IsInf(cost, 1)}
	if _, err := s.DB.ExecContext(ctx, upsert, key.Graph, string(key.Weight), key.From, key.To, stored); err != nil {
		return fmt.Errorf("insert distance cache %d -> %d: %w", key.From, key.To, err)
	}
	return nil
}
