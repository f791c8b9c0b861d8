// Package app wires concrete adapters behind ports from a Config. It is the
// composition root shared by the planner CLI and the HTTP service.
package app

import (
	"city-route-optimizer/internal/adapters/cache"
	"city-route-optimizer/internal/adapters/repositories"
	"city-route-optimizer/internal/config"
	"city-route-optimizer/internal/domain"
	"city-route-optimizer/internal/platform/db"
	"city-route-optimizer/internal/ports"
	"city-route-optimizer/internal/services"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis cache entries outlive a single run but are refreshed daily.
const redisCacheTTL = 24 * time.Hour

type Deps struct {
	Config config.Config
	Source ports.GraphSource
	Cache  ports.DistanceCache
	// Plans is nil without a database.
	Plans ports.PlanRepository

	closers []func() error
}

// Wire builds the graph source, distance cache and plan repository for c.
//
// With DATABASE_URL the graph is read from SQL, plans are persisted and pair
// costs are cached in SQL. REDIS_ADDR takes precedence for the cache.
// Otherwise the graph comes from the CSV files and costs are cached in memory.
func Wire(ctx context.Context, c config.Config) (*Deps, error) {
	d := &Deps{Config: c}

	var conn *sql.DB
	if c.UseDatabase() {
		var err error
		conn, err = db.Open(c.DatabaseDriver, c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("wire: %w", err)
		}
		d.closers = append(d.closers, conn.Close)

		if err := repositories.InitSchema(ctx, conn, c.DatabaseDriver); err != nil {
			_ = d.Close()
			return nil, fmt.Errorf("wire: %w", err)
		}
		d.Source = repositories.NewSQLGraphSource(conn)
		d.Plans = repositories.NewSQLPlanRepository(conn, c.DatabaseDriver)
		d.Cache = cache.NewSQLDistanceCache(conn, c.DatabaseDriver)
		log.Printf("graph source=sql driver=%s", c.DatabaseDriver)
	} else {
		d.Source = repositories.NewCSVGraphSource(c.NodesPath, c.EdgesPath, c.DeliveriesPath)
		d.Cache = cache.NewMemoryDistanceCache()
		log.Printf("graph source=csv nodes=%s edges=%s deliveries=%s", c.NodesPath, c.EdgesPath, c.DeliveriesPath)
	}

	if c.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			_ = d.Close()
			return nil, fmt.Errorf("wire: ping redis %q: %w", c.RedisAddr, err)
		}
		d.closers = append(d.closers, client.Close)
		d.Cache = cache.NewRedisDistanceCache(client, redisCacheTTL)
		log.Printf("distance cache=redis addr=%s", c.RedisAddr)
	}

	return d, nil
}

// Close releases every connection opened by Wire in reverse order.
func (d *Deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i]())
	}
	d.closers = nil
	return errors.Join(errs...)
}

// PlanRequest maps the configuration onto a planning request. An empty
// weight falls back to WEIGHT_KEY; unknown keys are rejected by the planner.
func (d *Deps) PlanRequest(weight string, drivers int, twoOpt, skipFailed bool) services.PlanClustersRequest {
	c := d.Config
	plan := services.PlanOptions{
		Depot:  c.Depot,
		TwoOpt: twoOpt,
		TwoOptOptions: services.TwoOptOptions{
			MaxSweeps:  c.TwoOptMaxSweeps,
			TimeBudget: c.TwoOptTimeBudget,
			Epsilon:    services.DefaultTwoOptEpsilon,
		},
		Fuel: services.FuelConfig{KmPerLiter: c.FuelKmPerLiter, CostPerLiter: c.CostPerLiter},
	}

	key := c.Weight
	if weight != "" {
		key = domain.WeightKey(weight)
	}

	return services.PlanClustersRequest{
		Weight:       key,
		Drivers:      drivers,
		Plan:         plan,
		UseHeuristic: false,
		Workers:      c.Workers,
		SkipFailed:   skipFailed,
	}
}
