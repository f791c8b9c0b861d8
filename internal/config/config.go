package config

import (
	"city-route-optimizer/internal/domain"
	"city-route-optimizer/internal/platform/db"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Get returns the environment value for key or fallback when it is unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q: not an integer", key, v)
	}
	return n, nil
}

func GetFloat(key string, fallback float64) (float64, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q: not a number", key, v)
	}
	return f, nil
}

func GetBool(key string, fallback bool) (bool, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s=%q: not a boolean", key, v)
	}
	return b, nil
}

func GetDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q: not a duration", key, v)
	}
	return d, nil
}

// Config is the runtime configuration shared by the planner CLI, the HTTP
// service and dbtool.
type Config struct {
	NodesPath      string
	EdgesPath      string
	DeliveriesPath string

	// DatabaseURL switches the graph source and plan storage to SQL when set.
	DatabaseDriver db.Dialect
	DatabaseURL    string
	RedisAddr      string
	Port           string

	Depot  int
	Weight domain.WeightKey

	FuelKmPerLiter float64
	CostPerLiter   float64

	TwoOptMaxSweeps  int
	TwoOptTimeBudget time.Duration
	Workers          int
}

func (c Config) UseDatabase() bool { return c.DatabaseURL != "" }

// Load reads and validates the configuration from the environment.
func Load() (Config, error) {
	c := Config{
		NodesPath:      Get("GRAPH_NODES_PATH", "data/nodes.csv"),
		EdgesPath:      Get("GRAPH_EDGES_PATH", "data/edges.csv"),
		DeliveriesPath: Get("DELIVERIES_PATH", "data/deliveries.csv"),
		DatabaseURL:    Get("DATABASE_URL", ""),
		RedisAddr:      Get("REDIS_ADDR", ""),
		Port:           Get("PORT", "8080"),
	}

	var err error
	var errs []error
	collect := func(e error) {
		if e != nil {
			errs = append(errs, e)
		}
	}

	c.DatabaseDriver, err = db.ParseDialect(Get("DATABASE_DRIVER", string(db.SQLite)))
	collect(err)
	c.Weight, err = domain.ParseWeightKey(Get("WEIGHT_KEY", string(domain.WeightTime)))
	collect(err)

	c.Depot, err = GetInt("DEPOT_ID", 0)
	collect(err)
	c.FuelKmPerLiter, err = GetFloat("FUEL_KM_PER_LITER", 35.0)
	collect(err)
	c.CostPerLiter, err = GetFloat("COST_PER_LITER", 6.50)
	collect(err)
	c.TwoOptMaxSweeps, err = GetInt("TWO_OPT_MAX_SWEEPS", 1000)
	collect(err)
	c.TwoOptTimeBudget, err = GetDuration("TWO_OPT_TIME_BUDGET", 0)
	collect(err)
	c.Workers, err = GetInt("PLANNER_WORKERS", 4)
	collect(err)

	if len(errs) == 0 {
		collect(c.Validate())
	}
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return c, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.FuelKmPerLiter <= 0 {
		errs = append(errs, fmt.Errorf("config: FUEL_KM_PER_LITER must be > 0, got %v", c.FuelKmPerLiter))
	}
	if c.CostPerLiter < 0 {
		errs = append(errs, fmt.Errorf("config: COST_PER_LITER must be >= 0, got %v", c.CostPerLiter))
	}
	if c.TwoOptMaxSweeps < 0 {
		errs = append(errs, fmt.Errorf("config: TWO_OPT_MAX_SWEEPS must be >= 0, got %d", c.TwoOptMaxSweeps))
	}
	if c.TwoOptTimeBudget < 0 {
		errs = append(errs, fmt.Errorf("config: TWO_OPT_TIME_BUDGET must be >= 0, got %s", c.TwoOptTimeBudget))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("config: PLANNER_WORKERS must be >= 1, got %d", c.Workers))
	}
	if err := c.Weight.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("config: WEIGHT_KEY: %w", err))
	}
	if !c.UseDatabase() && (c.NodesPath == "" || c.EdgesPath == "" || c.DeliveriesPath == "") {
		errs = append(errs, errors.New("config: graph CSV paths are required without DATABASE_URL"))
	}
	return errors.Join(errs...)
}
