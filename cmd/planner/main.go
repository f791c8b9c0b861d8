package main

import (
	"city-route-optimizer/internal/app"
	"city-route-optimizer/internal/config"
	"city-route-optimizer/internal/platform/obs"
	"city-route-optimizer/internal/report"
	"city-route-optimizer/internal/services"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/joho/godotenv"
)

// main runs the batch pipeline: cluster deliveries, build nearest-neighbor
// routes, optionally improve them with 2-opt and print the comparison.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()

	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Printf("planner: %v", err)
		os.Exit(1)
	}
}

// run returns instead of exiting so deferred closes always execute.
func run(ctx context.Context, args []string, stdout io.Writer) (err error) {
	fs := flag.NewFlagSet("planner", flag.ContinueOnError)
	drivers := fs.Int("drivers", 2, "number of drivers (clusters)")
	base := fs.String("base", ".", "project root; relative CSV paths and outputs/ resolve against it")
	weight := fs.String("weight", "", "optimization weight: distance_km or time_h (default WEIGHT_KEY)")
	noTwoOpt := fs.Bool("no-2opt", false, "disable the 2-opt improvement step")
	skipFailed := fs.Bool("skip-failed", false, "log and skip clusters that cannot be routed")
	persist := fs.Bool("persist", false, "store plans in the database (requires DATABASE_URL)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *drivers < 1 {
		return fmt.Errorf("-drivers must be at least 1, got %d", *drivers)
	}

	if err := godotenv.Load(filepath.Join(*base, ".env")); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.NodesPath = resolve(*base, cfg.NodesPath)
	cfg.EdgesPath = resolve(*base, cfg.EdgesPath)
	cfg.DeliveriesPath = resolve(*base, cfg.DeliveriesPath)

	ctx = obs.WithRequestID(ctx, obs.NewRequestID())

	deps, err := app.Wire(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := deps.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	req := services.PlanDeliveriesRequest{
		Clusters: deps.PlanRequest(*weight, *drivers, !*noTwoOpt, *skipFailed),
		Persist:  *persist,
	}

	twoOpt := "ON"
	if *noTwoOpt {
		twoOpt = "OFF"
	}
	fmt.Fprintf(stdout, "\n=== weight=%s 2-opt=%s drivers=%d ===\n\n", req.Clusters.Weight, twoOpt, *drivers)

	res, err := services.PlanDeliveries(ctx, req, deps.Source, deps.Cache, deps.Plans)
	if err != nil {
		return err
	}

	if err := writeOutputs(filepath.Join(*base, "outputs"), res); err != nil {
		return err
	}

	fmt.Fprintln(stdout, "\n=== COMPARISON ===")
	if err := report.WriteComparison(stdout, res.Plans); err != nil {
		return err
	}
	if res.Persisted {
		fmt.Fprintf(stdout, "\nstored run_id=%s\n", res.RunID)
	}
	return nil
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func writeOutputs(dir string, res *services.PlanDeliveriesResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("write outputs: %w", err)
	}

	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"route_summary.csv", func(w io.Writer) error { return report.WriteRoutesCSV(w, res.Plans) }},
		{"route_comparison.csv", func(w io.Writer) error { return report.WriteComparisonCSV(w, res.Plans) }},
	}

	for _, f := range files {
		path := filepath.Join(dir, f.name)
		out, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("write outputs: %w", err)
		}
		if err := f.write(out); err != nil {
			_ = out.Close()
			return fmt.Errorf("write outputs: %s: %w", path, err)
		}
		if err := out.Close(); err != nil {
			return fmt.Errorf("write outputs: %s: %w", path, err)
		}
		log.Printf("wrote %s", path)
	}
	return nil
}
