package main

import (
	"city-route-optimizer/internal/adapters/repositories"
	"city-route-optimizer/internal/config"
	"city-route-optimizer/internal/platform/db"
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// dbtool creates the schema and imports the CSV graph and deliveries.
func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil && !errors.Is(err, flag.ErrHelp) {
		log.Printf("dbtool: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) (err error) {
	fs := flag.NewFlagSet("dbtool", flag.ContinueOnError)
	initOnly := fs.Bool("init-only", false, "create the schema without importing CSV data")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cfg.UseDatabase() {
		return errors.New("DATABASE_URL is required")
	}

	conn, err := db.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	src := repositories.NewCSVGraphSource(cfg.NodesPath, cfg.EdgesPath, cfg.DeliveriesPath)
	return initAndSeed(ctx, conn, cfg.DatabaseDriver, src, !*initOnly)
}

func initAndSeed(ctx context.Context, conn *sql.DB, dialect db.Dialect, src *repositories.CSVGraphSource, seed bool) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		return err
	}
	log.Println("Schema ready.")

	if !seed {
		return nil
	}

	log.Printf("Importing graph nodes=%s edges=%s deliveries=%s...", src.NodesPath, src.EdgesPath, src.DeliveriesPath)
	if err := repositories.SeedFromSource(ctx, conn, dialect, src); err != nil {
		return err
	}
	log.Println("Import complete.")

	return nil
}
