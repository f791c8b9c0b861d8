package main

import (
	"city-route-optimizer/internal/api"
	"city-route-optimizer/internal/app"
	"city-route-optimizer/internal/config"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		log.Printf("server: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) (err error) {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	drivers, err := config.GetInt("DEFAULT_DRIVERS", 2)
	if err != nil {
		return err
	}

	deps, err := app.Wire(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := deps.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	router := api.NewRouter(api.Options{
		Source:         deps.Source,
		Cache:          deps.Cache,
		Repo:           deps.Plans,
		BuildRequest:   deps.PlanRequest,
		DefaultDrivers: drivers,
	})

	// Write timeout leaves room for 2-opt on large clusters.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown failed: %v", err)
		}
	}()

	log.Printf("Server listening addr=:%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
