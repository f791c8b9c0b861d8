package api

import (
	"city-route-optimizer/internal/api/handlers"
	"city-route-optimizer/internal/ports"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	Source         ports.GraphSource
	Cache          ports.DistanceCache
	Repo           ports.PlanRepository
	BuildRequest   handlers.RequestBuilder
	DefaultDrivers int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(opts Options) http.Handler {
	mux := http.NewServeMux()

	nodeHandler := &handlers.NodeHandler{Source: opts.Source}
	planHandler := &handlers.PlanHandler{
		Source:         opts.Source,
		Cache:          opts.Cache,
		Repo:           opts.Repo,
		BuildRequest:   opts.BuildRequest,
		DefaultDrivers: opts.DefaultDrivers,
	}

	mux.HandleFunc("/health", handlers.NewHealthHandler(time.Now()).Check)
	mux.HandleFunc("/nodes", nodeHandler.List)
	mux.HandleFunc("/plans", planHandler.Plan)
	mux.Handle("/metrics", promhttp.Handler())

	return requestIDMiddleware(loggingMiddleware(mux))
}
