package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// shortestPathQueries counts graph searches actually executed (cache misses included).
	shortestPathQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "route_shortest_path_queries_total",
		Help: "Shortest-path searches executed by weight key and algorithm",
	}, []string{"weight", "algorithm"})

	distanceCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "route_distance_cache_lookups_total",
		Help: "Pairwise cost cache lookups by result",
	}, []string{"result"}) // "hit" or "miss"

	twoOptMoves = promauto.NewCounter(prometheus.CounterOpts{
		Name: "route_two_opt_moves_total",
		Help: "Accepted 2-opt segment reversals",
	})

	clusterPlans = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "route_cluster_plans_total",
		Help: "Cluster planning outcomes",
	}, []string{"result"}) // "ok", "skipped" or "failed"

	clusterPlanDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "route_cluster_plan_duration_seconds",
		Help:    "Wall time to plan one cluster",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
	}, []string{"weight"})
)
