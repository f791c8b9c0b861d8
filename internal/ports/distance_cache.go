package ports

import (
	"city-route-optimizer/internal/domain"
	"context"
)

// Identifies one pairwise shortest-path cost on a given graph.
// From and To are normalized so that From <= To; costs are symmetric.
type DistanceKey struct {
	Graph  string
	Weight domain.WeightKey
	From   int
	To     int
}

func NewDistanceKey(graph string, weight domain.WeightKey, a, b int) DistanceKey {
	if a > b {
		a, b = b, a
	}
	return DistanceKey{Graph: graph, Weight: weight, From: a, To: b}
}

// Contract for memoizing shortest-path costs across queries and workers.
type DistanceCache interface {
	// Return the cached cost and whether it was present.
	Get(ctx context.Context, key DistanceKey) (float64, bool, error)
	Put(ctx context.Context, key DistanceKey, cost float64) error
}
