package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// AssignStopsByDistance splits delivery stops into driver clusters using a simple heuristic.
//
// Stops are sorted by shortest-path cost from the depot and chunked across
// drivers, giving each cluster a contiguous "band" of stops. It is a
// deterministic stand-in for external clustering, not a spatial clustering.
// Cluster ids run from 0 to drivers-1; drivers beyond the number of stops get no cluster.
func AssignStopsByDistance(
	ctx context.Context,
	coster Coster,
	depot int,
	stops []int,
	drivers int,
) (map[int][]int, error) {
	if drivers < 1 {
		return nil, errors.New("assign stops: drivers must be at least 1")
	}

	uniq := uniqueStops(stops, depot)
	depotCost := make(map[int]float64, len(uniq))
	for _, s := range uniq {
		c, err := coster.Cost(ctx, depot, s)
		if err != nil {
			return nil, fmt.Errorf("assign stops: cost depot -> %d: %w", s, err)
		}
		depotCost[s] = c
	}

	// Sort by depot cost so each driver receives a contiguous band of stops.
	slices.SortFunc(uniq, func(a, b int) int {
		ca, cb := depotCost[a], depotCost[b]
		if ca < cb {
			return -1
		}
		if ca > cb {
			return 1
		}
		return a - b
	})

	n := len(uniq)
	// Ceiling division: distribute stops as evenly as possible across drivers.
	chunkSize := (n + drivers - 1) / drivers

	clusters := make(map[int][]int, drivers)
	for ci := 0; ci < drivers; ci++ {
		start := ci * chunkSize
		if start >= n {
			break
		}
		end := min(start+chunkSize, n)
		clusters[ci] = slices.Clone(uniq[start:end])
	}

	return clusters, nil
}
