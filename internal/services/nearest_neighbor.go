package services

import (
	"city-route-optimizer/internal/domain"
	"context"
	"fmt"
	"math"
	"slices"
)

// Build a visiting order using a greedy nearest-neighbor algorithm.
//
// From the current tail, the remaining target with the smallest shortest-path
// cost is appended next. Ties go to the lowest node id. start is placed first
// and prepended when it is not one of the targets; duplicate targets are visited once.
//
// Each step scans every remaining candidate, so construction issues O(T²)
// shortest-path queries for T targets. That is fine for tens to low hundreds
// of stops and is the known scaling limit of this builder.
func NearestNeighborTour(ctx context.Context, coster Coster, targets []int, start int) (domain.Tour, error) {
	tour := domain.Tour{start}
	remaining := make([]int, 0, len(targets))
	seen := map[int]struct{}{start: {}}
	for _, t := range targets {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		remaining = append(remaining, t)
	}

	if len(remaining) == 0 {
		return tour, nil
	}

	// Candidates are scanned in id order so strict < keeps the lowest id on ties.
	slices.Sort(remaining)
	current := start

	for len(remaining) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		bestIdx := -1
		bestCost := math.Inf(1)

		// Select next stop by minimum travel cost (greedy step).
		for i, cand := range remaining {
			c, err := coster.Cost(ctx, current, cand)
			if err != nil {
				return nil, fmt.Errorf("nearest neighbor tour: cost %d -> %d: %w", current, cand, err)
			}
			// bestIdx == -1 admits a +Inf first candidate so unreachable-by-time stops still get placed.
			if bestIdx == -1 || c < bestCost {
				bestIdx = i
				bestCost = c
			}
		}

		current = remaining[bestIdx]
		tour = append(tour, current)
		remaining = slices.Delete(remaining, bestIdx, bestIdx+1)
	}

	return tour, nil
}
