package services

import (
	"city-route-optimizer/internal/domain"
	"context"
	"fmt"
	"slices"
	"time"
)

// DefaultTwoOptEpsilon absorbs floating-point noise so near-equal swaps never oscillate.
const DefaultTwoOptEpsilon = 1e-9

// TwoOptOptions bound the local search. Both limits are checked at sweep boundaries.
type TwoOptOptions struct {
	// MaxSweeps caps full passes over the tour; 0 means unlimited.
	MaxSweeps int
	// TimeBudget caps wall time; 0 means unlimited.
	TimeBudget time.Duration
	Epsilon    float64
}

func DefaultTwoOptOptions() TwoOptOptions {
	return TwoOptOptions{
		MaxSweeps: 1000,
		Epsilon:   DefaultTwoOptEpsilon,
	}
}

type TwoOptStats struct {
	Sweeps int
	Moves  int
	// Converged is false when a sweep or time limit stopped the search early.
	Converged bool
}

// TwoOpt improves tour by reversing segments while that lowers its open-path cost.
//
// The depot at position 0 and the final position are never used as a swap
// boundary. For every 1 <= i < k <= len-2 it compares
// cost(a,b)+cost(c,d) with cost(a,c)+cost(b,d), where a, b, c and d are
// tour[i-1], tour[i], tour[k] and tour[k+1], and reverses tour[i..k] on
// improvement. Accepted moves take effect immediately. Scanning continues
// within the sweep, and sweeps repeat until one makes no move
// (first improvement, not best improvement).
//
// The input tour is never modified. Tours shorter than four waypoints are
// returned as a copy. Each evaluation is a shortest-path query, so one sweep
// costs O(T² · E log V) without a cache.
func TwoOpt(ctx context.Context, coster Coster, tour domain.Tour, opts TwoOptOptions) (domain.Tour, TwoOptStats, error) {
	best := tour.Clone()
	stats := TwoOptStats{}

	n := len(best)
	if n < 4 {
		stats.Converged = true
		return best, stats, nil
	}

	eps := opts.Epsilon
	if eps < 0 {
		eps = 0
	}

	var deadline time.Time
	if opts.TimeBudget > 0 {
		deadline = time.Now().Add(opts.TimeBudget)
	}

	cost := func(x, y int) (float64, error) {
		c, err := coster.Cost(ctx, x, y)
		if err != nil {
			return 0, fmt.Errorf("two opt: cost %d -> %d: %w", x, y, err)
		}
		return c, nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		if opts.MaxSweeps > 0 && stats.Sweeps >= opts.MaxSweeps {
			return best, stats, nil
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return best, stats, nil
		}

		stats.Sweeps++
		improved := false

		for i := 1; i < n-2; i++ {
			for k := i + 1; k < n-1; k++ {
				a, b := best[i-1], best[i]
				c, d := best[k], best[k+1]

				ab, err := cost(a, b)
				if err != nil {
					return nil, stats, err
				}
				cd, err := cost(c, d)
				if err != nil {
					return nil, stats, err
				}
				ac, err := cost(a, c)
				if err != nil {
					return nil, stats, err
				}
				bd, err := cost(b, d)
				if err != nil {
					return nil, stats, err
				}

				if ac+bd+eps < ab+cd {
					slices.Reverse(best[i : k+1])
					improved = true
					stats.Moves++
					twoOptMoves.Inc()
				}
			}
		}

		if !improved {
			stats.Converged = true
			return best, stats, nil
		}
	}
}

// TourCost sums waypoint-to-waypoint costs along the open tour.
func TourCost(ctx context.Context, coster Coster, tour domain.Tour) (float64, error) {
	total := 0.0
	for i := 1; i < len(tour); i++ {
		c, err := coster.Cost(ctx, tour[i-1], tour[i])
		if err != nil {
			return 0, fmt.Errorf("tour cost: %w", err)
		}
		total += c
	}
	return total, nil
}
