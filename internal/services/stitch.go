package services

import (
	"city-route-optimizer/internal/domain"
	"context"
	"errors"
	"fmt"
)

// StitchShortestPaths expands a tour into a full node path by joining the
// shortest path of every consecutive waypoint pair, dropping the shared
// junction node between segments.
//
// The returned cost is the weight of the realized path, summed per segment
// from the graph edges rather than from the search result.
func StitchShortestPaths(ctx context.Context, router *Router, tour domain.Tour) (domain.FullPath, float64, error) {
	if router == nil {
		return nil, 0, errors.New("stitch shortest paths: router must be non-nil")
	}

	g := router.Graph()
	switch len(tour) {
	case 0:
		return domain.FullPath{}, 0, nil
	case 1:
		if !g.HasNode(tour[0]) {
			return nil, 0, fmt.Errorf("stitch shortest paths: %w: %d", domain.ErrUnknownNode, tour[0])
		}
		return domain.FullPath{tour[0]}, 0, nil
	}

	full := make(domain.FullPath, 0, len(tour))
	total := 0.0
	for i := 1; i < len(tour); i++ {
		a, b := tour[i-1], tour[i]

		segment, _, err := router.Path(ctx, a, b)
		if err != nil {
			return nil, 0, fmt.Errorf("stitch shortest paths: segment %d -> %d: %w", a, b, err)
		}

		w, err := g.PathWeight(segment, router.Weight())
		if err != nil {
			return nil, 0, fmt.Errorf("stitch shortest paths: weigh segment %d -> %d: %w", a, b, err)
		}
		total += w

		if len(full) > 0 {
			segment = segment[1:]
		}
		full = append(full, segment...)
	}

	return full, total, nil
}
