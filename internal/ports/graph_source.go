package ports

import (
	"city-route-optimizer/internal/domain"
	"city-route-optimizer/internal/graph"
	"context"
)

// Port: a boundary for loading the road network and delivery stops.
type GraphSource interface {
	// Build the weighted graph from the underlying data source.
	LoadGraph(ctx context.Context) (*graph.WeightedGraph, error)
	// Return the delivery stops available for routing.
	ListDeliveries(ctx context.Context) ([]domain.Delivery, error)
}
