package domain

import "math"

// Immutable road-network intersection with planar coordinates.
type Node struct {
	ID   int
	Name string
	X    float64
	Y    float64
}

// Undirected road segment between two nodes.
// TimeH is derived from DistanceKm and SpeedKmh and is +Inf for a speed of zero,
// which makes the segment impassable for time-weighted queries only.
type Edge struct {
	Source     int
	Target     int
	DistanceKm float64
	SpeedKmh   float64
	TimeH      float64
}

func NewEdge(source, target int, distanceKm, speedKmh float64) Edge {
	timeH := math.Inf(1)
	if speedKmh > 0 {
		timeH = distanceKm / speedKmh
	}

	return Edge{
		Source:     source,
		Target:     target,
		DistanceKm: distanceKm,
		SpeedKmh:   speedKmh,
		TimeH:      timeH,
	}
}

// Return the edge attribute selected by key.
func (e Edge) Weight(key WeightKey) float64 {
	if key == WeightTime {
		return e.TimeH
	}
	return e.DistanceKm
}

// A delivery stop located at a graph node.
// ClusterID is set when an external clustering step already assigned the stop to a driver.
type Delivery struct {
	NodeID    int
	ClusterID *int
}
