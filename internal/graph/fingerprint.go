package graph

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes the graph content (node positions and edge attributes)
// in a canonical order. Two graphs with the same content share a fingerprint,
// which keeps cached costs and stored plans from being read against a different network.
func (g *WeightedGraph) Fingerprint() string {
	h := xxhash.New()
	var buf [8]byte

	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
		_, _ = h.Write(buf[:])
	}
	writeFloat := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = h.Write(buf[:])
	}

	for _, n := range g.Nodes() {
		writeInt(n.ID)
		writeFloat(n.X)
		writeFloat(n.Y)
	}
	for _, e := range g.Edges() {
		lo, hi := e.Source, e.Target
		if lo > hi {
			lo, hi = hi, lo
		}
		writeInt(lo)
		writeInt(hi)
		writeFloat(e.DistanceKm)
		writeFloat(e.SpeedKmh)
	}

	return strconv.FormatUint(h.Sum64(), 16)
}
