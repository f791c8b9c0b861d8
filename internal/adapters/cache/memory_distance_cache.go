package cache

import (
	"city-route-optimizer/internal/ports"
	"context"
	"sync"
)

// In-process cache of pairwise shortest-path costs, safe for concurrent use.
type MemoryDistanceCache struct {
	mu sync.RWMutex
	m  map[ports.DistanceKey]float64
}

func NewMemoryDistanceCache() *MemoryDistanceCache {
	return &MemoryDistanceCache{m: make(map[ports.DistanceKey]float64)}
}

func (c *MemoryDistanceCache) Get(_ context.Context, key ports.DistanceKey) (float64, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[key]
	return v, ok, nil
}

func (c *MemoryDistanceCache) Put(_ context.Context, key ports.DistanceKey, cost float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = cost
	return nil
}

func (c *MemoryDistanceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
