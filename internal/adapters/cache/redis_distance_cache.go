package cache

import (
	"city-route-optimizer/internal/ports"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDistanceCache shares pairwise costs between planner processes.
//
// Costs for one graph and weight key live in a single hash
// "route:cost:<fingerprint>:<weight>" whose fields are "<from>:<to>".
// A changed graph has a different fingerprint, so stale entries are never read;
// the TTL lets them age out.
type RedisDistanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDistanceCache(client *redis.Client, ttl time.Duration) *RedisDistanceCache {
	return &RedisDistanceCache{client: client, ttl: ttl}
}

func hashKey(k ports.DistanceKey) string {
	return fmt.Sprintf("route:cost:%s:%s", k.Graph, k.Weight)
}

func fieldKey(k ports.DistanceKey) string {
	return strconv.Itoa(k.From) + ":" + strconv.Itoa(k.To)
}

func (c *RedisDistanceCache) Get(ctx context.Context, key ports.DistanceKey) (float64, bool, error) {
	if c.client == nil {
		return 0, false, errors.New("redis distance cache: client is nil")
	}

	s, err := c.client.HGet(ctx, hashKey(key), fieldKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get redis distance cache: %w", err)
	}

	// ParseFloat accepts "+Inf", which FormatFloat emits for impassable pairs.
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("get redis distance cache: parse %q: %w", s, err)
	}
	return v, true, nil
}

func (c *RedisDistanceCache) Put(ctx context.Context, key ports.DistanceKey, cost float64) error {
	if c.client == nil {
		return errors.New("redis distance cache: client is nil")
	}

	h := hashKey(key)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, h, fieldKey(key), strconv.FormatFloat(cost, 'g', -1, 64))
	if c.ttl > 0 {
		pipe.Expire(ctx, h, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert redis distance cache: %w", err)
	}
	return nil
}
