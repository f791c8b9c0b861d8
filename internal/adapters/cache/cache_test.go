package cache

import (
	"city-route-optimizer/internal/adapters/repositories"
	"city-route-optimizer/internal/domain"
	"city-route-optimizer/internal/platform/db"
	"city-route-optimizer/internal/ports"
	"context"
	"math"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exercise runs the shared DistanceCache contract against c.
func exercise(t *testing.T, c ports.DistanceCache) {
	t.Helper()
	ctx := context.Background()
	key := ports.NewDistanceKey("abc", domain.WeightTime, 7, 3)

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, key, 1.25))
	v, ok, err := c.Get(ctx, ports.NewDistanceKey("abc", domain.WeightTime, 3, 7))
	require.NoError(t, err)
	require.True(t, ok, "keys are normalized so reverse lookups hit")
	assert.Equal(t, 1.25, v)

	require.NoError(t, c.Put(ctx, key, 0.5))
	v, _, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)

	inf := ports.NewDistanceKey("abc", domain.WeightTime, 1, 2)
	require.NoError(t, c.Put(ctx, inf, math.Inf(1)))
	v, ok, err = c.Get(ctx, inf)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, math.IsInf(v, 1))

	_, ok, err = c.Get(ctx, ports.NewDistanceKey("abc", domain.WeightDistance, 3, 7))
	require.NoError(t, err)
	assert.False(t, ok, "weight keys do not share entries")

	_, ok, err = c.Get(ctx, ports.NewDistanceKey("other", domain.WeightTime, 3, 7))
	require.NoError(t, err)
	assert.False(t, ok, "graphs do not share entries")
}

func TestMemoryDistanceCache(t *testing.T) {
	c := NewMemoryDistanceCache()
	exercise(t, c)
	assert.Equal(t, 2, c.Len())
}

func TestRedisDistanceCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	exercise(t, NewRedisDistanceCache(client, time.Hour))

	assert.True(t, mr.Exists("route:cost:abc:time_h"))
	assert.Equal(t, time.Hour, mr.TTL("route:cost:abc:time_h"))
}

func TestRedisDistanceCacheUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	_, _, err := NewRedisDistanceCache(client, 0).Get(context.Background(), ports.NewDistanceKey("g", domain.WeightDistance, 1, 2))
	assert.Error(t, err)
}

func TestSQLDistanceCache(t *testing.T) {
	conn, err := db.Open(db.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, repositories.InitSchema(context.Background(), conn, db.SQLite))

	exercise(t, NewSQLDistanceCache(conn, db.SQLite))
}
