package authz

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	_ "github.com/cqtrails/cqtrails-admin/testing"
)

func TestMemoryCachePutGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(5 * time.Minute)

	_, ok := c.Get(ctx, "empleado", "vehiculos", ActionRead)
	require.False(t, ok)

	c.Put(ctx, "Empleado", "vehiculos", ActionRead, true)
	allowed, ok := c.Get(ctx, "empleado", "vehiculos", ActionRead)
	require.True(t, ok, "role names fold to one canonical key")
	require.True(t, allowed)

	c.Put(ctx, "empleado", "vehiculos", ActionCreate, false)
	allowed, ok = c.Get(ctx, "empleado", "vehiculos", ActionCreate)
	require.True(t, ok)
	require.False(t, allowed, "a cached deny is still a hit")
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(5 * time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Put(ctx, "empleado", "vehiculos", ActionRead, true)

	now = now.Add(4 * time.Minute)
	_, ok := c.Get(ctx, "empleado", "vehiculos", ActionRead)
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(ctx, "empleado", "vehiculos", ActionRead)
	require.False(t, ok, "entries older than the TTL are treated as absent")
}

func TestMemoryCacheInvalidateAll(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(5 * time.Minute)

	c.Put(ctx, "empleado", "vehiculos", ActionRead, true)
	c.Put(ctx, "admin", "usuarios", ActionDelete, true)
	c.InvalidateAll(ctx)

	_, ok := c.Get(ctx, "empleado", "vehiculos", ActionRead)
	require.False(t, ok)
	_, ok = c.Get(ctx, "admin", "usuarios", ActionDelete)
	require.False(t, ok)
}

func TestRedisCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisCache(client, 5*time.Minute)

	_, ok := c.Get(ctx, "empleado", "vehiculos", ActionRead)
	require.False(t, ok)

	c.Put(ctx, "empleado", "vehiculos", ActionRead, true)
	allowed, ok := c.Get(ctx, "empleado", "vehiculos", ActionRead)
	require.True(t, ok)
	require.True(t, allowed)

	c.Put(ctx, "empleado", "vehiculos", ActionCreate, false)
	allowed, ok = c.Get(ctx, "empleado", "vehiculos", ActionCreate)
	require.True(t, ok)
	require.False(t, allowed)
}

func TestRedisCacheInvalidateAll(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisCache(client, 5*time.Minute)

	c.Put(ctx, "empleado", "vehiculos", ActionRead, true)
	c.InvalidateAll(ctx)

	_, ok := c.Get(ctx, "empleado", "vehiculos", ActionRead)
	require.False(t, ok, "version bump must make old entries unreachable")

	// The cache keeps working under the new version.
	c.Put(ctx, "empleado", "vehiculos", ActionRead, true)
	allowed, ok := c.Get(ctx, "empleado", "vehiculos", ActionRead)
	require.True(t, ok)
	require.True(t, allowed)
}

func TestRedisCacheTTLExpiry(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisCache(client, time.Minute)

	c.Put(ctx, "empleado", "vehiculos", ActionRead, true)
	mr.FastForward(2 * time.Minute)

	_, ok := c.Get(ctx, "empleado", "vehiculos", ActionRead)
	require.False(t, ok)
}
