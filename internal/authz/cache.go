package authz

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DecisionCache memoizes (role, resource, action) decisions. Implementations
// must be safe for concurrent use. A Get miss is (false, false); an expired
// entry counts as a miss. Every write to the permission matrix must be
// followed by InvalidateAll, otherwise a stale allow can outlive a
// revocation.
type DecisionCache interface {
	Get(ctx context.Context, role, resource string, action Action) (allowed, ok bool)
	Put(ctx context.Context, role, resource string, action Action, allowed bool)
	InvalidateAll(ctx context.Context)
}

func decisionKey(role, resource string, action Action) string {
	return strings.Join([]string{Fold(role), Fold(resource), string(action)}, ":")
}

type memoryEntry struct {
	allowed  bool
	insertAt time.Time
}

// MemoryCache is the in-process implementation: a mutex-guarded map with a
// per-entry TTL measured from insertion.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache builds a MemoryCache with the given TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached decision when present and fresh.
func (c *MemoryCache) Get(_ context.Context, role, resource string, action Action) (bool, bool) {
	key := decisionKey(role, resource, action)
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return false, false
	}
	if c.now().Sub(entry.insertAt) >= c.ttl {
		c.mu.Lock()
		// Re-check under the write lock: a fresher Put may have raced in.
		if current, still := c.entries[key]; still && c.now().Sub(current.insertAt) >= c.ttl {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return false, false
	}
	return entry.allowed, true
}

// Put stores a decision, overwriting any previous entry.
func (c *MemoryCache) Put(_ context.Context, role, resource string, action Action, allowed bool) {
	key := decisionKey(role, resource, action)
	c.mu.Lock()
	c.entries[key] = memoryEntry{allowed: allowed, insertAt: c.now()}
	c.mu.Unlock()
}

// InvalidateAll drops every cached decision.
func (c *MemoryCache) InvalidateAll(_ context.Context) {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
}

const redisVersionKey = "authz:decision:version"

// RedisCache shares decisions across replicas. Invalidation bumps a version
// key that is baked into every entry key, so stale entries become
// unreachable immediately and age out via the TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache builds a RedisCache with the given TTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) version(ctx context.Context) int64 {
	ver, err := c.client.Get(ctx, redisVersionKey).Int64()
	if err != nil {
		return 0
	}
	return ver
}

func (c *RedisCache) key(ctx context.Context, role, resource string, action Action) string {
	return fmt.Sprintf("authz:decision:%d:%s", c.version(ctx), decisionKey(role, resource, action))
}

// Get returns the cached decision when present under the current version.
func (c *RedisCache) Get(ctx context.Context, role, resource string, action Action) (bool, bool) {
	val, err := c.client.Get(ctx, c.key(ctx, role, resource, action)).Result()
	if err != nil {
		return false, false
	}
	return val == "1", true
}

// Put stores a decision with the configured TTL.
func (c *RedisCache) Put(ctx context.Context, role, resource string, action Action, allowed bool) {
	val := "0"
	if allowed {
		val = "1"
	}
	_ = c.client.Set(ctx, c.key(ctx, role, resource, action), val, c.ttl).Err()
}

// InvalidateAll makes every existing entry unreachable.
func (c *RedisCache) InvalidateAll(ctx context.Context) {
	_ = c.client.Incr(ctx, redisVersionKey).Err()
}
