package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Helper provides common caching operations with graceful degradation: every
// write is a no-op and every read misses when no redis client is configured.
type Helper struct {
	client *redis.Client
	prefix string
}

func NewHelper(client *redis.Client, prefix string) *Helper {
	return &Helper{client: client, prefix: prefix}
}

// Config pairs a key prefix with a TTL for one cached data family.
type Config struct {
	TTL    time.Duration
	Prefix string
}

var (
	// AuthStateCacheConfig holds the per-session auth-state projection.
	// Invalidated explicitly on role or profile change; the TTL only bounds
	// staleness if an invalidation is ever missed.
	AuthStateCacheConfig = Config{
		TTL:    15 * time.Minute,
		Prefix: "authstate:",
	}

	// DashboardCacheConfig caches expensive admin aggregate queries.
	DashboardCacheConfig = Config{
		TTL:    2 * time.Minute,
		Prefix: "dashboard:",
	}

	// RateLimitConfig names the rate-limiter counter keyspace. Counters are
	// managed by the limiter itself; the prefix lives here so all redis
	// keyspaces are declared in one place.
	RateLimitConfig = Config{
		Prefix: "ratelimit:",
	}
)

func (h *Helper) key(key string) string {
	return h.prefix + key
}

var (
	ErrCacheNotAvailable = fmt.Errorf("cache not available")
	ErrCacheNotFound     = fmt.Errorf("cache not found")
)

// Get retrieves and unmarshals a cached value.
func (h *Helper) Get(ctx context.Context, key string, dest interface{}) error {
	if h.client == nil {
		return ErrCacheNotAvailable
	}

	data, err := h.client.Get(ctx, h.key(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrCacheNotFound
		}
		return fmt.Errorf("cache get error: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("cache unmarshal error: %w", err)
	}
	return nil
}

// Set marshals and stores a value.
func (h *Helper) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if h.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}
	return h.client.Set(ctx, h.key(key), data, ttl).Err()
}

// Delete removes one or more keys.
func (h *Helper) Delete(ctx context.Context, keys ...string) error {
	if h.client == nil || len(keys) == 0 {
		return nil
	}

	fullKeys := make([]string, len(keys))
	for i, key := range keys {
		fullKeys[i] = h.key(key)
	}
	return h.client.Del(ctx, fullKeys...).Err()
}

// InvalidatePattern removes all keys matching a pattern, using SCAN rather than
// KEYS so invalidation never blocks the server.
func (h *Helper) InvalidatePattern(ctx context.Context, pattern string) error {
	if h.client == nil {
		return nil
	}

	fullPattern := h.key(pattern)
	var cursor uint64
	var keys []string

	for {
		var scanKeys []string
		var err error
		scanKeys, cursor, err = h.client.Scan(ctx, cursor, fullPattern, 100).Result()
		if err != nil {
			slog.ErrorContext(ctx, "cache scan pattern error", "error", err, "pattern", fullPattern)
			return fmt.Errorf("cache scan pattern error: %w", err)
		}
		keys = append(keys, scanKeys...)
		if cursor == 0 {
			break
		}
	}

	if len(keys) == 0 {
		return nil
	}
	return h.client.Del(ctx, keys...).Err()
}

// CacheOrExecute implements the cache-aside pattern: cache hit fills dest,
// otherwise fetchFunc runs and its result is stored asynchronously.
func (h *Helper) CacheOrExecute(ctx context.Context, key string, dest interface{}, ttl time.Duration, fetchFunc func() (interface{}, error)) error {
	err := h.Get(ctx, key, dest)
	if err == nil {
		return nil
	}
	if err != ErrCacheNotFound && err != ErrCacheNotAvailable {
		slog.Info("cache get error, proceeding to fetch", "error", err, "key", key)
	}

	value, err := fetchFunc()
	if err != nil {
		return err
	}

	go func(parentCtx context.Context) {
		ctxWithTimeout, cancel := context.WithTimeout(parentCtx, 5*time.Second)
		defer cancel()
		if err := h.Set(ctxWithTimeout, key, value, ttl); err != nil {
			slog.Error("cache set error", "error", err, "key", key)
		}
	}(context.WithoutCancel(ctx))

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal result error: %w", err)
	}
	return json.Unmarshal(data, dest)
}

// HealthCheck verifies cache connectivity.
func (h *Helper) HealthCheck(ctx context.Context) error {
	if h.client == nil {
		return ErrCacheNotAvailable
	}
	if _, err := h.client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("cache health check failed: %w", err)
	}
	return nil
}
