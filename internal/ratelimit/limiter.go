package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/racedaylabs/platform-service/internal/cache"
)

// Result reports one limiter decision. ResetAt is meaningful when Allowed is
// false: the moment the current window expires.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter is a fixed-window counter keyed by caller identity. With no redis
// client configured every request is allowed, so the contact form stays usable
// without redis.
type Limiter struct {
	client *redis.Client
	max    int
	window time.Duration
}

func NewLimiter(client *redis.Client, max int, window time.Duration) *Limiter {
	return &Limiter{client: client, max: max, window: window}
}

// Allow counts one hit for the key and reports whether it fits in the window.
func (l *Limiter) Allow(ctx context.Context, key string) (*Result, error) {
	if l.client == nil {
		return &Result{Allowed: true, Remaining: l.max}, nil
	}

	redisKey := cache.RateLimitConfig.Prefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return nil, fmt.Errorf("rate limit incr error: %w", err)
	}
	// First hit in a window owns the expiry.
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return nil, fmt.Errorf("rate limit expire error: %w", err)
		}
	}

	if count > int64(l.max) {
		ttl, err := l.client.TTL(ctx, redisKey).Result()
		if err != nil || ttl < 0 {
			ttl = l.window
		}
		return &Result{Allowed: false, ResetAt: time.Now().Add(ttl)}, nil
	}

	return &Result{Allowed: true, Remaining: l.max - int(count)}, nil
}

// ClientKey derives the limiter key: the authenticated user id when present,
// otherwise the first hop of X-Forwarded-For, otherwise the remote IP.
func ClientKey(userID, forwardedFor, remoteIP string) string {
	if userID != "" {
		return "user:" + userID
	}
	if forwardedFor != "" {
		first := strings.TrimSpace(strings.Split(forwardedFor, ",")[0])
		if first != "" {
			return "ip:" + first
		}
	}
	return "ip:" + remoteIP
}
