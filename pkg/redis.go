package pkg

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/racedaylabs/platform-service/internal/config"
)

// NewRedisClient connects to redis using the configured URL. Callers treat a
// nil client as "no cache": auth-state caching, dashboard caching and rate
// limiting all degrade gracefully without it.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}
