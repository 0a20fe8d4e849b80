package redis

import (
	"context"
	"fmt"
	"time"

	"account-ledger/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
)

// RateLimitStore implements fixed-window request counters backed by
// Redis. It fronts the login endpoint to slow credential guessing that
// rotates across account numbers and so never trips the per-account
// lockout.
type RateLimitStore struct {
	client *goredis.Client
	clock  ports.Clock
	prefix string
}

// NewRateLimitStore creates a new Redis-backed rate limit store.
func NewRateLimitStore(client *goredis.Client, clock ports.Clock) *RateLimitStore {
	return &RateLimitStore{
		client: client,
		clock:  clock,
		prefix: "ratelimit:",
	}
}

// Allow reports whether a request under key is within limit for the
// current window. Windows are discrete: time / windowDuration.
func (s *RateLimitStore) Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, error) {
	windowID := s.clock.Now().Unix() / int64(window.Seconds())
	redisKey := fmt.Sprintf("%s%s:%d", s.prefix, key, windowID)

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("redis rate limit incr: %w", err)
	}

	// Set expiry only on first increment (new window)
	if count == 1 {
		s.client.Expire(ctx, redisKey, window+time.Second)
	}

	return count <= limit, nil
}
