package redis

import (
	"context"
	"fmt"
	"time"

	"account-ledger/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// failedCounterTTL garbage-collects abandoned failure counters. The
// counter tracks consecutive failures, not failures per window, so the
// TTL is deliberately generous.
const failedCounterTTL = 24 * time.Hour

// AuthStateStore implements ports.AuthStateRepository. The lockout is
// stored as an RFC 3339 timestamp and judged against the injected clock
// by the auth service; the key TTL is hygiene only.
type AuthStateStore struct {
	client *goredis.Client
}

// NewAuthStateStore creates a new Redis-backed auth state store.
func NewAuthStateStore(client *goredis.Client) *AuthStateStore {
	return &AuthStateStore{client: client}
}

func failedKey(accountNumber string) string {
	return "auth:failed:" + accountNumber
}

func lockoutKey(accountNumber string) string {
	return "auth:lockout:" + accountNumber
}

// IncrementFailed bumps the consecutive-failure counter and returns the
// new value.
func (s *AuthStateStore) IncrementFailed(ctx context.Context, accountNumber string) (int64, error) {
	key := failedKey(accountNumber)
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr failed counter: %w", err)
	}
	if count == 1 {
		s.client.Expire(ctx, key, failedCounterTTL)
	}
	return count, nil
}

// ClearFailed resets the counter.
func (s *AuthStateStore) ClearFailed(ctx context.Context, accountNumber string) error {
	if err := s.client.Del(ctx, failedKey(accountNumber)).Err(); err != nil {
		return fmt.Errorf("redis clear failed counter: %w", err)
	}
	return nil
}

// SetLockout records the instant the account was locked.
func (s *AuthStateStore) SetLockout(ctx context.Context, accountNumber string, at time.Time) error {
	ttl := domain.LockoutWindow + time.Minute
	if err := s.client.Set(ctx, lockoutKey(accountNumber), at.Format(time.RFC3339Nano), ttl).Err(); err != nil {
		return fmt.Errorf("redis set lockout: %w", err)
	}
	return nil
}

// GetLockout returns the lock instant, or nil, nil when the account is
// not locked.
func (s *AuthStateStore) GetLockout(ctx context.Context, accountNumber string) (*time.Time, error) {
	raw, err := s.client.Get(ctx, lockoutKey(accountNumber)).Result()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get lockout: %w", err)
	}

	at, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, fmt.Errorf("parse lockout timestamp: %w", err)
	}
	return &at, nil
}

// ClearLockout removes the lockout record.
func (s *AuthStateStore) ClearLockout(ctx context.Context, accountNumber string) error {
	if err := s.client.Del(ctx, lockoutKey(accountNumber)).Err(); err != nil {
		return fmt.Errorf("redis clear lockout: %w", err)
	}
	return nil
}
