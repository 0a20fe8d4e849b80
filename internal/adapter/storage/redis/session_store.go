package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"account-ledger/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// sessionKeyTTL pads the business expiry so Redis garbage-collects
// records a little after the session service would reject them anyway.
// Expiry decisions are always made against the stored expires_at.
const sessionKeyTTL = domain.SessionTTL + time.Minute

// SessionStore implements ports.SessionRepository, keyed by token.
type SessionStore struct {
	client *goredis.Client
	prefix string
}

// NewSessionStore creates a new Redis-backed session store.
func NewSessionStore(client *goredis.Client) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: "session:",
	}
}

// Create stores the session under its token.
func (s *SessionStore) Create(ctx context.Context, session *domain.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+session.Token, payload, sessionKeyTTL).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

// Get returns the session for a token, or nil, nil when unknown.
func (s *SessionStore) Get(ctx context.Context, token string) (*domain.Session, error) {
	payload, err := s.client.Get(ctx, s.prefix+token).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	session := &domain.Session{}
	if err := json.Unmarshal(payload, session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	session.Token = token // excluded from the payload
	return session, nil
}

// ExtendExpiry rewrites the session with the renewed expiry. A token that
// disappeared between Get and here is treated as already revoked.
func (s *SessionStore) ExtendExpiry(ctx context.Context, token string, expiresAt time.Time) error {
	session, err := s.Get(ctx, token)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}
	session.ExpiresAt = expiresAt

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+token, payload, sessionKeyTTL).Err(); err != nil {
		return fmt.Errorf("redis extend session: %w", err)
	}
	return nil
}

// Delete removes the session. Unknown tokens are a no-op.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.prefix+token).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}
