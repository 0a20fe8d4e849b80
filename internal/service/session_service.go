package service

import (
	"context"
	"fmt"

	"account-ledger/internal/core/domain"
	"account-ledger/internal/core/ports"
	"account-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// SessionServiceImpl implements ports.SessionService with opaque,
// server-side tokens. Expiry is judged against the injected clock; the
// store's own TTL only garbage-collects records we would reject anyway.
type SessionServiceImpl struct {
	sessionRepo ports.SessionRepository
	idGen       ports.IDGenerator
	clock       ports.Clock
	log         zerolog.Logger
}

// NewSessionService creates a new SessionServiceImpl.
func NewSessionService(
	sessionRepo ports.SessionRepository,
	idGen ports.IDGenerator,
	clock ports.Clock,
	log zerolog.Logger,
) *SessionServiceImpl {
	return &SessionServiceImpl{
		sessionRepo: sessionRepo,
		idGen:       idGen,
		clock:       clock,
		log:         log,
	}
}

// Issue creates a session valid for SessionTTL from now.
func (s *SessionServiceImpl) Issue(ctx context.Context, accountNumber string) (*domain.Session, error) {
	token, err := s.idGen.SessionToken()
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate session token: %w", err))
	}

	now := s.clock.Now()
	session := &domain.Session{
		Token:         token,
		AccountNumber: accountNumber,
		CreatedAt:     now,
		ExpiresAt:     now.Add(domain.SessionTTL),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("store session: %w", err))
	}

	s.log.Debug().Str("account", accountNumber).Msg("session issued")
	return session, nil
}

// Resolve maps a token to its account and slides the expiry window to
// now + SessionTTL. Unknown and expired tokens are indistinguishable to
// the caller; an expired record is removed on first touch.
func (s *SessionServiceImpl) Resolve(ctx context.Context, token string) (string, error) {
	session, err := s.sessionRepo.Get(ctx, token)
	if err != nil {
		return "", apperror.ErrStorageFailure(fmt.Errorf("get session: %w", err))
	}
	if session == nil {
		return "", apperror.ErrSessionExpired()
	}

	now := s.clock.Now()
	if !session.Usable(now) {
		if err := s.sessionRepo.Delete(ctx, token); err != nil {
			s.log.Warn().Err(err).Msg("failed to remove expired session")
		}
		return "", apperror.ErrSessionExpired()
	}

	if err := s.sessionRepo.ExtendExpiry(ctx, token, now.Add(domain.SessionTTL)); err != nil {
		return "", apperror.ErrStorageFailure(fmt.Errorf("extend session: %w", err))
	}

	return session.AccountNumber, nil
}

// Revoke removes the session. Unknown tokens are a no-op.
func (s *SessionServiceImpl) Revoke(ctx context.Context, token string) error {
	if err := s.sessionRepo.Delete(ctx, token); err != nil {
		return apperror.ErrStorageFailure(fmt.Errorf("delete session: %w", err))
	}
	return nil
}
