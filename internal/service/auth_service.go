package service

import (
	"context"
	"fmt"

	"account-ledger/internal/core/domain"
	"account-ledger/internal/core/ports"
	"account-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// AuthServiceImpl implements ports.AuthService: PIN verification behind
// the failed-attempt counter and 30-minute lockout window.
type AuthServiceImpl struct {
	accountRepo ports.AccountRepository
	authState   ports.AuthStateRepository
	sessions    ports.SessionService
	hasher      ports.PINHasher
	clock       ports.Clock
	log         zerolog.Logger
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	accountRepo ports.AccountRepository,
	authState ports.AuthStateRepository,
	sessions ports.SessionService,
	hasher ports.PINHasher,
	clock ports.Clock,
	log zerolog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		accountRepo: accountRepo,
		authState:   authState,
		sessions:    sessions,
		hasher:      hasher,
		clock:       clock,
		log:         log,
	}
}

// Login verifies the PIN and issues a session. The lockout check comes
// first: while the window is open even a correct PIN is rejected without
// being verified. An expired lockout is cleared lazily on the next attempt.
func (s *AuthServiceImpl) Login(ctx context.Context, accountNumber, pin string) (*ports.LoginResult, error) {
	now := s.clock.Now()

	lockedAt, err := s.authState.GetLockout(ctx, accountNumber)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("get lockout: %w", err))
	}
	if lockedAt != nil {
		expiry := lockedAt.Add(domain.LockoutWindow)
		if now.Before(expiry) {
			minutes := int(expiry.Sub(now).Minutes())
			s.log.Warn().Str("account", accountNumber).Msg("login rejected: account locked")
			return nil, apperror.ErrAccountLocked(minutes)
		}
		// Window elapsed: forget the lockout and any stale counter.
		if err := s.authState.ClearLockout(ctx, accountNumber); err != nil {
			return nil, apperror.ErrStorageFailure(fmt.Errorf("clear lockout: %w", err))
		}
		if err := s.authState.ClearFailed(ctx, accountNumber); err != nil {
			return nil, apperror.ErrStorageFailure(fmt.Errorf("clear failed counter: %w", err))
		}
	}

	account, err := s.accountRepo.GetByNumber(ctx, accountNumber)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("get account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrAccountNotFound()
	}

	valid, err := s.hasher.Verify(pin, account.PINHash)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("verify pin: %w", err))
	}

	if !valid {
		count, err := s.authState.IncrementFailed(ctx, accountNumber)
		if err != nil {
			return nil, apperror.ErrStorageFailure(fmt.Errorf("increment failed counter: %w", err))
		}
		if count >= domain.MaxFailedAttempts {
			if err := s.authState.SetLockout(ctx, accountNumber, now); err != nil {
				return nil, apperror.ErrStorageFailure(fmt.Errorf("set lockout: %w", err))
			}
			s.log.Warn().Str("account", accountNumber).Msg("account locked after repeated PIN failures")
			return nil, apperror.ErrAccountLocked(int(domain.LockoutWindow.Minutes()))
		}
		remaining := domain.MaxFailedAttempts - int(count)
		return nil, apperror.ErrInvalidPIN(remaining)
	}

	// Success resets the consecutive-failure counter.
	if err := s.authState.ClearFailed(ctx, accountNumber); err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("clear failed counter: %w", err))
	}

	session, err := s.sessions.Issue(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("account", accountNumber).Msg("login succeeded")
	return &ports.LoginResult{Token: session.Token, Account: account}, nil
}

// Logout revokes the session. Tokens that are unknown, expired, or already
// revoked all produce the same successful outcome.
func (s *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}
