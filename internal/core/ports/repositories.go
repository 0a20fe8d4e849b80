package ports

import (
	"context"
	"time"

	"account-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// AccountRepository defines persistence operations for accounts.
// Methods accepting pgx.Tx run inside transaction blocks; GetForUpdate
// takes a row lock so concurrent operations on the same account serialize.
type AccountRepository interface {
	Create(ctx context.Context, tx pgx.Tx, account *domain.Account) error
	GetByNumber(ctx context.Context, number string) (*domain.Account, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, number string) (*domain.Account, error)
	Update(ctx context.Context, tx pgx.Tx, account *domain.Account) error
	Exists(ctx context.Context, number string) (bool, error)
}

// TransactionRepository defines persistence for the append-only transaction log.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error
	// ListForAccount returns transactions where the account is the sole
	// participant, sender, or recipient, newest first, capped at limit.
	ListForAccount(ctx context.Context, accountNumber string, limit int) ([]domain.Transaction, error)
}

// SessionRepository defines persistence for login sessions, keyed by token.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	// Get returns nil, nil for an unknown token.
	Get(ctx context.Context, token string) (*domain.Session, error)
	ExtendExpiry(ctx context.Context, token string, expiresAt time.Time) error
	// Delete is idempotent; deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error
}

// AuthStateRepository tracks per-account consecutive PIN failures and
// lockout timestamps.
type AuthStateRepository interface {
	// IncrementFailed bumps the counter and returns the new value.
	IncrementFailed(ctx context.Context, accountNumber string) (int64, error)
	ClearFailed(ctx context.Context, accountNumber string) error
	SetLockout(ctx context.Context, accountNumber string, at time.Time) error
	// GetLockout returns nil, nil when no lockout record exists.
	GetLockout(ctx context.Context, accountNumber string) (*time.Time, error)
	ClearLockout(ctx context.Context, accountNumber string) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
