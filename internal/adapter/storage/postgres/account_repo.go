package postgres

import (
	"context"
	"errors"
	"fmt"

	"account-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const accountColumns = `number, holder_name, pin_hash, account_type, balance,
	daily_limit, daily_withdrawn, last_reset,
	fast_cash_amount, receipt_enabled, language, created_at`

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// Create inserts a new account within a transaction.
func (r *AccountRepo) Create(ctx context.Context, tx pgx.Tx, a *domain.Account) error {
	query := `INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := tx.Exec(ctx, query,
		a.Number, a.HolderName, a.PINHash, a.Type, a.Balance,
		a.DailyLimit, a.DailyWithdrawn, a.LastReset,
		a.Preferences.FastCashAmount, a.Preferences.ReceiptEnabled, a.Preferences.Language,
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByNumber fetches an account by number (without locking).
func (r *AccountRepo) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE number = $1`

	a, err := scanAccount(r.pool.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account by number: %w", err)
	}
	return a, nil
}

// GetForUpdate fetches an account with pessimistic locking.
// This MUST be called within a transaction.
func (r *AccountRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, number string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE number = $1 FOR UPDATE`

	a, err := scanAccount(tx.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account for update: %w", err)
	}
	return a, nil
}

// Update persists the mutable account fields within a transaction.
// The account number and creation time never change.
func (r *AccountRepo) Update(ctx context.Context, tx pgx.Tx, a *domain.Account) error {
	query := `UPDATE accounts
		SET holder_name = $1, pin_hash = $2, balance = $3,
			daily_limit = $4, daily_withdrawn = $5, last_reset = $6,
			fast_cash_amount = $7, receipt_enabled = $8, language = $9
		WHERE number = $10`

	tag, err := tx.Exec(ctx, query,
		a.HolderName, a.PINHash, a.Balance,
		a.DailyLimit, a.DailyWithdrawn, a.LastReset,
		a.Preferences.FastCashAmount, a.Preferences.ReceiptEnabled, a.Preferences.Language,
		a.Number,
	)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", a.Number)
	}
	return nil
}

// Exists reports whether an account number is taken.
func (r *AccountRepo) Exists(ctx context.Context, number string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM accounts WHERE number = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, number).Scan(&exists); err != nil {
		return false, fmt.Errorf("check account exists: %w", err)
	}
	return exists, nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	a := &domain.Account{}
	err := row.Scan(
		&a.Number, &a.HolderName, &a.PINHash, &a.Type, &a.Balance,
		&a.DailyLimit, &a.DailyWithdrawn, &a.LastReset,
		&a.Preferences.FastCashAmount, &a.Preferences.ReceiptEnabled, &a.Preferences.Language,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}
