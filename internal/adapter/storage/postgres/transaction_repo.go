package postgres

import (
	"context"
	"fmt"

	"account-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository. The table is
// append-only; there are no update or delete paths.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create appends a ledger entry within a transaction.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions
		(id, kind, amount, balance_after, account_number, from_account, to_account, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.Kind, t.Amount, t.BalanceAfter,
		t.AccountNumber, t.FromAccount, t.ToAccount, t.Note, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// ListForAccount returns entries involving the account as sole
// participant, sender, or recipient, newest first.
func (r *TransactionRepo) ListForAccount(ctx context.Context, accountNumber string, limit int) ([]domain.Transaction, error) {
	query := `SELECT id, kind, amount, balance_after, account_number, from_account, to_account, note, created_at
		FROM transactions
		WHERE account_number = $1 OR from_account = $1 OR to_account = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, accountNumber, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txns := make([]domain.Transaction, 0, limit)
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(
			&t.ID, &t.Kind, &t.Amount, &t.BalanceAfter,
			&t.AccountNumber, &t.FromAccount, &t.ToAccount, &t.Note, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txns, nil
}
