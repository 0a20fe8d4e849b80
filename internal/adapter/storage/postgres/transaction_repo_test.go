package postgres

import (
	"context"
	"testing"
	"time"

	"account-ledger/internal/core/domain"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transactionColumns() []string {
	return []string{"id", "kind", "amount", "balance_after", "account_number", "from_account", "to_account", "note", "created_at"}
}

func TestTransactionRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	now := time.Now().UTC().Truncate(time.Microsecond)
	txn := &domain.Transaction{
		ID:            "TXABCDEF0001",
		Kind:          domain.TransactionKindWithdrawal,
		Amount:        30_00,
		BalanceAfter:  70_00,
		AccountNumber: "111111",
		Note:          "groceries",
		CreatedAt:     now,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(txn.ID, txn.Kind, txn.Amount, txn.BalanceAfter,
			txn.AccountNumber, txn.FromAccount, txn.ToAccount, txn.Note, txn.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, txn)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ListForAccount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	now := time.Now().UTC().Truncate(time.Microsecond)

	rows := pgxmock.NewRows(transactionColumns()).
		AddRow("TXABCDEF0002", domain.TransactionKindTransfer, int64(50_00), int64(20_00),
			"", "111111", "222222", "rent", now).
		AddRow("TXABCDEF0001", domain.TransactionKindDeposit, int64(100_00), int64(100_00),
			"111111", "", "", "Initial deposit", now.Add(-time.Hour))

	mock.ExpectQuery("SELECT .+ FROM transactions").
		WithArgs("111111", 10).
		WillReturnRows(rows)

	txns, err := repo.ListForAccount(context.Background(), "111111", 10)
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.Equal(t, domain.TransactionKindTransfer, txns[0].Kind)
	assert.Equal(t, "111111", txns[0].FromAccount)
	assert.Equal(t, "222222", txns[0].ToAccount)
	assert.Equal(t, "Initial deposit", txns[1].Note)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ListForAccount_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM transactions").
		WithArgs("999999", 10).
		WillReturnRows(pgxmock.NewRows(transactionColumns()))

	txns, err := repo.ListForAccount(context.Background(), "999999", 10)
	require.NoError(t, err)
	assert.Empty(t, txns)
	assert.NoError(t, mock.ExpectationsWereMet())
}
