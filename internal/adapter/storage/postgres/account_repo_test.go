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

func newTestAccount(number string) *domain.Account {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Account{
		Number:         number,
		HolderName:     "Alice Smith",
		PINHash:        "$argon2id$v=19$m=65536,t=1,p=4$salt$hash",
		Type:           domain.AccountTypeSavings,
		Balance:        100_00,
		DailyLimit:     domain.DefaultDailyLimit,
		DailyWithdrawn: 0,
		LastReset:      now,
		Preferences:    domain.DefaultPreferences(),
		CreatedAt:      now,
	}
}

func accountRow(a *domain.Account) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"number", "holder_name", "pin_hash", "account_type", "balance",
		"daily_limit", "daily_withdrawn", "last_reset",
		"fast_cash_amount", "receipt_enabled", "language", "created_at",
	}).AddRow(
		a.Number, a.HolderName, a.PINHash, a.Type, a.Balance,
		a.DailyLimit, a.DailyWithdrawn, a.LastReset,
		a.Preferences.FastCashAmount, a.Preferences.ReceiptEnabled, a.Preferences.Language,
		a.CreatedAt,
	)
}

func TestAccountRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	a := newTestAccount("111111")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(a.Number, a.HolderName, a.PINHash, a.Type, a.Balance,
			a.DailyLimit, a.DailyWithdrawn, a.LastReset,
			a.Preferences.FastCashAmount, a.Preferences.ReceiptEnabled, a.Preferences.Language,
			a.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, a)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_GetByNumber(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	a := newTestAccount("111111")

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE number").
		WithArgs("111111").
		WillReturnRows(accountRow(a))

	result, err := repo.GetByNumber(context.Background(), "111111")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, a.Number, result.Number)
	assert.Equal(t, a.Balance, result.Balance)
	assert.Equal(t, a.Preferences, result.Preferences)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_GetByNumber_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)

	// Unknown numbers scan zero rows and surface as nil, nil.
	mock.ExpectQuery("SELECT .+ FROM accounts WHERE number").
		WithArgs("999999").
		WillReturnRows(pgxmock.NewRows([]string{"number"}))

	result, err := repo.GetByNumber(context.Background(), "999999")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_GetForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	a := newTestAccount("111111")

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM accounts WHERE number .+ FOR UPDATE").
		WithArgs("111111").
		WillReturnRows(accountRow(a))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	result, err := repo.GetForUpdate(context.Background(), tx, "111111")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, a.Number, result.Number)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_Update(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	a := newTestAccount("111111")
	a.Balance = 70_00
	a.DailyWithdrawn = 30_00

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts SET").
		WithArgs(a.HolderName, a.PINHash, a.Balance,
			a.DailyLimit, a.DailyWithdrawn, a.LastReset,
			a.Preferences.FastCashAmount, a.Preferences.ReceiptEnabled, a.Preferences.Language,
			a.Number).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Update(context.Background(), tx, a)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_Update_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	a := newTestAccount("999999")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts SET").
		WithArgs(a.HolderName, a.PINHash, a.Balance,
			a.DailyLimit, a.DailyWithdrawn, a.LastReset,
			a.Preferences.FastCashAmount, a.Preferences.ReceiptEnabled, a.Preferences.Language,
			a.Number).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Update(context.Background(), tx, a)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "account not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_Exists(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("111111").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), "111111")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
