package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccount_DailyRemaining(t *testing.T) {
	a := &Account{DailyLimit: 5_000_00, DailyWithdrawn: 4_500_00}
	assert.Equal(t, int64(500_00), a.DailyRemaining())

	a.DailyWithdrawn = 5_000_00
	assert.Equal(t, int64(0), a.DailyRemaining())
}

func TestAccount_ApplyDailyReset(t *testing.T) {
	lastReset := time.Date(2024, 3, 10, 23, 50, 0, 0, time.UTC)
	a := &Account{DailyLimit: 5_000_00, DailyWithdrawn: 4_000_00, LastReset: lastReset}

	// Same calendar day: no reset, even hours later.
	reset := a.ApplyDailyReset(time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC))
	assert.False(t, reset)
	assert.Equal(t, int64(4_000_00), a.DailyWithdrawn)

	// First access after midnight resets the counter.
	next := time.Date(2024, 3, 11, 0, 1, 0, 0, time.UTC)
	reset = a.ApplyDailyReset(next)
	assert.True(t, reset)
	assert.Equal(t, int64(0), a.DailyWithdrawn)
	assert.Equal(t, next, a.LastReset)

	// Second access on the new day does nothing.
	reset = a.ApplyDailyReset(next.Add(time.Hour))
	assert.False(t, reset)
}

func TestDefaultPreferences(t *testing.T) {
	p := DefaultPreferences()
	assert.Equal(t, DefaultFastCashAmount, p.FastCashAmount)
	assert.True(t, p.ReceiptEnabled)
	assert.Equal(t, "en", p.Language)
}

func TestTransaction_Involves(t *testing.T) {
	single := &Transaction{Kind: TransactionKindDeposit, AccountNumber: "111111"}
	assert.True(t, single.Involves("111111"))
	assert.False(t, single.Involves("222222"))

	transfer := &Transaction{Kind: TransactionKindTransfer, FromAccount: "111111", ToAccount: "222222"}
	assert.True(t, transfer.Involves("111111"))
	assert.True(t, transfer.Involves("222222"))
	assert.False(t, transfer.Involves("333333"))
}

func TestTransaction_DebitsDaily(t *testing.T) {
	assert.True(t, (&Transaction{Kind: TransactionKindWithdrawal}).DebitsDaily())
	assert.True(t, (&Transaction{Kind: TransactionKindFastCash}).DebitsDaily())
	assert.False(t, (&Transaction{Kind: TransactionKindDeposit}).DebitsDaily())
	assert.False(t, (&Transaction{Kind: TransactionKindTransfer}).DebitsDaily())
}

func TestSession_Usable(t *testing.T) {
	now := time.Now()
	s := &Session{Token: "tok", AccountNumber: "111111", CreatedAt: now, ExpiresAt: now.Add(SessionTTL)}

	assert.True(t, s.Usable(now))
	assert.True(t, s.Usable(now.Add(29*time.Minute)))
	assert.False(t, s.Usable(now.Add(SessionTTL)))
	assert.False(t, s.Usable(now.Add(31*time.Minute)))
}
