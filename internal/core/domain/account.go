package domain

import (
	"time"
)

// AccountType represents the product type of an account.
type AccountType string

const (
	AccountTypeSavings AccountType = "Savings"
)

// Fixed ledger policy. These are institution-wide constants, not configuration.
// All amounts are int64 cents.
const (
	// MaxWithdrawalPerTx caps a single withdrawal or transfer ($10,000).
	MaxWithdrawalPerTx int64 = 10_000_00
	// MaxDepositPerTx caps a single deposit ($50,000).
	MaxDepositPerTx int64 = 50_000_00
	// DefaultDailyLimit is the daily withdrawal allowance for new accounts ($5,000).
	DefaultDailyLimit int64 = 5_000_00
	// DefaultFastCashAmount is the fast-cash preset for new accounts ($100).
	DefaultFastCashAmount int64 = 100_00
)

// Auth policy: 3 consecutive PIN failures lock the account for 30 minutes.
const (
	MaxFailedAttempts = 3
	LockoutWindow     = 30 * time.Minute
)

// Preferences holds per-account ATM preferences.
type Preferences struct {
	FastCashAmount int64  `json:"fast_cash_amount"`
	ReceiptEnabled bool   `json:"receipt_enabled"`
	Language       string `json:"language"`
}

// DefaultPreferences returns the preferences assigned at registration.
func DefaultPreferences() Preferences {
	return Preferences{
		FastCashAmount: DefaultFastCashAmount,
		ReceiptEnabled: true,
		Language:       "en",
	}
}

// Account is a ledger account. Number is institution-assigned and immutable;
// Balance and the daily-withdrawal counters are only ever mutated under a
// row lock inside a storage transaction.
type Account struct {
	Number         string      `json:"number"`
	HolderName     string      `json:"name"`
	PINHash        string      `json:"-"` // Argon2id digest, never exposed
	Type           AccountType `json:"type"`
	Balance        int64       `json:"balance"`
	DailyLimit     int64       `json:"daily_limit"`
	DailyWithdrawn int64       `json:"daily_withdrawn"`
	LastReset      time.Time   `json:"last_reset"`
	Preferences    Preferences `json:"preferences"`
	CreatedAt      time.Time   `json:"created_at"`
}

// DailyRemaining returns the withdrawal allowance left today.
func (a *Account) DailyRemaining() int64 {
	remaining := a.DailyLimit - a.DailyWithdrawn
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ApplyDailyReset zeroes the daily-withdrawn counter on the first access
// after a calendar-day transition. Returns true if the counter was reset;
// callers that hold the account under a row lock persist the change.
func (a *Account) ApplyDailyReset(now time.Time) bool {
	ny, nm, nd := now.Date()
	ly, lm, ld := a.LastReset.Date()
	if ny > ly || (ny == ly && (nm > lm || (nm == lm && nd > ld))) {
		a.DailyWithdrawn = 0
		a.LastReset = now
		return true
	}
	return false
}
