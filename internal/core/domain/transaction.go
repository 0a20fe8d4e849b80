package domain

import (
	"time"
)

// TransactionKind represents the kind of money movement.
type TransactionKind string

const (
	TransactionKindDeposit    TransactionKind = "deposit"
	TransactionKindWithdrawal TransactionKind = "withdrawal"
	TransactionKindTransfer   TransactionKind = "transfer"
	TransactionKindFastCash   TransactionKind = "fast_cash"
)

// Transaction is an immutable, append-only ledger record. Single-account
// movements set AccountNumber; transfers set FromAccount and ToAccount
// instead, and BalanceAfter is the sender's resulting balance.
type Transaction struct {
	ID            string          `json:"id"`
	Kind          TransactionKind `json:"type"`
	Amount        int64           `json:"amount"`
	BalanceAfter  int64           `json:"balance_after"`
	AccountNumber string          `json:"account_number,omitempty"`
	FromAccount   string          `json:"from_account,omitempty"`
	ToAccount     string          `json:"to_account,omitempty"`
	Note          string          `json:"note,omitempty"`
	CreatedAt     time.Time       `json:"timestamp"`
}

// Involves reports whether the given account participated in the
// transaction as sole participant, sender, or recipient.
func (t *Transaction) Involves(accountNumber string) bool {
	return t.AccountNumber == accountNumber ||
		t.FromAccount == accountNumber ||
		t.ToAccount == accountNumber
}

// DebitsDaily reports whether the transaction counts against the
// per-account daily withdrawal limit. Transfers do not.
func (t *Transaction) DebitsDaily() bool {
	return t.Kind == TransactionKindWithdrawal || t.Kind == TransactionKindFastCash
}
