package ports

import (
	"context"
	"time"

	"account-ledger/internal/core/domain"
)

// Clock supplies the current time. Injected so expiry, lockout, and
// daily-reset comparisons are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// PINHasher hashes and verifies PINs. Verification is constant-time;
// stored digests are never compared directly.
type PINHasher interface {
	Hash(pin string) (string, error)
	Verify(pin string, hash string) (bool, error)
}

// IDGenerator allocates identifiers. Injected so tests can supply
// deterministic sequences and uniqueness can be asserted.
type IDGenerator interface {
	// AccountNumber returns a 6-digit candidate account number.
	AccountNumber() (string, error)
	// TransactionID returns a 12-character uppercase alphanumeric id.
	TransactionID() (string, error)
	// SessionToken returns an unguessable opaque token.
	SessionToken() (string, error)
}

// --- Service Ports (Business Logic) ---

// AccountService is the account registry: creation and lookup.
type AccountService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.Account, error)
	Lookup(ctx context.Context, accountNumber string) (*domain.Account, error)
}

// RegisterRequest holds validated input for account registration.
// InitialDeposit is in cents.
type RegisterRequest struct {
	Name           string
	PIN            string
	InitialDeposit int64
}

// AuthService is the authentication gate: PIN verification with the
// failed-attempt/lockout state machine, and session lifecycle entry points.
type AuthService interface {
	Login(ctx context.Context, accountNumber, pin string) (*LoginResult, error)
	// Logout revokes the session; unknown tokens are a no-op.
	Logout(ctx context.Context, token string) error
}

// LoginResult carries the issued token and the account it is bound to.
type LoginResult struct {
	Token   string
	Account *domain.Account
}

// SessionService manages session tokens with a sliding expiry window.
type SessionService interface {
	Issue(ctx context.Context, accountNumber string) (*domain.Session, error)
	// Resolve maps a token to its account number and, as a side effect,
	// extends the expiry to now + SessionTTL. Called exactly once per
	// authenticated operation.
	Resolve(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

// LedgerService executes balance-affecting operations and account
// self-service, enforcing the daily-limit and balance invariants.
type LedgerService interface {
	Deposit(ctx context.Context, accountNumber string, amount int64, note string) (*domain.Transaction, error)
	Withdraw(ctx context.Context, accountNumber string, amount int64, note string) (*domain.Transaction, error)
	Transfer(ctx context.Context, fromAccount, toAccount string, amount int64, note string) (*domain.Transaction, error)
	FastCash(ctx context.Context, accountNumber string) (*domain.Transaction, error)

	ChangePIN(ctx context.Context, accountNumber, currentPIN, newPIN string) error
	UpdatePreferences(ctx context.Context, accountNumber string, patch PreferencesPatch) (*domain.Preferences, error)

	GetBalance(ctx context.Context, accountNumber string) (*BalanceSummary, error)
	GetAccountInfo(ctx context.Context, accountNumber string) (*domain.Account, error)
	ListTransactions(ctx context.Context, accountNumber string, limit int) ([]domain.Transaction, error)
}

// PreferencesPatch is a partial preferences update; nil fields keep their
// prior values.
type PreferencesPatch struct {
	FastCashAmount *int64
	ReceiptEnabled *bool
	Language       *string
}

// BalanceSummary is the balance view returned to authenticated callers,
// computed after the lazy daily-reset rule.
type BalanceSummary struct {
	Balance        int64
	DailyLimit     int64
	DailyRemaining int64
	AccountType    domain.AccountType
}
