package service

import (
	"context"
	"fmt"

	"account-ledger/internal/core/domain"
	"account-ledger/internal/core/ports"
	"account-ledger/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// LedgerServiceImpl implements ports.LedgerService with pessimistic
// locking: every balance mutation locks the account row, re-checks
// invariants under the lock, and commits the mutation together with its
// ledger entry.
type LedgerServiceImpl struct {
	accountRepo ports.AccountRepository
	txRepo      ports.TransactionRepository
	transactor  ports.DBTransactor
	hasher      ports.PINHasher
	idGen       ports.IDGenerator
	clock       ports.Clock
	log         zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	accountRepo ports.AccountRepository,
	txRepo ports.TransactionRepository,
	transactor ports.DBTransactor,
	hasher ports.PINHasher,
	idGen ports.IDGenerator,
	clock ports.Clock,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		accountRepo: accountRepo,
		txRepo:      txRepo,
		transactor:  transactor,
		hasher:      hasher,
		idGen:       idGen,
		clock:       clock,
		log:         log,
	}
}

// Deposit credits the account.
func (s *LedgerServiceImpl) Deposit(ctx context.Context, accountNumber string, amount int64, note string) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, apperror.Validation("Amount must be positive")
	}
	if amount > domain.MaxDepositPerTx {
		return nil, apperror.Validation("Deposit exceeds the per-transaction maximum")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	account, err := s.lockAccount(ctx, dbTx, accountNumber)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	account.ApplyDailyReset(now)
	account.Balance += amount

	txn, err := s.persistMutation(ctx, dbTx, account, &domain.Transaction{
		Kind:          domain.TransactionKindDeposit,
		Amount:        amount,
		BalanceAfter:  account.Balance,
		AccountNumber: account.Number,
		Note:          note,
		CreatedAt:     now,
	})
	if err != nil {
		return nil, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("tx_id", txn.ID).
		Str("account", account.Number).
		Int64("amount", amount).
		Msg("deposit completed")

	return txn, nil
}

// Withdraw debits the account. The daily allowance is checked before the
// balance; both checks run under the row lock after the lazy daily reset.
func (s *LedgerServiceImpl) Withdraw(ctx context.Context, accountNumber string, amount int64, note string) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, apperror.Validation("Amount must be positive")
	}
	if amount > domain.MaxWithdrawalPerTx {
		return nil, apperror.Validation("Withdrawal exceeds the per-transaction maximum")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	account, err := s.lockAccount(ctx, dbTx, accountNumber)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	account.ApplyDailyReset(now)

	if amount > account.DailyRemaining() {
		return nil, apperror.ErrDailyLimitExceeded(account.DailyRemaining())
	}
	if account.Balance < amount {
		return nil, apperror.ErrInsufficientFunds()
	}

	account.Balance -= amount
	account.DailyWithdrawn += amount

	txn, err := s.persistMutation(ctx, dbTx, account, &domain.Transaction{
		Kind:          domain.TransactionKindWithdrawal,
		Amount:        amount,
		BalanceAfter:  account.Balance,
		AccountNumber: account.Number,
		Note:          note,
		CreatedAt:     now,
	})
	if err != nil {
		return nil, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("tx_id", txn.ID).
		Str("account", account.Number).
		Int64("amount", amount).
		Msg("withdrawal completed")

	return txn, nil
}

// Transfer moves funds between two accounts atomically. Rows are locked in
// ascending account-number order so two opposite transfers cannot deadlock.
// Transfers do not consume the sender's daily withdrawal allowance.
func (s *LedgerServiceImpl) Transfer(ctx context.Context, fromAccount, toAccount string, amount int64, note string) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, apperror.Validation("Amount must be positive")
	}
	if amount > domain.MaxWithdrawalPerTx {
		return nil, apperror.Validation("Transfer exceeds the per-transaction maximum")
	}
	if fromAccount == toAccount {
		return nil, apperror.Validation("Cannot transfer to the same account")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	first, second := fromAccount, toAccount
	if second < first {
		first, second = second, first
	}

	locked := make(map[string]*domain.Account, 2)
	for _, number := range []string{first, second} {
		account, err := s.accountRepo.GetForUpdate(ctx, dbTx, number)
		if err != nil {
			return nil, apperror.ErrStorageFailure(fmt.Errorf("lock account: %w", err))
		}
		locked[number] = account
	}

	sender := locked[fromAccount]
	if sender == nil {
		return nil, apperror.ErrAccountNotFound()
	}
	recipient := locked[toAccount]
	if recipient == nil {
		return nil, apperror.ErrRecipientNotFound()
	}

	now := s.clock.Now()
	sender.ApplyDailyReset(now)
	recipient.ApplyDailyReset(now)

	if sender.Balance < amount {
		return nil, apperror.ErrInsufficientFunds()
	}

	sender.Balance -= amount
	recipient.Balance += amount

	if err := s.accountRepo.Update(ctx, dbTx, sender); err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("update sender: %w", err))
	}
	if err := s.accountRepo.Update(ctx, dbTx, recipient); err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("update recipient: %w", err))
	}

	txnID, err := s.idGen.TransactionID()
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate transaction id: %w", err))
	}
	txn := &domain.Transaction{
		ID:           txnID,
		Kind:         domain.TransactionKindTransfer,
		Amount:       amount,
		BalanceAfter: sender.Balance,
		FromAccount:  sender.Number,
		ToAccount:    recipient.Number,
		Note:         note,
		CreatedAt:    now,
	}
	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("create transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("tx_id", txn.ID).
		Str("from", sender.Number).
		Str("to", recipient.Number).
		Int64("amount", amount).
		Msg("transfer completed")

	return txn, nil
}

// FastCash withdraws the account's preset amount. Unlike Withdraw, the
// balance is checked before the daily allowance, and there is no
// per-transaction cap on the preset.
func (s *LedgerServiceImpl) FastCash(ctx context.Context, accountNumber string) (*domain.Transaction, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	account, err := s.lockAccount(ctx, dbTx, accountNumber)
	if err != nil {
		return nil, err
	}

	amount := account.Preferences.FastCashAmount

	now := s.clock.Now()
	account.ApplyDailyReset(now)

	if account.Balance < amount {
		return nil, apperror.ErrInsufficientFunds()
	}
	if amount > account.DailyRemaining() {
		return nil, apperror.ErrDailyLimitExceeded(account.DailyRemaining())
	}

	account.Balance -= amount
	account.DailyWithdrawn += amount

	txn, err := s.persistMutation(ctx, dbTx, account, &domain.Transaction{
		Kind:          domain.TransactionKindFastCash,
		Amount:        amount,
		BalanceAfter:  account.Balance,
		AccountNumber: account.Number,
		Note:          "Fast cash",
		CreatedAt:     now,
	})
	if err != nil {
		return nil, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("tx_id", txn.ID).
		Str("account", account.Number).
		Int64("amount", amount).
		Msg("fast cash completed")

	return txn, nil
}

// ChangePIN rotates the PIN after verifying the current one. A wrong
// current PIN here does not count toward the login lockout.
func (s *LedgerServiceImpl) ChangePIN(ctx context.Context, accountNumber, currentPIN, newPIN string) error {
	if !isValidPIN(newPIN) {
		return apperror.Validation("PIN must be exactly 4 digits")
	}
	if newPIN == currentPIN {
		return apperror.Validation("New PIN must differ from the current PIN")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.ErrStorageFailure(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	account, err := s.lockAccount(ctx, dbTx, accountNumber)
	if err != nil {
		return err
	}

	valid, err := s.hasher.Verify(currentPIN, account.PINHash)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("verify pin: %w", err))
	}
	if !valid {
		return apperror.ErrPINIncorrect()
	}

	newHash, err := s.hasher.Hash(newPIN)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("hash pin: %w", err))
	}
	account.PINHash = newHash

	if err := s.accountRepo.Update(ctx, dbTx, account); err != nil {
		return apperror.ErrStorageFailure(fmt.Errorf("update account: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return apperror.ErrStorageFailure(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().Str("account", account.Number).Msg("PIN changed")
	return nil
}

// UpdatePreferences applies a partial update; nil patch fields keep their
// prior values.
func (s *LedgerServiceImpl) UpdatePreferences(ctx context.Context, accountNumber string, patch ports.PreferencesPatch) (*domain.Preferences, error) {
	if patch.FastCashAmount != nil {
		if *patch.FastCashAmount <= 0 {
			return nil, apperror.Validation("Fast cash amount must be positive")
		}
		if *patch.FastCashAmount > domain.MaxWithdrawalPerTx {
			return nil, apperror.Validation("Fast cash amount exceeds the per-transaction maximum")
		}
	}
	if patch.Language != nil && *patch.Language == "" {
		return nil, apperror.Validation("Language cannot be empty")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	account, err := s.lockAccount(ctx, dbTx, accountNumber)
	if err != nil {
		return nil, err
	}

	if patch.FastCashAmount != nil {
		account.Preferences.FastCashAmount = *patch.FastCashAmount
	}
	if patch.ReceiptEnabled != nil {
		account.Preferences.ReceiptEnabled = *patch.ReceiptEnabled
	}
	if patch.Language != nil {
		account.Preferences.Language = *patch.Language
	}

	if err := s.accountRepo.Update(ctx, dbTx, account); err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("update account: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("commit tx: %w", err))
	}

	prefs := account.Preferences
	return &prefs, nil
}

// GetBalance returns the balance view after the lazy daily-reset rule.
// The reset is applied to the returned view only; the counter itself is
// persisted on the next locked mutation.
func (s *LedgerServiceImpl) GetBalance(ctx context.Context, accountNumber string) (*ports.BalanceSummary, error) {
	account, err := s.getAccountView(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	return &ports.BalanceSummary{
		Balance:        account.Balance,
		DailyLimit:     account.DailyLimit,
		DailyRemaining: account.DailyRemaining(),
		AccountType:    account.Type,
	}, nil
}

// GetAccountInfo returns the account with the daily-reset view applied.
func (s *LedgerServiceImpl) GetAccountInfo(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return s.getAccountView(ctx, accountNumber)
}

// ListTransactions returns the account's history, newest first.
func (s *LedgerServiceImpl) ListTransactions(ctx context.Context, accountNumber string, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	exists, err := s.accountRepo.Exists(ctx, accountNumber)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("check account: %w", err))
	}
	if !exists {
		return nil, apperror.ErrAccountNotFound()
	}

	txns, err := s.txRepo.ListForAccount(ctx, accountNumber, limit)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("list transactions: %w", err))
	}
	return txns, nil
}

// lockAccount fetches the row under FOR UPDATE, translating a miss into
// the not-found business error.
func (s *LedgerServiceImpl) lockAccount(ctx context.Context, dbTx pgx.Tx, accountNumber string) (*domain.Account, error) {
	account, err := s.accountRepo.GetForUpdate(ctx, dbTx, accountNumber)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("lock account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrAccountNotFound()
	}
	return account, nil
}

// persistMutation assigns the transaction id and writes the account row
// and ledger entry inside the open storage transaction.
func (s *LedgerServiceImpl) persistMutation(ctx context.Context, dbTx pgx.Tx, account *domain.Account, txn *domain.Transaction) (*domain.Transaction, error) {
	txnID, err := s.idGen.TransactionID()
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate transaction id: %w", err))
	}
	txn.ID = txnID

	if err := s.accountRepo.Update(ctx, dbTx, account); err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("update account: %w", err))
	}
	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("create transaction: %w", err))
	}
	return txn, nil
}

// getAccountView fetches the account without a lock and applies the
// daily reset to the in-memory copy.
func (s *LedgerServiceImpl) getAccountView(ctx context.Context, accountNumber string) (*domain.Account, error) {
	account, err := s.accountRepo.GetByNumber(ctx, accountNumber)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("get account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrAccountNotFound()
	}
	account.ApplyDailyReset(s.clock.Now())
	return account, nil
}
