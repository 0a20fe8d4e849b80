package service

import (
	"context"
	"fmt"
	"strings"

	"account-ledger/internal/core/domain"
	"account-ledger/internal/core/ports"
	"account-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// maxNumberAttempts bounds the retry loop for account-number collisions.
// With 900k candidates the loop terminates long before the space fills.
const maxNumberAttempts = 10

// AccountServiceImpl implements ports.AccountService.
type AccountServiceImpl struct {
	accountRepo ports.AccountRepository
	txRepo      ports.TransactionRepository
	transactor  ports.DBTransactor
	hasher      ports.PINHasher
	idGen       ports.IDGenerator
	clock       ports.Clock
	log         zerolog.Logger
}

// NewAccountService creates a new AccountServiceImpl.
func NewAccountService(
	accountRepo ports.AccountRepository,
	txRepo ports.TransactionRepository,
	transactor ports.DBTransactor,
	hasher ports.PINHasher,
	idGen ports.IDGenerator,
	clock ports.Clock,
	log zerolog.Logger,
) *AccountServiceImpl {
	return &AccountServiceImpl{
		accountRepo: accountRepo,
		txRepo:      txRepo,
		transactor:  transactor,
		hasher:      hasher,
		idGen:       idGen,
		clock:       clock,
		log:         log,
	}
}

// Register creates a new account with an institution-assigned 6-digit number.
// A non-zero initial deposit is recorded as the account's first ledger entry;
// account row and ledger entry commit atomically.
func (s *AccountServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*domain.Account, error) {
	name := strings.TrimSpace(req.Name)
	if len(name) < 2 {
		return nil, apperror.Validation("Holder name must be at least 2 characters")
	}
	if !isValidPIN(req.PIN) {
		return nil, apperror.Validation("PIN must be exactly 4 digits")
	}
	if req.InitialDeposit < 0 {
		return nil, apperror.Validation("Initial deposit cannot be negative")
	}
	if req.InitialDeposit > domain.MaxDepositPerTx {
		return nil, apperror.Validation("Initial deposit exceeds the per-transaction maximum")
	}

	number, err := s.allocateNumber(ctx)
	if err != nil {
		return nil, err
	}

	pinHash, err := s.hasher.Hash(req.PIN)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash pin: %w", err))
	}

	now := s.clock.Now()
	account := &domain.Account{
		Number:         number,
		HolderName:     name,
		PINHash:        pinHash,
		Type:           domain.AccountTypeSavings,
		Balance:        req.InitialDeposit,
		DailyLimit:     domain.DefaultDailyLimit,
		DailyWithdrawn: 0,
		LastReset:      now,
		Preferences:    domain.DefaultPreferences(),
		CreatedAt:      now,
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.accountRepo.Create(ctx, dbTx, account); err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("create account: %w", err))
	}

	if req.InitialDeposit > 0 {
		txnID, err := s.idGen.TransactionID()
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("generate transaction id: %w", err))
		}
		txn := &domain.Transaction{
			ID:            txnID,
			Kind:          domain.TransactionKindDeposit,
			Amount:        req.InitialDeposit,
			BalanceAfter:  account.Balance,
			AccountNumber: account.Number,
			Note:          "Initial deposit",
			CreatedAt:     now,
		}
		if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
			return nil, apperror.ErrStorageFailure(fmt.Errorf("record initial deposit: %w", err))
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("account", account.Number).
		Int64("initial_deposit", req.InitialDeposit).
		Msg("account registered")

	return account, nil
}

// Lookup fetches an account by number.
func (s *AccountServiceImpl) Lookup(ctx context.Context, accountNumber string) (*domain.Account, error) {
	account, err := s.accountRepo.GetByNumber(ctx, accountNumber)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("get account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrAccountNotFound()
	}
	return account, nil
}

// allocateNumber draws candidate numbers until one is unused.
func (s *AccountServiceImpl) allocateNumber(ctx context.Context) (string, error) {
	for i := 0; i < maxNumberAttempts; i++ {
		candidate, err := s.idGen.AccountNumber()
		if err != nil {
			return "", apperror.InternalError(fmt.Errorf("generate account number: %w", err))
		}
		taken, err := s.accountRepo.Exists(ctx, candidate)
		if err != nil {
			return "", apperror.ErrStorageFailure(fmt.Errorf("check account number: %w", err))
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", apperror.InternalError(fmt.Errorf("exhausted %d account number attempts", maxNumberAttempts))
}

// isValidPIN reports whether pin is exactly 4 ASCII digits.
func isValidPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
