package handler

import (
	"account-ledger/internal/adapter/http/dto"
	"account-ledger/internal/core/domain"
	"account-ledger/internal/core/ports"
	"account-ledger/pkg/apperror"
	"account-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// AccountHandler handles account registration.
type AccountHandler struct {
	accountSvc ports.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountSvc ports.AccountService) *AccountHandler {
	return &AccountHandler{accountSvc: accountSvc}
}

// Register handles POST /api/v1/accounts.
func (h *AccountHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	account, err := h.accountSvc.Register(c.Request.Context(), ports.RegisterRequest{
		Name:           req.Name,
		PIN:            req.PIN,
		InitialDeposit: req.InitialDeposit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toAccountResponse(account))
}

// toAccountResponse converts domain.Account to DTO. The view applies the
// daily-reset rule upstream; the DTO is a plain projection.
func toAccountResponse(a *domain.Account) dto.AccountResponse {
	return dto.AccountResponse{
		Number:         a.Number,
		Name:           a.HolderName,
		Type:           string(a.Type),
		Balance:        a.Balance,
		DailyLimit:     a.DailyLimit,
		DailyRemaining: a.DailyRemaining(),
		Preferences: dto.PreferencesResponse{
			FastCashAmount: a.Preferences.FastCashAmount,
			ReceiptEnabled: a.Preferences.ReceiptEnabled,
			Language:       a.Preferences.Language,
		},
		CreatedAt: a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// toTransactionResponse converts domain.Transaction to DTO.
func toTransactionResponse(t *domain.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:            t.ID,
		Type:          string(t.Kind),
		Amount:        t.Amount,
		BalanceAfter:  t.BalanceAfter,
		AccountNumber: t.AccountNumber,
		FromAccount:   t.FromAccount,
		ToAccount:     t.ToAccount,
		Note:          t.Note,
		Timestamp:     t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
