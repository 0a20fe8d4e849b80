package handler

import (
	"strconv"

	"account-ledger/internal/adapter/http/dto"
	"account-ledger/internal/adapter/http/middleware"
	"account-ledger/internal/core/ports"
	"account-ledger/pkg/apperror"
	"account-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// LedgerHandler handles authenticated account and money-movement endpoints.
// Every route it serves sits behind SessionAuth, which puts the resolved
// account number in the request context.
type LedgerHandler struct {
	ledgerSvc ports.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerSvc ports.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc}
}

func accountNumberFrom(c *gin.Context) (string, bool) {
	v, ok := c.Get(middleware.CtxAccountNumber)
	if !ok {
		response.Error(c, apperror.ErrSessionExpired())
		return "", false
	}
	return v.(string), true
}

// Deposit handles POST /api/v1/transactions/deposit.
func (h *LedgerHandler) Deposit(c *gin.Context) {
	accountNumber, ok := accountNumberFrom(c)
	if !ok {
		return
	}

	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	txn, err := h.ledgerSvc.Deposit(c.Request.Context(), accountNumber, req.Amount, req.Note)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// Withdraw handles POST /api/v1/transactions/withdraw.
func (h *LedgerHandler) Withdraw(c *gin.Context) {
	accountNumber, ok := accountNumberFrom(c)
	if !ok {
		return
	}

	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	txn, err := h.ledgerSvc.Withdraw(c.Request.Context(), accountNumber, req.Amount, req.Note)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// Transfer handles POST /api/v1/transactions/transfer.
func (h *LedgerHandler) Transfer(c *gin.Context) {
	accountNumber, ok := accountNumberFrom(c)
	if !ok {
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	txn, err := h.ledgerSvc.Transfer(c.Request.Context(), accountNumber, req.ToAccount, req.Amount, req.Note)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// FastCash handles POST /api/v1/transactions/fast-cash. No body: the
// amount comes from the account's stored preference.
func (h *LedgerHandler) FastCash(c *gin.Context) {
	accountNumber, ok := accountNumberFrom(c)
	if !ok {
		return
	}

	txn, err := h.ledgerSvc.FastCash(c.Request.Context(), accountNumber)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// GetMe handles GET /api/v1/accounts/me.
func (h *LedgerHandler) GetMe(c *gin.Context) {
	accountNumber, ok := accountNumberFrom(c)
	if !ok {
		return
	}

	account, err := h.ledgerSvc.GetAccountInfo(c.Request.Context(), accountNumber)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toAccountResponse(account))
}

// GetBalance handles GET /api/v1/accounts/me/balance.
func (h *LedgerHandler) GetBalance(c *gin.Context) {
	accountNumber, ok := accountNumberFrom(c)
	if !ok {
		return
	}

	summary, err := h.ledgerSvc.GetBalance(c.Request.Context(), accountNumber)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{
		Balance:        summary.Balance,
		DailyLimit:     summary.DailyLimit,
		DailyRemaining: summary.DailyRemaining,
		AccountType:    string(summary.AccountType),
	})
}

// ListTransactions handles GET /api/v1/accounts/me/transactions?limit=N.
func (h *LedgerHandler) ListTransactions(c *gin.Context) {
	accountNumber, ok := accountNumberFrom(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.Error(c, apperror.Validation("limit must be a positive integer"))
			return
		}
		limit = n
	}

	txns, err := h.ledgerSvc.ListTransactions(c.Request.Context(), accountNumber, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, toTransactionResponse(&txns[i]))
	}

	response.OK(c, dto.TransactionListResponse{Items: items, Count: len(items)})
}

// ChangePIN handles PUT /api/v1/accounts/me/pin.
func (h *LedgerHandler) ChangePIN(c *gin.Context) {
	accountNumber, ok := accountNumberFrom(c)
	if !ok {
		return
	}

	var req dto.ChangePINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	if err := h.ledgerSvc.ChangePIN(c.Request.Context(), accountNumber, req.CurrentPIN, req.NewPIN); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"message": "PIN updated"})
}

// UpdatePreferences handles PATCH /api/v1/accounts/me/preferences.
func (h *LedgerHandler) UpdatePreferences(c *gin.Context) {
	accountNumber, ok := accountNumberFrom(c)
	if !ok {
		return
	}

	var req dto.PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	prefs, err := h.ledgerSvc.UpdatePreferences(c.Request.Context(), accountNumber, ports.PreferencesPatch{
		FastCashAmount: req.FastCashAmount,
		ReceiptEnabled: req.ReceiptEnabled,
		Language:       req.Language,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.PreferencesResponse{
		FastCashAmount: prefs.FastCashAmount,
		ReceiptEnabled: prefs.ReceiptEnabled,
		Language:       prefs.Language,
	})
}
