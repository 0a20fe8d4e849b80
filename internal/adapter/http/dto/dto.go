package dto

// RegisterRequest is the request body for opening an account.
// initial_deposit is in cents.
type RegisterRequest struct {
	Name           string `json:"name" binding:"required,min=2,max=100"`
	PIN            string `json:"pin" binding:"required,pin"`
	InitialDeposit int64  `json:"initial_deposit" binding:"gte=0"`
}

// LoginRequest is the request body for PIN login. The PIN is only
// required here; a malformed PIN is verified (and counted) like any
// other wrong PIN.
type LoginRequest struct {
	AccountNumber string `json:"account_number" binding:"required,account_number"`
	PIN           string `json:"pin" binding:"required"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token   string          `json:"token"`
	Account AccountResponse `json:"account"`
}

// AccountResponse is the account view returned to its holder.
type AccountResponse struct {
	Number         string              `json:"number"`
	Name           string              `json:"name"`
	Type           string              `json:"type"`
	Balance        int64               `json:"balance"`
	DailyLimit     int64               `json:"daily_limit"`
	DailyRemaining int64               `json:"daily_remaining"`
	Preferences    PreferencesResponse `json:"preferences"`
	CreatedAt      string              `json:"created_at"`
}

// PreferencesResponse mirrors the stored ATM preferences.
type PreferencesResponse struct {
	FastCashAmount int64  `json:"fast_cash_amount"`
	ReceiptEnabled bool   `json:"receipt_enabled"`
	Language       string `json:"language"`
}

// AmountRequest is the request body for deposits and withdrawals.
type AmountRequest struct {
	Amount int64  `json:"amount" binding:"required,gt=0"`
	Note   string `json:"note" binding:"max=200"`
}

// TransferRequest is the request body for transfers.
type TransferRequest struct {
	ToAccount string `json:"to_account" binding:"required,account_number"`
	Amount    int64  `json:"amount" binding:"required,gt=0"`
	Note      string `json:"note" binding:"max=200"`
}

// ChangePINRequest is the request body for PIN rotation.
type ChangePINRequest struct {
	CurrentPIN string `json:"current_pin" binding:"required"`
	NewPIN     string `json:"new_pin" binding:"required,pin"`
}

// PreferencesRequest is a partial preferences update; absent fields keep
// their prior values.
type PreferencesRequest struct {
	FastCashAmount *int64  `json:"fast_cash_amount,omitempty"`
	ReceiptEnabled *bool   `json:"receipt_enabled,omitempty"`
	Language       *string `json:"language,omitempty"`
}

// TransactionResponse is one ledger entry.
type TransactionResponse struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Amount        int64  `json:"amount"`
	BalanceAfter  int64  `json:"balance_after"`
	AccountNumber string `json:"account_number,omitempty"`
	FromAccount   string `json:"from_account,omitempty"`
	ToAccount     string `json:"to_account,omitempty"`
	Note          string `json:"note,omitempty"`
	Timestamp     string `json:"timestamp"`
}

// BalanceResponse is the response for the balance query.
type BalanceResponse struct {
	Balance        int64  `json:"balance"`
	DailyLimit     int64  `json:"daily_limit"`
	DailyRemaining int64  `json:"daily_remaining"`
	AccountType    string `json:"account_type"`
}

// TransactionListResponse wraps the history listing.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Count int                   `json:"count"`
}
