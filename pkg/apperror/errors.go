package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Validation (VAL) ----

// Validation reports malformed or out-of-range caller input. Always raised
// before any mutation.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

// ---- Authentication (AUTH) ----

// ErrInvalidPIN is returned on a wrong PIN while login attempts remain.
func ErrInvalidPIN(attemptsRemaining int) *AppError {
	return New("AUTH_001",
		fmt.Sprintf("Invalid PIN. %d attempts remaining.", attemptsRemaining),
		http.StatusUnauthorized)
}

// ErrPINIncorrect is returned when a change-PIN request carries a wrong
// current PIN. It does not count toward the login lockout.
func ErrPINIncorrect() *AppError {
	return New("AUTH_001", "Current PIN incorrect", http.StatusUnauthorized)
}

// ErrAccountLocked is returned while the lockout window is open.
func ErrAccountLocked(minutesRemaining int) *AppError {
	return New("AUTH_002",
		fmt.Sprintf("Account locked. Try again in %d minutes.", minutesRemaining),
		http.StatusForbidden)
}

// ErrSessionExpired is returned for unknown or expired session tokens.
func ErrSessionExpired() *AppError {
	return New("AUTH_003", "Session expired", http.StatusUnauthorized)
}

// ---- Accounts (ACC) ----

func ErrAccountNotFound() *AppError {
	return New("ACC_001", "Account not found", http.StatusNotFound)
}

func ErrRecipientNotFound() *AppError {
	return New("ACC_002", "Recipient account not found", http.StatusNotFound)
}

// ---- Ledger business rules (PAY / LIM) ----

func ErrInsufficientFunds() *AppError {
	return New("PAY_001", "Insufficient funds", http.StatusPaymentRequired)
}

// ErrDailyLimitExceeded carries the remaining daily allowance in cents.
func ErrDailyLimitExceeded(remaining int64) *AppError {
	return New("LIM_001",
		fmt.Sprintf("Daily limit exceeded. Remaining: $%d.%02d", remaining/100, remaining%100),
		http.StatusUnprocessableEntity)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// ErrStorageFailure marks a persistence failure. It is surfaced distinctly
// from business-rule errors and never swallowed.
func ErrStorageFailure(err error) *AppError {
	return Wrap("SYS_001", "Internal storage error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
