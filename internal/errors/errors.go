package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	InvalidInput               ErrorCode = "invalid_input"
	InvalidAmount              ErrorCode = "invalid_amount"
	AccountNotFound            ErrorCode = "account_not_found"
	SourceAccountNotFound      ErrorCode = "source_account_not_found"
	DestinationAccountNotFound ErrorCode = "destination_account_not_found"
	TransactionNotFound        ErrorCode = "transaction_not_found"
	UnsupportedTransactionType ErrorCode = "unsupported_transaction_type"
	InsufficientFunds          ErrorCode = "insufficient_funds"
	SameAccountTransfer        ErrorCode = "same_account_transfer"
	InternalError              ErrorCode = "internal_error"
	StoreUnavailable           ErrorCode = "store_unavailable"
)

// AppError is a business-rule failure carried as a value. It crosses the
// service boundary as a (result, error) pair, never as a panic, and the HTTP
// layer renders its message verbatim.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// HTTPStatus maps the error code to the response status. Business failures
// stay in the 4xx range; only infrastructure failures map to 5xx.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case AccountNotFound, SourceAccountNotFound, DestinationAccountNotFound, TransactionNotFound:
		return http.StatusNotFound
	case InsufficientFunds:
		return http.StatusUnprocessableEntity
	case InternalError:
		return http.StatusInternalServerError
	case StoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func NewAppErrorf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *AppError) WithDetails(details string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// IsCode reports whether err is an AppError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Predefined errors for common cases. Messages match the API contract and
// are returned to clients verbatim.
var (
	ErrInvalidTransactionAmount   = NewAppError(InvalidAmount, "Transaction amount must be greater than zero.")
	ErrInvalidTransferAmount      = NewAppError(InvalidAmount, "Transfer amount must be greater than zero.")
	ErrUnsupportedTransactionType = NewAppError(UnsupportedTransactionType, "Invalid transaction type. Use 'Deposit' or 'Withdrawal'.")
	ErrInsufficientFundsWithdraw  = NewAppError(InsufficientFunds, "Insufficient funds for withdrawal.")
	ErrInsufficientFundsTransfer  = NewAppError(InsufficientFunds, "Insufficient funds for transfer.")
	ErrSameAccountTransfer        = NewAppError(SameAccountTransfer, "Source and destination accounts must be different.")
	ErrCannotBeginTransaction     = NewAppError(InternalError, "cannot begin a transaction inside a transaction")
)
