package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{InvalidInput, http.StatusBadRequest},
		{InvalidAmount, http.StatusBadRequest},
		{UnsupportedTransactionType, http.StatusBadRequest},
		{SameAccountTransfer, http.StatusBadRequest},
		{AccountNotFound, http.StatusNotFound},
		{SourceAccountNotFound, http.StatusNotFound},
		{DestinationAccountNotFound, http.StatusNotFound},
		{TransactionNotFound, http.StatusNotFound},
		{InsufficientFunds, http.StatusUnprocessableEntity},
		{InternalError, http.StatusInternalServerError},
		{StoreUnavailable, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NewAppError(tc.code, "msg").HTTPStatus(), "code %s", tc.code)
	}
}

func TestErrorString(t *testing.T) {
	err := NewAppErrorf(AccountNotFound, "Account with ID %d not found.", 7)
	assert.EqualError(t, err, "account_not_found: Account with ID 7 not found.")
}

func TestIsCode(t *testing.T) {
	err := NewAppError(InsufficientFunds, "Insufficient funds for withdrawal.")

	assert.True(t, IsCode(err, InsufficientFunds))
	assert.False(t, IsCode(err, AccountNotFound))
	assert.False(t, IsCode(nil, InsufficientFunds))
	assert.False(t, IsCode(fmt.Errorf("plain"), InsufficientFunds))

	// wrapped AppErrors are still recognized
	wrapped := fmt.Errorf("transfer failed: %w", err)
	assert.True(t, IsCode(wrapped, InsufficientFunds))
}

func TestWithDetailsDoesNotMutate(t *testing.T) {
	detailed := ErrInvalidTransactionAmount.WithDetails("raw input: -3")

	assert.Equal(t, "raw input: -3", detailed.Details)
	assert.Empty(t, ErrInvalidTransactionAmount.Details)
	assert.Equal(t, ErrInvalidTransactionAmount.Code, detailed.Code)
	assert.Equal(t, ErrInvalidTransactionAmount.Message, detailed.Message)
}
