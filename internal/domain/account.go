package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds a monetary balance. Balances are never negative and are
// mutated only by the transaction service, inside a unit of work.
type Account struct {
	ID          int64           `json:"id"`
	AccountType string          `json:"accountType"`
	Balance     decimal.Decimal `json:"balance"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type AccountRepository interface {
	CreateAccount(account *Account) error
	GetAccount(id int64) (*Account, error)
	// GetAccountForUpdate locks the account row for the duration of the
	// enclosing unit of work, so the read-modify-write on the balance is
	// linearizable per account.
	GetAccountForUpdate(id int64) (*Account, error)
	ListAccounts() ([]Account, error)
	UpdateAccountBalance(id int64, newBalance decimal.Decimal) error
}
