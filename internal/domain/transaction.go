package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types as stored and returned by the API. Transfers produce a
// pair of rows, one per side.
const (
	TypeDeposit     = "Deposit"
	TypeWithdrawal  = "Withdrawal"
	TypeTransferOut = "Transfer Out"
	TypeTransferIn  = "Transfer In"
)

// Transaction is an immutable audit record of a single balance-affecting
// event. Balance is a snapshot of the account balance immediately after the
// event was applied, not a live reference.
type Transaction struct {
	ID              int64           `json:"id"`
	AccountID       int64           `json:"accountId"`
	TransactionType string          `json:"transactionType"`
	Amount          decimal.Decimal `json:"amount"`
	Balance         decimal.Decimal `json:"balance"`
	TransactionDate time.Time       `json:"transactionDate"`
}

// TransactionRecord is a Transaction denormalized with the owning account's
// type. The account type is joined at read time rather than stored on the
// row, so it can never go stale.
type TransactionRecord struct {
	Transaction
	AccountType string `json:"accountType"`
}

type TransactionRepository interface {
	// CreateTransaction inserts the row and assigns tx.ID.
	CreateTransaction(tx *Transaction) error
	GetTransaction(id int64) (*TransactionRecord, error)
	// ListTransactions returns every record in insertion order.
	ListTransactions() ([]TransactionRecord, error)
	// ListTransactionsByAccount returns the account's records newest first.
	ListTransactionsByAccount(accountID int64) ([]TransactionRecord, error)
}

// Store bundles the repositories behind a single unit of work. Callbacks
// passed to WithTransaction see a Store whose repositories share one
// transaction; if the callback returns an error nothing it did is visible.
type Store interface {
	Account() AccountRepository
	Transaction() TransactionRepository
	WithTransaction(fn func(Store) error) error
}
