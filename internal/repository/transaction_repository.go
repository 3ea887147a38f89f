package repository

import (
	"database/sql"
	"log/slog"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"gringotts-bank/internal/domain"
	"gringotts-bank/internal/errors"
)

type transactionRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewTransactionRepository(db SQLExecutor, logger *slog.Logger) domain.TransactionRepository {
	return &transactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *transactionRepository) CreateTransaction(tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (account_id, transaction_type, amount, balance, transaction_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRow(
		query,
		tx.AccountID,
		tx.TransactionType,
		tx.Amount.String(),
		tx.Balance.String(),
		tx.TransactionDate,
	).Scan(&tx.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23503" { // foreign_key_violation
				r.logger.Warn("Transaction references missing account", "account_id", tx.AccountID)
				return errors.NewAppErrorf(errors.AccountNotFound, "Account with ID %d not found.", tx.AccountID)
			}
		}
		r.logger.Error("Failed to create transaction",
			"account_id", tx.AccountID,
			"transaction_type", tx.TransactionType,
			"amount", tx.Amount,
			"error", err)
		return errors.NewAppError(errors.InternalError, "failed to create transaction").WithDetails(err.Error())
	}

	r.logger.Info("Transaction recorded",
		"transaction_id", tx.ID,
		"account_id", tx.AccountID,
		"transaction_type", tx.TransactionType)
	return nil
}

// recordColumns joins each transaction with the owning account's type so
// responses carry it without a second lookup.
const recordColumns = `
	t.id, t.account_id, a.account_type, t.transaction_type, t.amount, t.balance, t.transaction_date
	FROM transactions t
	JOIN accounts a ON a.id = t.account_id
`

func (r *transactionRepository) GetTransaction(id int64) (*domain.TransactionRecord, error) {
	query := `SELECT` + recordColumns + `WHERE t.id = $1`

	record, err := scanRecord(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("Transaction not found", "transaction_id", id)
			return nil, errors.NewAppErrorf(errors.TransactionNotFound, "Transaction with ID %d not found.", id)
		}
		r.logger.Error("Failed to get transaction", "transaction_id", id, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to get transaction").WithDetails(err.Error())
	}

	return record, nil
}

func (r *transactionRepository) ListTransactions() ([]domain.TransactionRecord, error) {
	query := `SELECT` + recordColumns + `ORDER BY t.id`

	return r.listRecords(query)
}

func (r *transactionRepository) ListTransactionsByAccount(accountID int64) ([]domain.TransactionRecord, error) {
	query := `SELECT` + recordColumns + `WHERE t.account_id = $1 ORDER BY t.transaction_date DESC, t.id DESC`

	return r.listRecords(query, accountID)
}

func (r *transactionRepository) listRecords(query string, args ...interface{}) ([]domain.TransactionRecord, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("Failed to list transactions", "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to list transactions").WithDetails(err.Error())
	}
	defer rows.Close()

	var records []domain.TransactionRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, errors.NewAppError(errors.InternalError, "failed to scan transaction").WithDetails(err.Error())
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewAppError(errors.InternalError, "failed to list transactions").WithDetails(err.Error())
	}

	return records, nil
}

// rowScanner covers both sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*domain.TransactionRecord, error) {
	var record domain.TransactionRecord
	var amountStr, balanceStr string

	err := row.Scan(
		&record.ID,
		&record.AccountID,
		&record.AccountType,
		&record.TransactionType,
		&amountStr,
		&balanceStr,
		&record.TransactionDate,
	)
	if err != nil {
		return nil, err
	}

	if record.Amount, err = decimal.NewFromString(amountStr); err != nil {
		return nil, err
	}
	if record.Balance, err = decimal.NewFromString(balanceStr); err != nil {
		return nil, err
	}

	return &record, nil
}
