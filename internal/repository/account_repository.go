package repository

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"gringotts-bank/internal/domain"
	"gringotts-bank/internal/errors"
)

type accountRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewAccountRepository(db SQLExecutor, logger *slog.Logger) domain.AccountRepository {
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

func (r *accountRepository) CreateAccount(account *domain.Account) error {
	query := `
		INSERT INTO accounts (account_type, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	now := time.Now().UTC()
	err := r.db.QueryRow(query, account.AccountType, account.Balance.String(), now, now).Scan(&account.ID)
	if err != nil {
		r.logger.Error("Failed to create account", "account_type", account.AccountType, "error", err)
		return errors.NewAppError(errors.InternalError, "failed to create account").WithDetails(err.Error())
	}

	account.CreatedAt = now
	account.UpdatedAt = now
	r.logger.Info("Account created", "account_id", account.ID, "account_type", account.AccountType)
	return nil
}

func (r *accountRepository) GetAccount(id int64) (*domain.Account, error) {
	query := `
		SELECT id, account_type, balance, created_at, updated_at
		FROM accounts WHERE id = $1
	`

	return r.scanAccount(query, id)
}

func (r *accountRepository) GetAccountForUpdate(id int64) (*domain.Account, error) {
	query := `
		SELECT id, account_type, balance, created_at, updated_at
		FROM accounts WHERE id = $1 FOR UPDATE
	`

	return r.scanAccount(query, id)
}

func (r *accountRepository) scanAccount(query string, id int64) (*domain.Account, error) {
	var account domain.Account
	var balanceStr string

	err := r.db.QueryRow(query, id).Scan(
		&account.ID,
		&account.AccountType,
		&balanceStr,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("Account not found", "account_id", id)
			return nil, errors.NewAppErrorf(errors.AccountNotFound, "Account with ID %d not found.", id)
		}
		r.logger.Error("Failed to get account", "account_id", id, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to get account").WithDetails(err.Error())
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		r.logger.Error("Failed to parse balance", "account_id", id, "balance_str", balanceStr, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to parse balance").WithDetails(err.Error())
	}

	account.Balance = balance
	return &account, nil
}

func (r *accountRepository) ListAccounts() ([]domain.Account, error) {
	query := `
		SELECT id, account_type, balance, created_at, updated_at
		FROM accounts ORDER BY id
	`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("Failed to list accounts", "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to list accounts").WithDetails(err.Error())
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var account domain.Account
		var balanceStr string

		if err := rows.Scan(&account.ID, &account.AccountType, &balanceStr, &account.CreatedAt, &account.UpdatedAt); err != nil {
			return nil, errors.NewAppError(errors.InternalError, "failed to scan account").WithDetails(err.Error())
		}

		balance, err := decimal.NewFromString(balanceStr)
		if err != nil {
			return nil, errors.NewAppError(errors.InternalError, "failed to parse balance").WithDetails(err.Error())
		}
		account.Balance = balance

		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewAppError(errors.InternalError, "failed to list accounts").WithDetails(err.Error())
	}

	return accounts, nil
}

func (r *accountRepository) UpdateAccountBalance(id int64, newBalance decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET balance = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.Exec(query, newBalance.String(), time.Now().UTC(), id)
	if err != nil {
		r.logger.Error("Failed to update account balance", "account_id", id, "error", err)
		return errors.NewAppError(errors.InternalError, "failed to update account balance").WithDetails(err.Error())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewAppError(errors.InternalError, "failed to get rows affected").WithDetails(err.Error())
	}

	if rowsAffected == 0 {
		r.logger.Warn("No account found to update", "account_id", id)
		return errors.NewAppErrorf(errors.AccountNotFound, "Account with ID %d not found.", id)
	}

	r.logger.Info("Account balance updated", "account_id", id, "new_balance", newBalance)
	return nil
}
