package repository

import (
	"database/sql"
	"log/slog"

	"gringotts-bank/internal/domain"
	"gringotts-bank/internal/errors"
)

// Store is the Postgres-backed unit of work. The zero executor is the raw
// connection pool; WithTransaction derives a Store bound to a single
// sql.Tx so every repository call inside the callback shares it.
type Store struct {
	executor SQLExecutor
	db       *sql.DB
	logger   *slog.Logger
}

var _ domain.Store = (*Store)(nil)

// NewStore creates a Store over the given connection pool.
func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	return &Store{
		executor: db,
		db:       db,
		logger:   logger,
	}
}

// Account returns an AccountRepository using the current executor.
func (s *Store) Account() domain.AccountRepository {
	return NewAccountRepository(s.executor, s.logger)
}

// Transaction returns a TransactionRepository using the current executor.
func (s *Store) Transaction() domain.TransactionRepository {
	return NewTransactionRepository(s.executor, s.logger)
}

// WithTransaction runs fn inside a database transaction. The balance update
// and its audit rows commit as one durable unit; on error or panic the
// transaction is rolled back and no partial state is observable.
func (s *Store) WithTransaction(fn func(domain.Store) error) error {
	if s.db == nil {
		return errors.ErrCannotBeginTransaction
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errors.NewAppError(errors.StoreUnavailable, "failed to begin transaction").WithDetails(err.Error())
	}

	txStore := &Store{
		executor: tx,
		logger:   s.logger,
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(txStore); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
