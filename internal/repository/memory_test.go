package repository

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gringotts-bank/internal/domain"
	"gringotts-bank/internal/errors"
)

func seedMemoryStore(t *testing.T) *MemoryStore {
	t.Helper()

	store := NewMemoryStore()
	account := &domain.Account{AccountType: "Savings", Balance: decimal.RequireFromString("100")}
	require.NoError(t, store.Account().CreateAccount(account))
	require.Equal(t, int64(1), account.ID)
	return store
}

func TestMemoryStore_WithTransactionRollsBackOnError(t *testing.T) {
	store := seedMemoryStore(t)

	failure := errors.NewAppError(errors.InternalError, "boom")
	err := store.WithTransaction(func(tx domain.Store) error {
		if err := tx.Account().UpdateAccountBalance(1, decimal.RequireFromString("10")); err != nil {
			return err
		}
		record := &domain.Transaction{
			AccountID:       1,
			TransactionType: domain.TypeWithdrawal,
			Amount:          decimal.RequireFromString("90"),
			Balance:         decimal.RequireFromString("10"),
			TransactionDate: time.Now().UTC(),
		}
		if err := tx.Transaction().CreateTransaction(record); err != nil {
			return err
		}
		return failure
	})
	require.ErrorIs(t, err, failure)

	// every write inside the failed unit of work is gone
	account, getErr := store.Account().GetAccount(1)
	require.NoError(t, getErr)
	assert.True(t, decimal.RequireFromString("100").Equal(account.Balance))

	records, listErr := store.Transaction().ListTransactions()
	require.NoError(t, listErr)
	assert.Empty(t, records)
}

func TestMemoryStore_WithTransactionCommits(t *testing.T) {
	store := seedMemoryStore(t)

	err := store.WithTransaction(func(tx domain.Store) error {
		return tx.Account().UpdateAccountBalance(1, decimal.RequireFromString("250"))
	})
	require.NoError(t, err)

	account, err := store.Account().GetAccount(1)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("250").Equal(account.Balance))
}

func TestMemoryStore_NestedTransactionRejected(t *testing.T) {
	store := seedMemoryStore(t)

	err := store.WithTransaction(func(tx domain.Store) error {
		return tx.WithTransaction(func(domain.Store) error { return nil })
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.InternalError))
}

func TestMemoryStore_CreateTransactionRequiresAccount(t *testing.T) {
	store := seedMemoryStore(t)

	err := store.Transaction().CreateTransaction(&domain.Transaction{
		AccountID:       42,
		TransactionType: domain.TypeDeposit,
		Amount:          decimal.RequireFromString("5"),
		Balance:         decimal.RequireFromString("5"),
		TransactionDate: time.Now().UTC(),
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.AccountNotFound))
}

func TestMemoryStore_UpdateBalanceRejectsNegative(t *testing.T) {
	store := seedMemoryStore(t)

	err := store.Account().UpdateAccountBalance(1, decimal.RequireFromString("-1"))
	require.Error(t, err)

	account, getErr := store.Account().GetAccount(1)
	require.NoError(t, getErr)
	assert.True(t, decimal.RequireFromString("100").Equal(account.Balance))
}

func TestMemoryStore_ListTransactionsByAccountNewestFirst(t *testing.T) {
	store := seedMemoryStore(t)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, offset := range []time.Duration{0, 2 * time.Hour, time.Hour} {
		err := store.Transaction().CreateTransaction(&domain.Transaction{
			AccountID:       1,
			TransactionType: domain.TypeDeposit,
			Amount:          decimal.NewFromInt(int64(i + 1)),
			Balance:         decimal.NewFromInt(int64(100 + i)),
			TransactionDate: base.Add(offset),
		})
		require.NoError(t, err)
	}

	records, err := store.Transaction().ListTransactionsByAccount(1)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, base.Add(2*time.Hour), records[0].TransactionDate)
	assert.Equal(t, base.Add(time.Hour), records[1].TransactionDate)
	assert.Equal(t, base, records[2].TransactionDate)
	// the denormalized account type rides along
	for _, record := range records {
		assert.Equal(t, "Savings", record.AccountType)
	}
}
