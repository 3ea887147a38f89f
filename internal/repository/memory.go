package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"gringotts-bank/internal/domain"
	"gringotts-bank/internal/errors"
)

// MemoryStore is the sandbox implementation of domain.Store: all state lives
// in process memory and is lost on restart. A single mutex serializes every
// unit of work, which gives the same per-account linearizability the SQL
// store gets from row locks. Units of work are all-or-nothing: state is
// snapshotted on entry and restored if the callback fails.
type MemoryStore struct {
	mu    sync.Mutex
	state memoryState
}

var _ domain.Store = (*MemoryStore)(nil)

type memoryState struct {
	accounts      map[int64]domain.Account
	transactions  []domain.Transaction
	nextAccountID int64
	nextTxID      int64
}

func (st *memoryState) clone() memoryState {
	cp := memoryState{
		accounts:      make(map[int64]domain.Account, len(st.accounts)),
		transactions:  make([]domain.Transaction, len(st.transactions)),
		nextAccountID: st.nextAccountID,
		nextTxID:      st.nextTxID,
	}
	for id, account := range st.accounts {
		cp.accounts[id] = account
	}
	copy(cp.transactions, st.transactions)
	return cp
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		state: memoryState{
			accounts:      make(map[int64]domain.Account),
			nextAccountID: 1,
			nextTxID:      1,
		},
	}
}

func (s *MemoryStore) Account() domain.AccountRepository {
	return &memoryAccountRepo{mu: &s.mu, state: &s.state}
}

func (s *MemoryStore) Transaction() domain.TransactionRepository {
	return &memoryTransactionRepo{mu: &s.mu, state: &s.state}
}

func (s *MemoryStore) WithTransaction(fn func(domain.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()

	// The inner store's repositories skip locking; the mutex is already
	// held for the whole unit of work.
	inner := &memoryTxStore{state: &s.state}
	if err := fn(inner); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

// memoryTxStore is the view handed to WithTransaction callbacks.
type memoryTxStore struct {
	state *memoryState
}

func (s *memoryTxStore) Account() domain.AccountRepository {
	return &memoryAccountRepo{state: s.state}
}

func (s *memoryTxStore) Transaction() domain.TransactionRepository {
	return &memoryTransactionRepo{state: s.state}
}

func (s *memoryTxStore) WithTransaction(fn func(domain.Store) error) error {
	return errors.ErrCannotBeginTransaction
}

type memoryAccountRepo struct {
	mu    *sync.Mutex // nil inside a unit of work
	state *memoryState
}

func (r *memoryAccountRepo) lock() func() {
	if r.mu == nil {
		return func() {}
	}
	r.mu.Lock()
	return r.mu.Unlock
}

func (r *memoryAccountRepo) CreateAccount(account *domain.Account) error {
	defer r.lock()()

	now := time.Now().UTC()
	account.ID = r.state.nextAccountID
	account.CreatedAt = now
	account.UpdatedAt = now
	r.state.nextAccountID++

	r.state.accounts[account.ID] = *account
	return nil
}

func (r *memoryAccountRepo) GetAccount(id int64) (*domain.Account, error) {
	defer r.lock()()

	account, ok := r.state.accounts[id]
	if !ok {
		return nil, errors.NewAppErrorf(errors.AccountNotFound, "Account with ID %d not found.", id)
	}
	return &account, nil
}

func (r *memoryAccountRepo) GetAccountForUpdate(id int64) (*domain.Account, error) {
	// Serialization comes from the store mutex, not a row lock.
	return r.GetAccount(id)
}

func (r *memoryAccountRepo) ListAccounts() ([]domain.Account, error) {
	defer r.lock()()

	accounts := make([]domain.Account, 0, len(r.state.accounts))
	for _, account := range r.state.accounts {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

func (r *memoryAccountRepo) UpdateAccountBalance(id int64, newBalance decimal.Decimal) error {
	defer r.lock()()

	account, ok := r.state.accounts[id]
	if !ok {
		return errors.NewAppErrorf(errors.AccountNotFound, "Account with ID %d not found.", id)
	}
	if newBalance.IsNegative() {
		// Mirrors the CHECK (balance >= 0) constraint of the SQL schema.
		return errors.NewAppError(errors.InternalError, "balance constraint violated")
	}

	account.Balance = newBalance
	account.UpdatedAt = time.Now().UTC()
	r.state.accounts[id] = account
	return nil
}

type memoryTransactionRepo struct {
	mu    *sync.Mutex
	state *memoryState
}

func (r *memoryTransactionRepo) lock() func() {
	if r.mu == nil {
		return func() {}
	}
	r.mu.Lock()
	return r.mu.Unlock
}

func (r *memoryTransactionRepo) CreateTransaction(tx *domain.Transaction) error {
	defer r.lock()()

	if _, ok := r.state.accounts[tx.AccountID]; !ok {
		// Mirrors the foreign key on transactions.account_id.
		return errors.NewAppErrorf(errors.AccountNotFound, "Account with ID %d not found.", tx.AccountID)
	}

	tx.ID = r.state.nextTxID
	r.state.nextTxID++
	r.state.transactions = append(r.state.transactions, *tx)
	return nil
}

func (r *memoryTransactionRepo) record(tx domain.Transaction) domain.TransactionRecord {
	return domain.TransactionRecord{
		Transaction: tx,
		AccountType: r.state.accounts[tx.AccountID].AccountType,
	}
}

func (r *memoryTransactionRepo) GetTransaction(id int64) (*domain.TransactionRecord, error) {
	defer r.lock()()

	for _, tx := range r.state.transactions {
		if tx.ID == id {
			record := r.record(tx)
			return &record, nil
		}
	}
	return nil, errors.NewAppErrorf(errors.TransactionNotFound, "Transaction with ID %d not found.", id)
}

func (r *memoryTransactionRepo) ListTransactions() ([]domain.TransactionRecord, error) {
	defer r.lock()()

	records := make([]domain.TransactionRecord, 0, len(r.state.transactions))
	for _, tx := range r.state.transactions {
		records = append(records, r.record(tx))
	}
	return records, nil
}

func (r *memoryTransactionRepo) ListTransactionsByAccount(accountID int64) ([]domain.TransactionRecord, error) {
	defer r.lock()()

	var records []domain.TransactionRecord
	for _, tx := range r.state.transactions {
		if tx.AccountID == accountID {
			records = append(records, r.record(tx))
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].TransactionDate.Equal(records[j].TransactionDate) {
			return records[i].TransactionDate.After(records[j].TransactionDate)
		}
		return records[i].ID > records[j].ID
	})
	return records, nil
}
