package service

import (
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gringotts-bank/internal/domain"
	"gringotts-bank/internal/errors"
)

// TransactionService is the sole writer of account balances. Every balance
// change commits together with its audit rows in one unit of work, so no
// operation can leave a balance changed without a Transaction row or the
// other way round.
type TransactionService struct {
	store  domain.Store
	logger *slog.Logger
}

func NewTransactionService(store domain.Store, logger *slog.Logger) *TransactionService {
	return &TransactionService{
		store:  store,
		logger: logger,
	}
}

type TransactionRequest struct {
	AccountID       int64
	TransactionType string
	Amount          decimal.Decimal
}

type TransferRequest struct {
	FromAccountID int64
	ToAccountID   int64
	Amount        decimal.Decimal
}

// ProcessTransaction applies a deposit or withdrawal. The transaction type
// is matched case-insensitively and stored in canonical form. Preconditions
// are checked in a fixed order: amount, account existence, type, funds.
func (s *TransactionService) ProcessTransaction(req *TransactionRequest) (*domain.TransactionRecord, error) {
	s.logger.Info("Processing transaction",
		"account_id", req.AccountID,
		"transaction_type", req.TransactionType,
		"amount", req.Amount)

	if !req.Amount.IsPositive() {
		return nil, errors.ErrInvalidTransactionAmount
	}

	var record *domain.TransactionRecord
	err := s.store.WithTransaction(func(store domain.Store) error {
		account, err := store.Account().GetAccountForUpdate(req.AccountID)
		if err != nil {
			return err
		}

		var txType string
		var newBalance decimal.Decimal
		switch strings.ToLower(req.TransactionType) {
		case "deposit":
			txType = domain.TypeDeposit
			newBalance = account.Balance.Add(req.Amount)
		case "withdrawal":
			if account.Balance.LessThan(req.Amount) {
				return errors.ErrInsufficientFundsWithdraw
			}
			txType = domain.TypeWithdrawal
			newBalance = account.Balance.Sub(req.Amount)
		default:
			return errors.ErrUnsupportedTransactionType
		}

		if err := store.Account().UpdateAccountBalance(account.ID, newBalance); err != nil {
			return err
		}

		tx := &domain.Transaction{
			AccountID:       account.ID,
			TransactionType: txType,
			Amount:          req.Amount,
			Balance:         newBalance,
			TransactionDate: time.Now().UTC(),
		}
		if err := store.Transaction().CreateTransaction(tx); err != nil {
			return err
		}

		record = &domain.TransactionRecord{
			Transaction: *tx,
			AccountType: account.AccountType,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transaction completed",
		"transaction_id", record.ID,
		"account_id", record.AccountID,
		"transaction_type", record.TransactionType,
		"balance", record.Balance)
	return record, nil
}

// ProcessTransfer moves money between two accounts, producing a
// "Transfer Out" row on the source and a "Transfer In" row on the
// destination. Both sides commit atomically or not at all.
func (s *TransactionService) ProcessTransfer(req *TransferRequest) ([]domain.TransactionRecord, error) {
	s.logger.Info("Processing transfer",
		"from_account_id", req.FromAccountID,
		"to_account_id", req.ToAccountID,
		"amount", req.Amount)

	if !req.Amount.IsPositive() {
		return nil, errors.ErrInvalidTransferAmount
	}
	if req.FromAccountID == req.ToAccountID {
		return nil, errors.ErrSameAccountTransfer
	}

	var records []domain.TransactionRecord
	err := s.store.WithTransaction(func(store domain.Store) error {
		from, to, err := lockAccountPair(store.Account(), req.FromAccountID, req.ToAccountID)
		if err != nil {
			return err
		}

		if from.Balance.LessThan(req.Amount) {
			return errors.ErrInsufficientFundsTransfer
		}

		newFromBalance := from.Balance.Sub(req.Amount)
		newToBalance := to.Balance.Add(req.Amount)

		if err := store.Account().UpdateAccountBalance(from.ID, newFromBalance); err != nil {
			return err
		}
		if err := store.Account().UpdateAccountBalance(to.ID, newToBalance); err != nil {
			return err
		}

		now := time.Now().UTC()
		out := &domain.Transaction{
			AccountID:       from.ID,
			TransactionType: domain.TypeTransferOut,
			Amount:          req.Amount,
			Balance:         newFromBalance,
			TransactionDate: now,
		}
		in := &domain.Transaction{
			AccountID:       to.ID,
			TransactionType: domain.TypeTransferIn,
			Amount:          req.Amount,
			Balance:         newToBalance,
			TransactionDate: now,
		}
		if err := store.Transaction().CreateTransaction(out); err != nil {
			return err
		}
		if err := store.Transaction().CreateTransaction(in); err != nil {
			return err
		}

		records = []domain.TransactionRecord{
			{Transaction: *out, AccountType: from.AccountType},
			{Transaction: *in, AccountType: to.AccountType},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transfer completed",
		"from_account_id", req.FromAccountID,
		"to_account_id", req.ToAccountID,
		"amount", req.Amount)
	return records, nil
}

// lockAccountPair locks both account rows in ascending id order so two
// opposing transfers cannot deadlock, while still reporting a missing source
// account ahead of a missing destination.
func lockAccountPair(repo domain.AccountRepository, fromID, toID int64) (from, to *domain.Account, err error) {
	firstID, secondID := fromID, toID
	if toID < fromID {
		firstID, secondID = toID, fromID
	}

	locked := make(map[int64]*domain.Account, 2)
	for _, id := range []int64{firstID, secondID} {
		account, err := repo.GetAccountForUpdate(id)
		if err != nil {
			if errors.IsCode(err, errors.AccountNotFound) {
				continue
			}
			return nil, nil, err
		}
		locked[id] = account
	}

	if locked[fromID] == nil {
		return nil, nil, errors.NewAppErrorf(errors.SourceAccountNotFound, "Source account with ID %d not found.", fromID)
	}
	if locked[toID] == nil {
		return nil, nil, errors.NewAppErrorf(errors.DestinationAccountNotFound, "Destination account with ID %d not found.", toID)
	}
	return locked[fromID], locked[toID], nil
}

// GetAllTransactions returns every transaction in insertion order.
func (s *TransactionService) GetAllTransactions() ([]domain.TransactionRecord, error) {
	return s.store.Transaction().ListTransactions()
}

func (s *TransactionService) GetTransaction(id int64) (*domain.TransactionRecord, error) {
	return s.store.Transaction().GetTransaction(id)
}

// GetTransactionsByAccount returns the account's transactions newest first.
func (s *TransactionService) GetTransactionsByAccount(accountID int64) ([]domain.TransactionRecord, error) {
	return s.store.Transaction().ListTransactionsByAccount(accountID)
}
