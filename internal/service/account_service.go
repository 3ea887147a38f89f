package service

import (
	"log/slog"
	"strconv"

	"gringotts-bank/internal/domain"
	"gringotts-bank/internal/errors"
)

// AccountService serves read-only account lookups. Balance mutations go
// through TransactionService exclusively.
type AccountService struct {
	store  domain.Store
	logger *slog.Logger
}

func NewAccountService(store domain.Store, logger *slog.Logger) *AccountService {
	return &AccountService{
		store:  store,
		logger: logger,
	}
}

func (s *AccountService) GetAllAccounts() ([]domain.Account, error) {
	return s.store.Account().ListAccounts()
}

// GetAccount looks up a single account. A missing account is a 404, uniform
// with transaction lookups.
func (s *AccountService) GetAccount(accountID string) (*domain.Account, error) {
	id, err := strconv.ParseInt(accountID, 10, 64)
	if err != nil || id <= 0 {
		return nil, errors.NewAppError(errors.InvalidInput, "account ID must be a positive integer")
	}

	return s.store.Account().GetAccount(id)
}
