package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"gringotts-bank/internal/domain"
	"gringotts-bank/internal/service"
)

type AccountHandler struct {
	accountService *service.AccountService
}

func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// AccountResponse carries the balance as a string so clients never see
// floating-point drift.
type AccountResponse struct {
	ID          int64  `json:"id"`
	AccountType string `json:"accountType"`
	Balance     string `json:"balance"`
}

func toAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:          account.ID,
		AccountType: account.AccountType,
		Balance:     account.Balance.String(),
	}
}

func (h *AccountHandler) GetAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountService.GetAllAccounts()
	if err != nil {
		writeError(w, err)
		return
	}

	responses := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		responses = append(responses, toAccountResponse(&accounts[i]))
	}

	writeJSON(w, http.StatusOK, responses)
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountService.GetAccount(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(account))
}
