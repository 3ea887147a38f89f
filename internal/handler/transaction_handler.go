package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"gringotts-bank/internal/domain"
	"gringotts-bank/internal/errors"
	"gringotts-bank/internal/service"
)

type TransactionHandler struct {
	transactionService *service.TransactionService
}

func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// decimal.Decimal accepts both quoted and bare JSON numbers here.
type CreateTransactionRequest struct {
	AccountID       int64           `json:"accountId"`
	TransactionType string          `json:"transactionType"`
	Amount          decimal.Decimal `json:"amount"`
}

type TransferRequest struct {
	FromAccountID int64           `json:"fromAccountId"`
	ToAccountID   int64           `json:"toAccountId"`
	Amount        decimal.Decimal `json:"amount"`
}

type TransactionResponse struct {
	ID              int64     `json:"id"`
	AccountID       int64     `json:"accountId"`
	AccountType     string    `json:"accountType"`
	TransactionType string    `json:"transactionType"`
	Amount          string    `json:"amount"`
	Balance         string    `json:"balance"`
	TransactionDate time.Time `json:"transactionDate"`
}

func toTransactionResponse(record *domain.TransactionRecord) TransactionResponse {
	return TransactionResponse{
		ID:              record.ID,
		AccountID:       record.AccountID,
		AccountType:     record.AccountType,
		TransactionType: record.TransactionType,
		Amount:          record.Amount.String(),
		Balance:         record.Balance.String(),
		TransactionDate: record.TransactionDate,
	}
}

func toTransactionResponses(records []domain.TransactionRecord) []TransactionResponse {
	responses := make([]TransactionResponse, 0, len(records))
	for i := range records {
		responses = append(responses, toTransactionResponse(&records[i]))
	}
	return responses
}

func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	records, err := h.transactionService.GetAllTransactions()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponses(records))
}

func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id", "transaction ID")
	if err != nil {
		writeError(w, err)
		return
	}

	record, err := h.transactionService.GetTransaction(id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(record))
}

func (h *TransactionHandler) ListTransactionsByAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := parsePathID(r, "accountId", "account ID")
	if err != nil {
		writeError(w, err)
		return
	}

	records, err := h.transactionService.GetTransactionsByAccount(accountID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponses(records))
}

func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body").WithDetails(err.Error()))
		return
	}

	record, err := h.transactionService.ProcessTransaction(&service.TransactionRequest{
		AccountID:       req.AccountID,
		TransactionType: req.TransactionType,
		Amount:          req.Amount,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/transactions/%d", record.ID))
	writeJSON(w, http.StatusCreated, toTransactionResponse(record))
}

func (h *TransactionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body").WithDetails(err.Error()))
		return
	}

	records, err := h.transactionService.ProcessTransfer(&service.TransferRequest{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponses(records))
}

func parsePathID(r *http.Request, key, label string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[key], 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewAppErrorf(errors.InvalidInput, "%s must be a positive integer", label)
	}
	return id, nil
}
