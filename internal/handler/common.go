package handler

import (
	"encoding/json"
	"net/http"

	"gringotts-bank/internal/errors"
)

type Response struct {
	Data  interface{} `json:"data,omitempty"`
	Error *Error      `json:"error,omitempty"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(Response{Data: data})
}

// writeError renders err through the AppError status mapping. Anything that
// is not an AppError is an unexpected failure and surfaces as a bare 500,
// with no internal detail leaked to the client.
func writeError(w http.ResponseWriter, err error) {
	appErr, ok := err.(*errors.AppError)
	if !ok {
		appErr = errors.NewAppError(errors.InternalError, "an unexpected error occurred")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.HTTPStatus())
	json.NewEncoder(w).Encode(Response{Error: &Error{
		Code:    string(appErr.Code),
		Message: appErr.Message,
		Details: appErr.Details,
	}})
}
