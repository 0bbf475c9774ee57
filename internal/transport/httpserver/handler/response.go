package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	billsdomain "fintrack-go/internal/domain/bills"
	bucketsdomain "fintrack-go/internal/domain/buckets"
	categoriesdomain "fintrack-go/internal/domain/categories"
	expensesdomain "fintrack-go/internal/domain/expenses"
	"fintrack-go/internal/domain/split"
	userdomain "fintrack-go/internal/domain/user"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeDomainError maps domain sentinels onto the wire taxonomy. Anything
// unmapped is an internal error; the caller logs it before returning.
func writeDomainError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, billsdomain.ErrBillNotFound),
		errors.Is(err, billsdomain.ErrParticipantNotFound),
		errors.Is(err, bucketsdomain.ErrBudgetNotFound),
		errors.Is(err, bucketsdomain.ErrSavingsGoalNotFound),
		errors.Is(err, expensesdomain.ErrExpenseNotFound),
		errors.Is(err, categoriesdomain.ErrCategoryNotFound),
		errors.Is(err, userdomain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return true
	case errors.Is(err, billsdomain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
		return true
	case errors.Is(err, billsdomain.ErrInvalidName),
		errors.Is(err, billsdomain.ErrInvalidAmount),
		errors.Is(err, billsdomain.ErrInvalidDueDate),
		errors.Is(err, bucketsdomain.ErrInvalidName),
		errors.Is(err, bucketsdomain.ErrInvalidAmount),
		errors.Is(err, expensesdomain.ErrInvalidAmount),
		errors.Is(err, expensesdomain.ErrInvalidDate),
		errors.Is(err, split.ErrNoParticipants),
		errors.Is(err, split.ErrShareCountMismatch),
		errors.Is(err, split.ErrManualSumMismatch),
		errors.Is(err, split.ErrMissingAmounts):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return true
	}
	return false
}
