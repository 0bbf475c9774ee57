package handler

import (
	"net/http"

	bucketsdomain "fintrack-go/internal/domain/buckets"
	"fintrack-go/internal/money"
	"fintrack-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type createBudgetRequest struct {
	Name        string      `json:"name"`
	CategoryID  *string     `json:"category_id,omitempty"`
	TotalAmount money.Money `json:"total_amount"`
}

type createSavingsGoalRequest struct {
	Name         string      `json:"name"`
	TargetAmount money.Money `json:"target_amount"`
	TargetDate   *string     `json:"target_date,omitempty"`
}

type goalFundsRequest struct {
	Amount money.Money `json:"amount"`
}

func (h *Handlers) CreateBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	var req createBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	budget, err := h.Buckets.CreateBudget(r.Context(), bucketsdomain.CreateBudgetInput{
		UserID:      userID,
		Name:        req.Name,
		CategoryID:  req.CategoryID,
		TotalAmount: req.TotalAmount,
	})
	if err != nil {
		if writeDomainError(w, err) {
			return
		}
		h.log.InternalError("budgets.create failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, budget)
}

func (h *Handlers) GetBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	budget, err := h.Buckets.GetBudget(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		if writeDomainError(w, err) {
			return
		}
		h.log.InternalError("budgets.get failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, budget)
}

func (h *Handlers) ListBudgets(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	budgets, err := h.Buckets.ListBudgets(r.Context(), userID)
	if err != nil {
		h.log.InternalError("budgets.list failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, budgets)
}

func (h *Handlers) CreateSavingsGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	var req createSavingsGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	in := bucketsdomain.CreateSavingsGoalInput{
		UserID:       userID,
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
	}
	if req.TargetDate != nil {
		targetDate, err := parseDateRequired(*req.TargetDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid target date")
			return
		}
		in.TargetDate = &targetDate
	}

	goal, err := h.Buckets.CreateSavingsGoal(r.Context(), in)
	if err != nil {
		if writeDomainError(w, err) {
			return
		}
		h.log.InternalError("savings_goals.create failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

func (h *Handlers) GetSavingsGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	goal, err := h.Buckets.GetSavingsGoal(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		if writeDomainError(w, err) {
			return
		}
		h.log.InternalError("savings_goals.get failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (h *Handlers) ListSavingsGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	goals, err := h.Buckets.ListSavingsGoals(r.Context(), userID)
	if err != nil {
		h.log.InternalError("savings_goals.list failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (h *Handlers) AddToSavingsGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	var req goalFundsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	goal, err := h.Buckets.AddToSavingsGoal(r.Context(), userID, chi.URLParam(r, "id"), req.Amount)
	if err != nil {
		if writeDomainError(w, err) {
			return
		}
		h.log.InternalError("savings_goals.add failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (h *Handlers) WithdrawFromSavingsGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	var req goalFundsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	goal, err := h.Buckets.WithdrawFromSavingsGoal(r.Context(), userID, chi.URLParam(r, "id"), req.Amount)
	if err != nil {
		if writeDomainError(w, err) {
			return
		}
		h.log.InternalError("savings_goals.withdraw failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, goal)
}
