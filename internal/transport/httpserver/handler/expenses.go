package handler

import (
	"net/http"

	expensesdomain "fintrack-go/internal/domain/expenses"
	"fintrack-go/internal/domain/split"
	"fintrack-go/internal/money"
	"fintrack-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type allocationSpecRequest struct {
	Type      string        `json:"type"`
	BucketIDs []string      `json:"bucket_ids"`
	Amounts   []money.Money `json:"amounts,omitempty"`
}

func (a *allocationSpecRequest) toSpec() (expensesdomain.AllocationSpec, error) {
	if a == nil {
		return expensesdomain.AllocationSpec{Type: split.DistributionNone}, nil
	}
	distributionType, err := split.ParseDistributionType(a.Type)
	if err != nil {
		return expensesdomain.AllocationSpec{}, err
	}
	return expensesdomain.AllocationSpec{
		Type:      distributionType,
		BucketIDs: a.BucketIDs,
		Amounts:   a.Amounts,
	}, nil
}

type createExpenseRequest struct {
	Amount       money.Money            `json:"amount"`
	Description  string                 `json:"description"`
	CategoryID   string                 `json:"category_id"`
	Date         string                 `json:"date"`
	Budgets      *allocationSpecRequest `json:"budgets,omitempty"`
	SavingsGoals *allocationSpecRequest `json:"savings_goals,omitempty"`
}

type updateExpenseRequest struct {
	Amount       *money.Money           `json:"amount,omitempty"`
	Description  *string                `json:"description,omitempty"`
	CategoryID   *string                `json:"category_id,omitempty"`
	Date         *string                `json:"date,omitempty"`
	Budgets      *allocationSpecRequest `json:"budgets,omitempty"`
	SavingsGoals *allocationSpecRequest `json:"savings_goals,omitempty"`
}

type unlinkExpenseRequest struct {
	BudgetIDs      []string `json:"budget_ids,omitempty"`
	SavingsGoalIDs []string `json:"savings_goal_ids,omitempty"`
}

type expenseListResponse struct {
	Items []expensesdomain.Expense `json:"items"`
	Total int64                    `json:"total"`
}

func (h *Handlers) CreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	var req createExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	date, err := parseDateRequired(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}
	budgets, err := req.Budgets.toSpec()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid budget distribution type")
		return
	}
	goals, err := req.SavingsGoals.toSpec()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid savings goal distribution type")
		return
	}

	expense, err := h.Expenses.CreateExpense(r.Context(), expensesdomain.CreateExpenseInput{
		UserID:       userID,
		Amount:       req.Amount,
		Description:  req.Description,
		CategoryID:   req.CategoryID,
		Date:         date,
		Budgets:      budgets,
		SavingsGoals: goals,
	})
	if err != nil {
		if writeDomainError(w, err) {
			return
		}
		h.log.InternalError("expenses.create failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, expense)
}

func (h *Handlers) GetExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	expense, err := h.Expenses.GetExpense(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		if writeDomainError(w, err) {
			return
		}
		h.log.InternalError("expenses.get failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (h *Handlers) ListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	query := r.URL.Query()
	from, err := parseDateParam(query.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid from date")
		return
	}
	to, err := parseDateParam(query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid to date")
		return
	}
	limit, err := parseIntParam(query.Get("limit"), 50)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}
	offset, err := parseIntParam(query.Get("offset"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid offset")
		return
	}

	items, total, err := h.Expenses.ListExpenses(r.Context(), userID, expensesdomain.ListFilter{
		From:       from,
		To:         to,
		CategoryID: query.Get("category_id"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		h.log.InternalError("expenses.list failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, expenseListResponse{Items: items, Total: total})
}

func (h *Handlers) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	var req updateExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	in := expensesdomain.UpdateExpenseInput{
		ExpenseID:   chi.URLParam(r, "id"),
		UserID:      userID,
		Amount:      req.Amount,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	}
	if req.Date != nil {
		date, err := parseDateRequired(*req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
			return
		}
		in.Date = &date
	}
	if req.Budgets != nil {
		spec, err := req.Budgets.toSpec()
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid budget distribution type")
			return
		}
		in.Budgets = &spec
	}
	if req.SavingsGoals != nil {
		spec, err := req.SavingsGoals.toSpec()
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid savings goal distribution type")
			return
		}
		in.SavingsGoals = &spec
	}

	expense, err := h.Expenses.UpdateExpense(r.Context(), in)
	if err != nil {
		if writeDomainError(w, err) {
			return
		}
		h.log.InternalError("expenses.update failed", err, "expense_id", in.ExpenseID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, expense)
}

func (h *Handlers) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	expenseID := chi.URLParam(r, "id")
	if err := h.Expenses.DeleteExpense(r.Context(), userID, expenseID); err != nil {
		if writeDomainError(w, err) {
			return
		}
		h.log.InternalError("expenses.delete failed", err, "expense_id", expenseID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) UnlinkExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	var req unlinkExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	expense, err := h.Expenses.UnlinkExpense(r.Context(), expensesdomain.UnlinkInput{
		ExpenseID:      chi.URLParam(r, "id"),
		UserID:         userID,
		BudgetIDs:      req.BudgetIDs,
		SavingsGoalIDs: req.SavingsGoalIDs,
	})
	if err != nil {
		if writeDomainError(w, err) {
			return
		}
		h.log.InternalError("expenses.unlink failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, expense)
}
