package handler

import (
	"net/http"

	billsdomain "fintrack-go/internal/domain/bills"
	"fintrack-go/internal/domain/split"
	"fintrack-go/internal/money"
	"fintrack-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type createBillRequest struct {
	Name           string        `json:"name"`
	TotalAmount    money.Money   `json:"total_amount"`
	SplitType      string        `json:"split_type"`
	DueDate        string        `json:"due_date"`
	CategoryID     string        `json:"category_id"`
	ParticipantIDs []string      `json:"participant_ids"`
	Percentages    []float64     `json:"percentages,omitempty"`
	Amounts        []money.Money `json:"amounts,omitempty"`
}

type updateBillRequest struct {
	Name       *string `json:"name,omitempty"`
	DueDate    *string `json:"due_date,omitempty"`
	CategoryID *string `json:"category_id,omitempty"`
}

type updateBillStatusRequest struct {
	Status string `json:"status"`
}

type requestPaymentRequest struct {
	UserIDs []string `json:"user_ids"`
	Message string   `json:"message,omitempty"`
}

type billListResponse struct {
	Items []billsdomain.Bill `json:"items"`
	Total int64              `json:"total"`
}

func (h *Handlers) CreateBill(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	var req createBillRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	splitType, err := split.ParseBillSplitType(req.SplitType)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid split type")
		return
	}
	dueDate, err := parseDateRequired(req.DueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid due date")
		return
	}

	bill, err := h.Bills.CreateBill(r.Context(), billsdomain.CreateBillInput{
		CreatorID:      userID,
		Name:           req.Name,
		TotalAmount:    req.TotalAmount,
		SplitType:      splitType,
		DueDate:        dueDate,
		CategoryID:     req.CategoryID,
		ParticipantIDs: req.ParticipantIDs,
		Percentages:    req.Percentages,
		Amounts:        req.Amounts,
	})
	if err != nil {
		if writeDomainError(w, err) {
			return
		}
		h.log.InternalError("bills.create failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, bill)
}

func (h *Handlers) GetBill(w http.ResponseWriter, r *http.Request) {
	bill, err := h.Bills.GetBill(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if writeDomainError(w, err) {
			return
		}
		h.log.InternalError("bills.get failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, bill)
}

func (h *Handlers) ListBills(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	query := r.URL.Query()
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

	items, total, err := h.Bills.ListBills(r.Context(), userID, billsdomain.ListFilter{
		Status: billsdomain.Status(query.Get("status")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.log.InternalError("bills.list failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, billListResponse{Items: items, Total: total})
}

func (h *Handlers) MarkPaymentPaid(w http.ResponseWriter, r *http.Request) {
	billID := chi.URLParam(r, "id")
	participantID := chi.URLParam(r, "participant_id")

	bill, err := h.Bills.MarkPaymentPaid(r.Context(), billID, participantID)
	if err != nil {
		if writeDomainError(w, err) {
			return
		}
		h.log.InternalError("bills.mark_paid failed", err, "bill_id", billID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, bill)
}

func (h *Handlers) UpdateBill(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	var req updateBillRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	in := billsdomain.UpdateBillInput{
		BillID:     chi.URLParam(r, "id"),
		UserID:     userID,
		Name:       req.Name,
		CategoryID: req.CategoryID,
	}
	if req.DueDate != nil {
		dueDate, err := parseDateRequired(*req.DueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid due date")
			return
		}
		in.DueDate = &dueDate
	}

	bill, err := h.Bills.UpdateBill(r.Context(), in)
	if err != nil {
		if writeDomainError(w, err) {
			return
		}
		h.log.InternalError("bills.update failed", err, "bill_id", in.BillID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, bill)
}

func (h *Handlers) UpdateBillStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	var req updateBillStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	status := billsdomain.Status(req.Status)
	switch status {
	case billsdomain.StatusPending, billsdomain.StatusPartial, billsdomain.StatusCompleted:
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid status")
		return
	}

	bill, err := h.Bills.UpdateBillStatus(r.Context(), chi.URLParam(r, "id"), userID, status)
	if err != nil {
		if writeDomainError(w, err) {
			return
		}
		h.log.InternalError("bills.update_status failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, bill)
}

func (h *Handlers) DeleteBill(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	billID := chi.URLParam(r, "id")
	if err := h.Bills.DeleteBill(r.Context(), billID, userID); err != nil {
		if writeDomainError(w, err) {
			return
		}
		h.log.InternalError("bills.delete failed", err, "bill_id", billID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) RequestPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	var req requestPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if len(req.UserIDs) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "user_ids is required")
		return
	}

	err := h.Bills.RequestPayment(r.Context(), billsdomain.RequestPaymentInput{
		BillID:      chi.URLParam(r, "id"),
		RequesterID: userID,
		UserIDs:     req.UserIDs,
		Message:     req.Message,
	})
	if err != nil {
		if writeDomainError(w, err) {
			return
		}
		h.log.InternalError("bills.request_payment failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"requested": true})
}
