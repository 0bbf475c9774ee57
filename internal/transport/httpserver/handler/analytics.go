package handler

import (
	"net/http"
	"time"

	analyticsdomain "fintrack-go/internal/domain/analytics"
	"fintrack-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

func (h *Handlers) BillProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.Analytics.BillProgress(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if writeDomainError(w, err) {
			return
		}
		h.log.InternalError("analytics.bill_progress failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (h *Handlers) DashboardSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	summary, err := h.Analytics.DashboardSummary(r.Context(), userID)
	if err != nil {
		h.log.InternalError("analytics.dashboard failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handlers) CategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	query := r.URL.Query()
	var filter analyticsdomain.BreakdownFilter
	if from, err := parseDateParam(query.Get("from")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid from date")
		return
	} else if from != nil {
		filter.From = *from
	}
	if to, err := parseDateParam(query.Get("to")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid to date")
		return
	} else if to != nil {
		// make the bound inclusive of the whole day
		filter.To = to.Add(24*time.Hour - time.Nanosecond)
	}

	totals, err := h.Analytics.CategoryBreakdown(r.Context(), userID, filter)
	if err != nil {
		h.log.InternalError("analytics.by_category failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, totals)
}
