package handler

import (
	"net/http"

	categoriesdomain "fintrack-go/internal/domain/categories"
	"github.com/google/uuid"
)

type createCategoryRequest struct {
	Name  string  `json:"name"`
	Color *string `json:"color,omitempty"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Categories.List(r.Context())
	if err != nil {
		h.log.InternalError("categories.list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	category := categoriesdomain.Category{
		ID:    uuid.NewString(),
		Name:  req.Name,
		Color: req.Color,
	}
	if err := h.Categories.Create(r.Context(), &category); err != nil {
		h.log.InternalError("categories.create failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, category)
}
