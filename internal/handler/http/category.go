package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fabricio2fb/reviewlar/internal/service"
	"github.com/fabricio2fb/reviewlar/pkg/httputil"
)

// CategoryHandler serves category reads and creation.
type CategoryHandler struct {
	categories *service.CategoryService
	reviews    *service.ReviewService
	logger     *slog.Logger
}

// NewCategoryHandler creates a category handler.
func NewCategoryHandler(categories *service.CategoryService, reviews *service.ReviewService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, reviews: reviews, logger: logger}
}

// List handles GET /api/v1/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.categories.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, cats)
}

// Reviews handles GET /api/v1/categories/{slug}/reviews
func (h *CategoryHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListByCategory(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, reviews)
}

// Create handles POST /api/v1/admin/categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateCategoryInput
	if !httputil.DecodeJSON(w, r, &input) {
		return
	}

	c, err := h.categories.Create(r.Context(), &input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, c)
}
