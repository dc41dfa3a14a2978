package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fabricio2fb/reviewlar/internal/catalog"
	"github.com/fabricio2fb/reviewlar/internal/service"
	"github.com/fabricio2fb/reviewlar/pkg/httputil"
)

// ReviewHandler serves the public catalog.
type ReviewHandler struct {
	service *service.ReviewService
	siteURL string
	logger  *slog.Logger
}

// NewReviewHandler creates a review handler. siteURL prefixes the page URLs
// written into structured data.
func NewReviewHandler(svc *service.ReviewService, siteURL string, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{service: svc, siteURL: strings.TrimRight(siteURL, "/"), logger: logger}
}

// List handles GET /api/v1/reviews?category=&minRating=&sortBy=
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	st, err := catalog.ParseFilterState(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	reviews, err := h.service.List(r.Context(), st)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, reviews)
}

// Get handles GET /api/v1/reviews/{slug}
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, detail)
}

// Schema handles GET /api/v1/reviews/{slug}/schema
func (h *ReviewHandler) Schema(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	schema, err := h.service.Schema(r.Context(), slug, h.siteURL+"/reviews/"+slug)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.Header().Set("Content-Type", "application/ld+json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(schema)
}

// Search handles GET /api/v1/search?q=
func (h *ReviewHandler) Search(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, results)
}

// Compare handles GET /api/v1/compare?slugs=a,b,c
func (h *ReviewHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var slugs []string
	for _, v := range r.URL.Query()["slugs"] {
		slugs = append(slugs, strings.Split(v, ",")...)
	}

	cmp, err := h.service.Compare(r.Context(), slugs)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, cmp)
}
