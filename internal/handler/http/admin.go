package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fabricio2fb/reviewlar/internal/editor"
	"github.com/fabricio2fb/reviewlar/internal/service"
	"github.com/fabricio2fb/reviewlar/pkg/httputil"
	"github.com/fabricio2fb/reviewlar/pkg/middleware"
	"github.com/fabricio2fb/reviewlar/pkg/pagination"
)

const themeCookie = "dashboard-theme"

// AdminHandler serves the dashboard and direct review writes.
type AdminHandler struct {
	reviews   *service.ReviewService
	dashboard *service.DashboardService
	authURL   string
	logger    *slog.Logger
}

// NewAdminHandler creates an admin handler. authURL is the external sign-in
// provider.
func NewAdminHandler(reviews *service.ReviewService, dashboard *service.DashboardService, authURL string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{reviews: reviews, dashboard: dashboard, authURL: strings.TrimRight(authURL, "/"), logger: logger}
}

// Login handles GET /api/v1/admin/login. Credentials are handled by the
// provider; this only says where to go.
func (h *AdminHandler) Login(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteData(w, http.StatusOK, map[string]string{"location": h.authURL + "/login"})
}

// Register handles GET /api/v1/admin/register
func (h *AdminHandler) Register(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteData(w, http.StatusOK, map[string]string{"location": h.authURL + "/register"})
}

// Dashboard handles GET /api/v1/admin/dashboard?q=&page=&per_page=
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	view := service.ViewContext{
		Theme:   service.ThemeLight,
		Session: middleware.SessionFromContext(r.Context()),
	}
	if c, err := r.Cookie(themeCookie); err == nil {
		view.Theme = service.ParseTheme(c.Value)
	}

	d, err := h.dashboard.Overview(r.Context(), view, r.URL.Query().Get("q"), pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, d)
}

// GetReview handles GET /api/v1/admin/reviews/{id}
func (h *AdminHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	review, err := h.reviews.GetByID(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, review)
}

// CreateReview handles POST /api/v1/admin/reviews with an editor form body.
func (h *AdminHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	form := editor.NewForm()
	if !httputil.DecodeJSON(w, r, form) {
		return
	}

	review, err := h.reviews.Submit(r.Context(), "", form)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, review)
}

// UpdateReview handles PUT /api/v1/admin/reviews/{id}
func (h *AdminHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	form := editor.NewForm()
	if !httputil.DecodeJSON(w, r, form) {
		return
	}

	review, err := h.reviews.Submit(r.Context(), id.String(), form)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, review)
}

// DeleteReview handles DELETE /api/v1/admin/reviews/{id}
func (h *AdminHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.reviews.Delete(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
