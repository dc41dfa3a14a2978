package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fabricio2fb/reviewlar/internal/service"
	"github.com/fabricio2fb/reviewlar/pkg/health"
	"github.com/fabricio2fb/reviewlar/pkg/middleware"
)

// Services bundles what the handlers call into.
type Services struct {
	Reviews    *service.ReviewService
	Categories *service.CategoryService
	Drafts     *service.DraftService
	Dashboard  *service.DashboardService
}

// RouterConfig holds the HTTP-facing settings.
type RouterConfig struct {
	SiteURL        string
	AuthURL        string
	CORSOrigins    []string
	PublicCacheTTL time.Duration
	SearchLimiter  *middleware.RateLimiter
	SuggestLimiter *middleware.RateLimiter
}

// NewRouter creates a chi router with every route registered.
func NewRouter(
	svc Services,
	verifier *middleware.SessionVerifier,
	healthHandler *health.Handler,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins...)))
	r.Use(middleware.Tracing)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics)

	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	reviews := NewReviewHandler(svc.Reviews, cfg.SiteURL, logger)
	categories := NewCategoryHandler(svc.Categories, svc.Reviews, logger)
	admin := NewAdminHandler(svc.Reviews, svc.Dashboard, cfg.AuthURL, logger)
	drafts := NewDraftHandler(svc.Drafts, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if cfg.PublicCacheTTL > 0 {
				r.Use(middleware.CacheControl(cfg.PublicCacheTTL))
			}
			r.Get("/reviews", reviews.List)
			r.Get("/reviews/{slug}", reviews.Get)
			r.Get("/reviews/{slug}/schema", reviews.Schema)
			r.Get("/categories", categories.List)
			r.Get("/categories/{slug}/reviews", categories.Reviews)
			r.Get("/compare", reviews.Compare)
			r.With(limit(cfg.SearchLimiter)).Get("/search", reviews.Search)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Get("/login", admin.Login)
			r.Get("/register", admin.Register)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireSession(verifier, logger))
				r.Use(middleware.SessionLogger)

				r.Get("/dashboard", admin.Dashboard)
				r.Post("/categories", categories.Create)

				r.Post("/reviews", admin.CreateReview)
				r.Get("/reviews/{id}", admin.GetReview)
				r.Put("/reviews/{id}", admin.UpdateReview)
				r.Delete("/reviews/{id}", admin.DeleteReview)

				r.Post("/drafts", drafts.Create)
				r.Route("/drafts/{id}", func(r chi.Router) {
					r.Get("/", drafts.Get)
					r.Delete("/", drafts.Delete)
					r.Patch("/fields/{field}", drafts.SetField)
					r.Post("/groups/{group}", drafts.AppendItem)
					r.Delete("/groups/{group}/{index}", drafts.RemoveItem)
					r.Post("/imports/{kind}", drafts.Import)
					r.Post("/validate", drafts.Validate)
					r.Post("/submit", drafts.Submit)
					r.Get("/suggestions", drafts.Suggestions)
				})

				r.With(limit(cfg.SuggestLimiter)).Post("/suggestions", drafts.SuggestNow)
			})
		})
	})

	return r
}

func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Handler
}
