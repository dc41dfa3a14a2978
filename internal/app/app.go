package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/fabricio2fb/reviewlar/internal/cache"
	"github.com/fabricio2fb/reviewlar/internal/config"
	"github.com/fabricio2fb/reviewlar/internal/draft"
	"github.com/fabricio2fb/reviewlar/internal/event"
	handler "github.com/fabricio2fb/reviewlar/internal/handler/http"
	"github.com/fabricio2fb/reviewlar/internal/repository/postgres"
	"github.com/fabricio2fb/reviewlar/internal/search"
	esengine "github.com/fabricio2fb/reviewlar/internal/search/elasticsearch"
	"github.com/fabricio2fb/reviewlar/internal/search/memory"
	"github.com/fabricio2fb/reviewlar/internal/service"
	"github.com/fabricio2fb/reviewlar/internal/suggest"
	"github.com/fabricio2fb/reviewlar/migrations"
	"github.com/fabricio2fb/reviewlar/pkg/database"
	"github.com/fabricio2fb/reviewlar/pkg/health"
	"github.com/fabricio2fb/reviewlar/pkg/httpclient"
	pkgkafka "github.com/fabricio2fb/reviewlar/pkg/kafka"
	"github.com/fabricio2fb/reviewlar/pkg/middleware"
	"github.com/fabricio2fb/reviewlar/pkg/tracing"
)

const serviceName = "reviewlar"

// App wires together all dependencies and runs the ReviewLar server.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
	consumer   *pkgkafka.Consumer

	// closers run in order on shutdown, after the HTTP server has stopped.
	closers []namedCloser
}

type namedCloser struct {
	name  string
	close func() error
}

// NewApp creates a new application instance, initializing all dependencies.
// Resources opened before a failure are released before it returns.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, err error) {
	a := &App{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			a.closeAll()
		}
	}()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		Enabled:        cfg.OTELEnabled,
		ServiceName:    serviceName,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
		Endpoint:       cfg.OTELEndpoint,
		Insecure:       cfg.OTELInsecure,
		SampleRate:     cfg.OTELSampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	a.onClose("tracing", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return shutdownTracing(ctx)
	})
	database.SetSlowQueryLogging(cfg.SlowQueryThreshold, logger)

	// PostgreSQL
	pool, err := database.NewPostgresPool(ctx, database.PostgresConfig{
		URL:             cfg.DatabaseURL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLifetime,
		MaxConnIdleTime: cfg.DBMaxConnIdleTime,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	a.onClose("postgres", func() error { pool.Close(); return nil })

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool); err != nil {
		return nil, fmt.Errorf("register pool metrics: %w", err)
	}

	// Redis
	rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
		URL:      cfg.RedisURL,
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	a.onClose("redis", rdb.Close)

	reviewRepo := cache.NewReviewCache(postgres.NewReviewRepository(pool), rdb, cfg.ReviewCacheTTL, logger)
	categoryRepo := postgres.NewCategoryRepository(pool)

	// Search
	engine, esEng, err := newSearchEngine(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	// Events
	publisher, producer, err := a.newEvents(cfg, engine, rdb, logger)
	if err != nil {
		return nil, err
	}

	// Suggestions
	backend, err := newSuggestBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if c, ok := backend.(io.Closer); ok {
		a.onClose("suggestion backend", c.Close)
	}
	suggestions := suggest.NewService(backend, cfg.Breaker(), logger)

	// Services
	categorySvc := service.NewCategoryService(categoryRepo, logger)
	if cfg.SeedCategories {
		if _, err := categorySvc.Seed(ctx); err != nil {
			return nil, fmt.Errorf("seed categories: %w", err)
		}
	}
	reviewSvc := service.NewReviewService(reviewRepo, categorySvc, engine, publisher, logger)
	n, err := reviewSvc.Reindex(ctx)
	if err != nil {
		return nil, fmt.Errorf("initial reindex: %w", err)
	}
	logger.Info("search index loaded", slog.Int("reviews", n))

	draftSvc := service.NewDraftService(
		draft.NewStore(rdb, cfg.DraftTTL, cfg.SubmitLockTTL),
		reviewSvc, suggestions, cfg.SuggestDebounce, logger,
	)
	a.onClose("drafts", func() error { draftSvc.Close(); return nil })
	dashboardSvc := service.NewDashboardService(reviewRepo, categoryRepo)

	// Health checks.
	healthHandler := health.NewHandler(3 * time.Second)
	healthHandler.Register("postgres", pool.Ping)
	healthHandler.Register("redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	if esEng != nil {
		healthHandler.RegisterOptional("elasticsearch", esEng.Ping)
	}
	if producer != nil {
		healthHandler.RegisterOptional("kafka", producer.Ping)
	}

	searchLimiter := middleware.NewRateLimiter(cfg.SearchRPS, cfg.SearchBurst, logger)
	suggestLimiter := middleware.NewRateLimiter(cfg.SuggestRPS, cfg.SuggestBurst, logger)
	a.onClose("rate limiters", func() error {
		searchLimiter.Close()
		suggestLimiter.Close()
		return nil
	})

	router := handler.NewRouter(
		handler.Services{
			Reviews:    reviewSvc,
			Categories: categorySvc,
			Drafts:     draftSvc,
			Dashboard:  dashboardSvc,
		},
		middleware.NewSessionVerifier(cfg.JWTSecret, cfg.JWTAudience),
		healthHandler,
		handler.RouterConfig{
			SiteURL:        cfg.SiteURL,
			AuthURL:        cfg.AuthURL,
			CORSOrigins:    cfg.CORSOrigins,
			PublicCacheTTL: cfg.PublicCacheTTL,
			SearchLimiter:  searchLimiter,
			SuggestLimiter: suggestLimiter,
		},
		logger,
	)

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return a, nil
}

func newSearchEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger) (search.Engine, *esengine.Engine, error) {
	switch cfg.SearchEngine {
	case config.EngineElasticsearch:
		esEng, err := esengine.New(ctx, cfg.ElasticsearchURL, cfg.ElasticsearchIndex, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("init elasticsearch engine: %w", err)
		}
		logger.Info("elasticsearch search engine initialized",
			slog.String("url", cfg.ElasticsearchURL),
			slog.String("index", cfg.ElasticsearchIndex),
		)
		return esEng, esEng, nil
	default:
		logger.Info("in-memory search engine initialized")
		return memory.New(), nil, nil
	}
}

// newEvents returns the publisher the review service reports writes to.
// With Kafka the search index is updated by a consumer of those events;
// without it the index is updated in-process.
func (a *App) newEvents(cfg *config.Config, engine search.Engine, rdb *redis.Client, logger *slog.Logger) (service.EventPublisher, *pkgkafka.Producer, error) {
	if !cfg.KafkaEnabled {
		logger.Info("kafka disabled, indexing reviews in-process")
		return event.NewInline(engine, logger), nil, nil
	}

	producer := pkgkafka.NewProducer(pkgkafka.ProducerConfig{
		Brokers:      cfg.KafkaBrokers,
		BatchTimeout: 10 * time.Millisecond,
	}, serviceName, logger)
	dl := pkgkafka.NewDeadLetter(cfg.KafkaBrokers, logger)

	indexer := event.NewConsumer(engine, logger)
	dedup := pkgkafka.NewRedisIdempotencyStore(rdb, "reviewlar:events:", cfg.EventDedupTTL)
	a.consumer = pkgkafka.NewConsumer(pkgkafka.ConsumerConfig{
		Brokers: cfg.KafkaBrokers,
		GroupID: cfg.KafkaGroupID,
		Topics:  event.Topics,
	}, pkgkafka.IdempotentHandler(dedup, indexer.Handle, logger), dl, logger)

	// Closers run in reverse, so the consumer stops before the writers it
	// might still dead-letter to.
	a.onClose("kafka producer", producer.Close)
	a.onClose("kafka dead letter", dl.Close)
	a.onClose("kafka consumer", a.consumer.Close)

	logger.Info("kafka initialized",
		slog.Any("brokers", cfg.KafkaBrokers),
		slog.Int("topic_count", len(event.Topics)),
	)
	return event.NewProducer(producer, logger), producer, nil
}

func newSuggestBackend(ctx context.Context, cfg *config.Config) (suggest.Backend, error) {
	if cfg.Suggester == config.SuggesterHTTP {
		return suggest.NewHTTP(httpclient.New(httpclient.DefaultConfig(), nil), cfg.SuggesterURL), nil
	}
	g, err := suggest.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, fmt.Errorf("init gemini: %w", err)
	}
	return g, nil
}

func (a *App) onClose(name string, fn func() error) {
	a.closers = append(a.closers, namedCloser{name: name, close: fn})
}

// closeAll runs closers in reverse order of registration.
func (a *App) closeAll() []error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.close(); err != nil {
			a.logger.Error("close error",
				slog.String("component", c.name),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Errorf("close %s: %w", c.name, err))
		}
	}
	a.closers = nil
	return errs
}

// Run starts the HTTP server and the Kafka consumer, blocking until the
// context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	if a.consumer != nil {
		go func() {
			if err := a.consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("kafka consumer: %w", err)
			}
		}()
	}

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case runErr = <-errCh:
	}

	return errors.Join(runErr, a.Shutdown())
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}
	errs = append(errs, a.closeAll()...)

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
