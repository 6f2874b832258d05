package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/skypagos/ledger/internal/adapter/http/handler"
	"github.com/skypagos/ledger/internal/adapter/http/middleware"
	"github.com/skypagos/ledger/internal/domain"
	"github.com/skypagos/ledger/internal/usecase"
)

// RouterConfig holds dependencies for the router. Optional parts are left
// nil to disable them.
type RouterConfig struct {
	AccountHandler     *handler.AccountHandler
	TransferHandler    *handler.TransferHandler
	TransactionHandler *handler.TransactionHandler
	LedgerHandler      *handler.LedgerHandler
	CatalogHandler     *handler.CatalogHandler
	HealthHandler      *handler.HealthHandler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	HTTPMetrics      *middleware.HTTPMetrics
	MetricsGatherer  prometheus.Gatherer

	// TokenVerifier turns on bearer authentication for /api/v1.
	TokenVerifier middleware.TokenVerifier
	AuthObserver  middleware.AuthObserver

	CORSAllowedOrigins []string
	Logger             zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	if cfg.HTTPMetrics != nil {
		r.Use(cfg.HTTPMetrics.Wrap)
	}

	origins := cfg.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.IdempotencyKeyHeader},
		ExposedHeaders: []string{middleware.IdempotencyReplayHeader, "Retry-After"},
		MaxAge:         300,
	}))

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsGatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	auditOnly := func(r chi.Router) chi.Router { return r }
	adminOnly := auditOnly
	if cfg.TokenVerifier != nil {
		auditOnly = func(r chi.Router) chi.Router {
			return r.With(middleware.RequireRole(domain.Role.CanAudit, cfg.AuthObserver))
		}
		adminOnly = func(r chi.Router) chi.Router {
			return r.With(middleware.RequireRole(domain.Role.CanManageAccounts, cfg.AuthObserver))
		}
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.TokenVerifier != nil {
			r.Use(middleware.Authenticate(cfg.TokenVerifier, cfg.AuthObserver))
		}

		// Idempotency runs after authentication so keys are scoped per caller.
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap)
		}

		r.Post("/transfers", cfg.TransferHandler.Transfer)
		r.Post("/payments", cfg.TransferHandler.Pay)

		// Catalog
		if cfg.CatalogHandler != nil {
			r.Get("/services", cfg.CatalogHandler.Services)
			r.Get("/promotions", cfg.CatalogHandler.Promotions)
		}

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			adminOnly(r).Post("/", cfg.AccountHandler.Open)
			auditOnly(r).Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Get("/{id}/balance", cfg.AccountHandler.Balance)
			r.Get("/{id}/transactions", cfg.AccountHandler.Transactions)
			r.Get("/{id}/spending", cfg.AccountHandler.Spending)
			auditOnly(r).Get("/{id}/reconcile", cfg.LedgerHandler.Reconcile)
			adminOnly(r).Post("/{id}/deactivate", cfg.AccountHandler.Deactivate)
			adminOnly(r).Post("/{id}/activate", cfg.AccountHandler.Activate)
		})

		// Transactions
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/{code}", cfg.TransactionHandler.Get)
			r.Get("/{code}/entries", cfg.TransactionHandler.Entries)
		})

		auditOnly(r).Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)
	})

	return r
}
