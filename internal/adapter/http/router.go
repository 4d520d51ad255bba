package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hvilla/gastoledger/internal/adapter/http/handler"
	"github.com/hvilla/gastoledger/internal/adapter/http/middleware"
	"github.com/hvilla/gastoledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	ExpenseHandler   *handler.ExpenseHandler
	LedgerHandler    *handler.LedgerHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	RateLimiter      *middleware.RateLimiter
	Logging          *middleware.LoggingMiddleware
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	if cfg.Logging != nil {
		r.Use(cfg.Logging.Wrap)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Expenses
		r.Route("/expenses", func(r chi.Router) {
			r.Post("/", cfg.ExpenseHandler.Capture)
			r.Get("/", cfg.ExpenseHandler.List)
			r.Get("/{id}", cfg.ExpenseHandler.Get)
			r.Get("/{id}/journal", cfg.ExpenseHandler.GetJournal)
			r.Post("/{id}/invoice", cfg.ExpenseHandler.RegisterInvoice)
			r.Post("/{id}/mark-invoiced", cfg.ExpenseHandler.MarkInvoiced)
			r.Post("/{id}/close-without-invoice", cfg.ExpenseHandler.CloseWithoutInvoice)
			r.Post("/{id}/movements", cfg.ExpenseHandler.LinkMovement)
			r.Delete("/{id}/movements/{movementID}", cfg.ExpenseHandler.UnlinkMovement)
		})

		// Ledger-wide reports
		r.Route("/ledger", func(r chi.Router) {
			r.Get("/consistency", cfg.LedgerHandler.Consistency)
		})
	})

	return r
}
