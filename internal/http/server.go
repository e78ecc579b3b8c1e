package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"findash/internal/core"
	flog "findash/internal/log"
	"findash/internal/services"
	"findash/internal/summary"
)

// Ledger is the set of ledger operations the API exposes.
type Ledger interface {
	AddTransaction(ctx context.Context, in core.TransactionInput) (string, error)
	UpdateTransaction(ctx context.Context, id string, in core.TransactionInput) error
	DeleteTransaction(ctx context.Context, id string) error
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	ListTransactions(ctx context.Context, f summary.Filter) ([]core.Transaction, error)

	AddAccount(ctx context.Context, in core.AccountInput) (string, error)
	DeleteAccount(ctx context.Context, id string) error
	ListAccounts(ctx context.Context, accountType core.AccountType) ([]core.Account, error)

	Summary(ctx context.Context, p summary.Period) (summary.Summary, error)
	Periods(ctx context.Context) ([]summary.Period, error)
	Status(ctx context.Context) (services.Status, error)
	ResetAllData(ctx context.Context) error
	SeedDemoData(ctx context.Context, now time.Time) error
}

var _ Ledger = (*services.LedgerService)(nil)

// Options configures NewServer. Zero values pick defaults.
type Options struct {
	Logger         *flog.Logger
	Metrics        *Metrics
	WriteRateLimit int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
	// Production enables the HTTPS redirect.
	Production bool
	// Ready reports whether the store is reachable; nil means always ready.
	Ready func(ctx context.Context) error
	// Now is the clock used for default transaction dates and seeding.
	Now func() time.Time
}

type Server struct {
	http.Server
	ledger  Ledger
	logger  *flog.Logger
	metrics *Metrics
	ready   func(ctx context.Context) error
	now     func() time.Time
}

func NewServer(addr string, ledger Ledger, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = flog.FromSlog(slog.Default(), flog.ComponentHTTP)
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 15 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 15 * time.Second
	}
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{
		ledger:  ledger,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		ready:   opts.Ready,
		now:     opts.Now,
	}
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(opts),
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		flog.Middleware(s.logger),
		middleware.Recoverer,
		middleware.Timeout(opts.RequestTimeout),
		secureHeaders(opts.Production, s.logger.Logger),
		blockSuspicious(s.metrics),
		s.metrics.Middleware,
	)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/transactions", s.handleListTransactions)
		r.Get("/transactions/{id}", s.handleGetTransaction)
		r.Get("/accounts", s.handleListAccounts)
		r.Get("/summary", s.handleSummary)
		r.Get("/periods", s.handlePeriods)
		r.Get("/categories", s.handleCategories)
		r.Get("/admin/status", s.handleStatus)

		r.Group(func(w chi.Router) {
			w.Use(writeLimiter(opts.WriteRateLimit, s.metrics))
			w.Post("/transactions", s.handleCreateTransaction)
			w.Put("/transactions/{id}", s.handleUpdateTransaction)
			w.Delete("/transactions/{id}", s.handleDeleteTransaction)
			w.Post("/accounts", s.handleCreateAccount)
			w.Delete("/accounts/{id}", s.handleDeleteAccount)
			w.Post("/admin/reset", s.handleReset)
			w.Post("/admin/seed", s.handleSeed)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "no such endpoint")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]string{"status": "ok"}).Write(w)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			s.logger.WarnContext(r.Context(), "Readiness check failed", flog.FieldError, err.Error())
			writeJSONError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
	}
	NewJSONResponse().Body(map[string]string{"status": "ready"}).Write(w)
}
