// Package api serves the dashboard JSON API, the Telegram webhook, and the
// cron trigger endpoint.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"paisa/internal/budget"
	"paisa/internal/config"
	"paisa/internal/core"
	"paisa/internal/telegram"
)

// Store is the slice of the repository the API needs.
type Store interface {
	GetProfile(ctx context.Context) (core.Profile, error)
	UpdateProfile(ctx context.Context, p core.Profile) error
	ListCategories(ctx context.Context) ([]core.Category, error)
	CreateExpense(ctx context.Context, e core.Expense) (int64, error)
	UpdateExpense(ctx context.Context, e core.Expense) error
	DeleteExpense(ctx context.Context, id int64) error
	ListExpenses(ctx context.Context, from, to time.Time) ([]core.Expense, error)
	ListMonthlySalaries(ctx context.Context) ([]core.MonthlySalary, error)
	UpsertMonthlySalary(ctx context.Context, ms core.MonthlySalary) error
	EnsureMonthlySalary(ctx context.Context, t time.Time, p core.Profile) (core.MonthlySalary, error)
}

// UpdateHandler consumes inbound Telegram updates.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, u telegram.Update)
}

// ReminderRunner evaluates due reminders for an instant.
type ReminderRunner interface {
	Run(ctx context.Context, now time.Time) ([]string, error)
}

// Server wires the HTTP surface together.
type Server struct {
	cfg       *config.Config
	store     Store
	bot       UpdateHandler
	scheduler ReminderRunner

	sessions *SessionManager
	limiter  *RateLimiter
	engine   *budget.Engine
	overview *memo

	httpServer *http.Server
}

// NewServer builds the server and its router. Mutating dashboard endpoints
// share one 60-requests-per-minute limiter.
func NewServer(cfg *config.Config, store Store, bot UpdateHandler, scheduler ReminderRunner) *Server {
	s := &Server{
		cfg:       cfg,
		store:     store,
		bot:       bot,
		scheduler: scheduler,
		sessions:  NewSessionManager(cfg.SessionSecret),
		limiter:   NewRateLimiter(60, time.Minute),
		engine:    budget.NewEngine(),
		overview:  newMemo(30 * time.Second),
	}

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/telegram/webhook", s.handleWebhook)
	r.Get("/cron/reminders", s.handleCron)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)

			r.Post("/logout", s.handleLogout)
			r.Get("/overview", s.handleOverview)

			r.Get("/expenses", s.handleListExpenses)
			r.With(s.limiter.Middleware).Post("/expenses", s.handleCreateExpense)
			r.With(s.limiter.Middleware).Put("/expenses/{id}", s.handleUpdateExpense)
			r.With(s.limiter.Middleware).Delete("/expenses/{id}", s.handleDeleteExpense)

			r.Get("/categories", s.handleListCategories)

			r.Get("/settings", s.handleGetSettings)
			r.With(s.limiter.Middleware).Put("/settings", s.handleUpdateSettings)

			r.Get("/salaries", s.handleListSalaries)
			r.With(s.limiter.Middleware).Put("/salaries/{month}", s.handleUpsertSalary)
		})
	})

	return r
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	slog.Info("HTTP server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.InfoContext(r.Context(), "Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
