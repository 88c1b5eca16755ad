// Package server provides the HTTP gateway that fronts the upstream finance
// API for dashboard clients: per-session search workflow, normalized results
// with derived fields, result-scoped actions, a live event stream and system
// health endpoints.
package server

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/adeyinka/paydesk/internal/actions"
	"github.com/adeyinka/paydesk/internal/audit"
	"github.com/adeyinka/paydesk/internal/config"
	"github.com/adeyinka/paydesk/internal/domain"
	"github.com/adeyinka/paydesk/internal/search"
	"github.com/adeyinka/paydesk/internal/upstream"
)

// sessionHeader carries the workflow session ID. The server echoes it on
// every response so clients without one can adopt the allocated ID.
const sessionHeader = "X-Paydesk-Session"

// Config holds server configuration.
type Config struct {
	Cfg      *config.Config
	Log      zerolog.Logger
	Upstream *upstream.Client
	Audit    *audit.Store // nil disables action auditing
	Jobs     JobReporter  // nil hides job state from the info endpoint
}

// Server is the paydesk HTTP gateway.
type Server struct {
	router   *chi.Mux
	server   *http.Server
	log      zerolog.Logger
	cfg      *config.Config
	upstream *upstream.Client
	auditLog *audit.Store
	sessions *SessionRegistry
	hub      *EventHub
	system   *SystemHandlers
	started  time.Time
}

// New creates the gateway server.
func New(cfg Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		log:      cfg.Log.With().Str("component", "server").Logger(),
		cfg:      cfg.Cfg,
		upstream: cfg.Upstream,
		auditLog: cfg.Audit,
		hub:      NewEventHub(cfg.Log),
		started:  time.Now(),
	}

	s.sessions = NewSessionRegistry(cfg.Cfg.SessionTTL, s.buildSession, cfg.Log)
	s.system = NewSystemHandlers(cfg.Cfg, cfg.Upstream, cfg.Audit, s.sessions, cfg.Jobs, cfg.Log)

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// buildSession constructs a fresh session's controllers and dispatcher.
func (s *Server) buildSession(id string) *Session {
	controllers := make(map[domain.Kind]*search.Controller, 3)
	for _, kind := range []domain.Kind{domain.KindTransfer, domain.KindPayout, domain.KindTransaction} {
		controllers[kind] = search.NewController(s.upstream, kind, s.cfg.SearchTimeout, s.log)
	}

	var recorder actions.Recorder
	if s.auditLog != nil {
		recorder = s.auditLog
	}

	dispatcher := actions.NewDispatcher(actions.Config{
		Resender: s.upstream,
		Recorder: recorder,
		Exporter: actions.DirExporter{Dir: filepath.Join(s.cfg.DataDir, "exports")},
		Printer:  actions.FilePrinter{Dir: filepath.Join(s.cfg.DataDir, "prints")},
		Company: actions.CompanyInfo{
			Name:    s.cfg.CompanyName,
			Support: s.cfg.CompanySupport,
		},
		Timeout: s.cfg.ActionTimeout,
	}, s.log)

	return &Session{
		ID:          id,
		controllers: controllers,
		dispatcher:  dispatcher,
	}
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(120 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", sessionHeader},
		ExposedHeaders:   []string{sessionHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// loggingMiddleware logs each request with duration.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}

// setupRoutes wires all endpoints.
func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/search/{kind}", s.handleSearch)
		r.Get("/search/{kind}/view", s.handleCurrentView)
		r.Get("/search/{kind}/export", s.handleExport)
		r.Get("/search/{kind}/print", s.handlePrintProof)
		r.Post("/search/{kind}/resend-webhook", s.handleResendWebhook)

		r.Get("/history", s.handleHistory)
		r.Get("/history/{entryID}/replay", s.handleReplay)

		r.Get("/wallet/transactions", s.handleWalletTransactions)
		r.Get("/merchants/{businessID}/payouts", s.handleMerchantPayouts)
		r.Post("/wallet/export", s.handleBulkExport)

		r.Get("/audit/recent", s.handleAuditRecent)

		r.Get("/system/health", s.system.HandleHealth)
		r.Get("/system/info", s.system.HandleInfo)
	})

	s.router.Get("/ws", s.handleEventStream)
}

// Start begins serving. Blocks until the listener fails or is shut down.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes the event hub.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.server.Shutdown(ctx)
}

// Sessions exposes the registry so main can start the janitor.
func (s *Server) Sessions() *SessionRegistry {
	return s.sessions
}

// Router exposes the chi mux for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
