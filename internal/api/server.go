// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - Public routes (/health, /ready, /auth) never resolve sessions, so a stale
    token cannot break logout.
  - Every other group sits behind [middleware.Authenticate].
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/fruitlog/internal/activity"
	"github.com/taibuivan/fruitlog/internal/logistics"
	"github.com/taibuivan/fruitlog/internal/platform/constants"
	"github.com/taibuivan/fruitlog/internal/platform/middleware"
	"github.com/taibuivan/fruitlog/internal/users/account"
	"github.com/taibuivan/fruitlog/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// Options carries the transport settings taken from config.
type Options struct {
	Port string
	CORS middleware.AppConfig
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler; it answers 200 while the process runs.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler; it answers 200 when every backend responds.
	Readiness http.HandlerFunc

	// Sessions resolves bearer tokens for the protected groups.
	Sessions middleware.SessionResolver

	// Auth serves the OTP sign-in flow.
	Auth *auth.Handler

	// Users serves admin account management.
	Users *account.Handler

	// Logistics serves trucks and stocks.
	Logistics *logistics.Handler

	// Activity serves the admin inbox and audit trail.
	Activity *activity.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, options Options, log *slog.Logger, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery)
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.NewRateLimiter(context, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst).Handler)
	r.Use(middleware.CORS(options.CORS))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Public API
	r.Mount("/auth", h.Auth.Routes())

	// # Session-Protected API
	r.Group(func(protected chi.Router) {
		protected.Use(middleware.Authenticate(h.Sessions))

		protected.Mount("/users", h.Users.Routes())
		protected.Mount("/trucks", h.Logistics.TruckRoutes())
		protected.Mount("/stocks", h.Logistics.StockRoutes())
		protected.Mount("/notifications", h.Activity.NotificationRoutes())
		protected.Mount("/audit-logs", h.Activity.AuditRoutes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + options.Port,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
