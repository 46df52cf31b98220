// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taibuivan/libris/internal/core/author"
	"github.com/taibuivan/libris/internal/core/book"
	"github.com/taibuivan/libris/internal/core/circulation"
	"github.com/taibuivan/libris/internal/core/search"
	"github.com/taibuivan/libris/internal/core/user"
	"github.com/taibuivan/libris/internal/platform/constants"
	"github.com/taibuivan/libris/internal/platform/middleware"
	"github.com/taibuivan/libris/internal/platform/sec"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler. It returns 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It returns 200 when storage and cache answer.
	Readiness http.HandlerFunc

	Author      *author.Handler
	Book        *book.Handler
	Search      *search.Handler
	User        *user.Handler
	Circulation *circulation.Handler
}

// Options carries the transport settings the router needs.
type Options struct {
	Port string

	// CORS is consulted for the allowed origins.
	CORS middleware.AppConfig

	// Verifier checks staff tokens. Nil leaves staff routes open.
	Verifier middleware.TokenVerifier
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
	r.Use(middleware.Metrics)
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(options.CORS))
	r.Use(chimw.CleanPath)

	guard := staffGuard(r, options.Verifier, log)

	// # Infrastructure Endpoints
	// Unauthenticated probes for container orchestration and scraping.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/authors", func(router chi.Router) {
			h.Author.RegisterRoutes(router, guard)
		})

		// /books/search is registered before /books/{id} so chi matches it literally.
		api.Route("/books", func(router chi.Router) {
			h.Search.RegisterRoutes(router)
			h.Book.RegisterRoutes(router, guard)
		})

		api.Route("/users", func(router chi.Router) {
			h.User.RegisterRoutes(router, guard)
		})

		api.Route("/circulation", func(router chi.Router) {
			h.Circulation.RegisterRoutes(router, guard)
		})
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

// staffGuard installs token authentication on the router and returns the
// middleware that protects librarian-only routes.
func staffGuard(r chi.Router, verifier middleware.TokenVerifier, log *slog.Logger) func(http.Handler) http.Handler {
	if verifier == nil {
		log.Warn("staff_auth_disabled", slog.String("reason", "no JWT public key configured"))
		return middleware.Passthrough
	}

	r.Use(middleware.Authenticate(verifier))
	return middleware.RequireRole(sec.RoleLibrarian)
}

// Handler exposes the fully wired router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
