// Package web exposes the HTTP API: gallery management, scan check-ins and
// the reporting endpoints.
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kozaktomas/attendance-gate/internal/config"
	"github.com/kozaktomas/attendance-gate/internal/ledger"
	"github.com/kozaktomas/attendance-gate/internal/match"
	"github.com/kozaktomas/attendance-gate/internal/report"
	"github.com/kozaktomas/attendance-gate/internal/store"
	"github.com/kozaktomas/attendance-gate/internal/web/middleware"
)

// Stores bundles the storage interfaces the API depends on. Handlers only
// see the interfaces, so tests plug in the mock store.
type Stores struct {
	Gallery    store.GalleryWriter
	Attendance *ledger.Ledger
	Reporter   *report.Reporter
	Groups     store.GroupStore
}

// Server represents the web server
type Server struct {
	config     *config.Config
	router     *chi.Mux
	httpServer *http.Server
	log        *zap.Logger
}

// NewServer creates a new web server
func NewServer(cfg *config.Config, log *zap.Logger, stores Stores) *Server {
	r := chi.NewRouter()

	s := &Server{
		config: cfg,
		router: r,
		log:    log,
	}

	// Set up middleware stack
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(30 * time.Second))
	r.Use(middleware.CORS())
	r.Use(middleware.RequestLogger(log))

	// Set up routes
	matcher := match.New(cfg.Match.Tolerance)
	s.setupRoutes(matcher, stores)

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info("starting web server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down web server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// Router returns the chi router for testing
func (s *Server) Router() *chi.Mux {
	return s.router
}
