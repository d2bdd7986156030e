// Package api provides the HTTP API server.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/textloom/textloom/internal/api/handlers"
	"github.com/textloom/textloom/internal/api/health"
	"github.com/textloom/textloom/internal/api/middleware"
	"github.com/textloom/textloom/internal/auth"
	"github.com/textloom/textloom/internal/members"
	"github.com/textloom/textloom/internal/store"
	"github.com/textloom/textloom/pkg/config"
)

// Version is the current version of the API server.
// This should be set at build time using ldflags.
var Version = "dev"

// Server represents the HTTP API server.
type Server struct {
	router        chi.Router
	httpServer    *http.Server
	store         store.Store
	auth          *auth.Service
	members       *members.Service
	config        *config.Config
	logger        *slog.Logger
	healthChecker *health.Checker
}

// NewServer creates a new API server with the given dependencies.
func NewServer(cfg *config.Config, st store.Store, pinger health.Pinger, authSvc *auth.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		store:   st,
		auth:    authSvc,
		members: members.NewService(st, logger),
		config:  cfg,
		logger:  logger,
	}

	s.healthChecker = health.NewChecker(pinger, Version)

	s.setupRouter()
	return s
}

// setupRouter configures the router with middleware and routes.
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(s.logger))
	r.Use(middleware.Recovery(s.logger))
	r.Use(middleware.Prometheus)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// Health and metrics endpoints (no auth required)
	r.Get("/health", s.healthChecker.Handler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Auth routes (no auth required)
	authHandler := handlers.NewAuthHandler(s.store, s.auth, s.logger)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		authMiddleware := middleware.NewAuthMiddleware(s.auth, s.logger)
		r.Use(authMiddleware.Authenticate)

		projectsHandler := handlers.NewProjectsHandler(s.store, s.members, s.logger)
		invitationsHandler := handlers.NewInvitationsHandler(s.members, s.logger)
		membersHandler := handlers.NewMembersHandler(s.members, s.logger)

		// Guest-facing invitation routes
		r.Route("/invitations", func(r chi.Router) {
			r.Get("/", invitationsHandler.ListForGuest)
			r.Post("/{invitationID}/accept", invitationsHandler.Accept)
			r.Post("/{invitationID}/decline", invitationsHandler.Decline)
		})

		// Project routes
		r.Route("/projects", func(r chi.Router) {
			r.Post("/", projectsHandler.Create)
			r.Get("/", projectsHandler.List)
			r.Route("/{projectID}", func(r chi.Router) {
				r.Get("/", projectsHandler.Get)
				r.Patch("/", projectsHandler.Update)
				r.Delete("/", projectsHandler.Delete)

				r.Post("/invitations", invitationsHandler.Create)
				r.Delete("/invitations/{invitationID}", invitationsHandler.Withdraw)

				r.Get("/members", membersHandler.List)
				r.Patch("/members/{userID}", membersHandler.UpdateRole)
				r.Delete("/members/{userID}", membersHandler.Remove)
			})
		})
	})

	s.router = r
}

// Start starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.APIHost, s.config.APIPort)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down HTTP server")
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		return nil
	}
}

// Router returns the underlying router. Used by tests.
func (s *Server) Router() chi.Router {
	return s.router
}
