// Package server wires handlers, middleware, and routes together.
//
// This is the composition root: New builds the full dependency chain
// (sqlite.DB → services → handlers) in one place, and setupRoutes decides
// which URL patterns reach which handlers behind which middleware. main.go
// stays minimal — read config, call New, call Start.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/omk-66/playgrounds/internal/auth"
	"github.com/omk-66/playgrounds/internal/config"
	"github.com/omk-66/playgrounds/internal/handler"
	"github.com/omk-66/playgrounds/internal/middleware"
	sqliteRepo "github.com/omk-66/playgrounds/internal/repository/sqlite"
	"github.com/omk-66/playgrounds/internal/service"
)

// Server owns the router and the database connection. The DB is closed
// during graceful shutdown so the WAL is flushed and the file lock released.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with the full dependency chain assembled.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	// Expired sessions are swept once at startup; there is no background
	// sweeper, and stale rows are harmless in between (resolution checks
	// expiry anyway).
	if n, err := db.DeleteExpiredSessions(context.Background()); err != nil {
		logger.Warn("failed to sweep expired sessions", slog.String("error", err.Error()))
	} else if n > 0 {
		logger.Info("swept expired sessions", slog.Int64("count", n))
	}

	return s, nil
}

// setupRoutes configures middleware and routes.
//
// ROUTE MAP:
//
//	GET    /session                        → current user or null
//	GET    /api/auth/github                → OAuth redirect
//	GET    /api/auth/github/callback       → OAuth callback
//	POST   /api/auth/sign-up               → email/password registration
//	POST   /api/auth/sign-in               → email/password login
//	POST   /api/auth/sign-out              → revoke session
//	POST   /api/addPlayground              → create playground
//	GET    /api/playground/{userId}        → list caller's playgrounds
//	DELETE /api/playground/{playgroundId}  → delete playground
//
// Middleware order matters: RequestID and RealIP run before the logger so
// log lines carry both; Recoverer keeps a panicking handler from killing the
// process; the session middleware runs on every route and each handler
// decides what anonymous callers may do.
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	github := auth.NewGitHubProvider(
		s.config.GitHubClientID,
		s.config.GitHubClientSecret,
		s.config.GitHubCallbackURL,
	)

	authService := service.NewAuthService(s.db, s.db, s.db, tokens, auth.NewPasswordService(), s.logger)
	playgroundService := service.NewPlaygroundService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(github, authService, s.logger)
	playgroundHandler := handler.NewPlaygroundHandler(playgroundService, s.logger)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// The browser client runs on a different origin in development, so it
	// needs CORS with credentials for the session cookie to flow.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.config.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Cookie"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
	}))

	s.router.Use(auth.WithSession(authService))

	s.router.Get("/session", authHandler.HandleSession)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Get("/github", authHandler.HandleGitHubLogin)
			r.Get("/github/callback", authHandler.HandleGitHubCallback)
			r.Post("/sign-up", authHandler.HandleSignUp)
			r.Post("/sign-in", authHandler.HandleSignIn)
			r.Post("/sign-out", authHandler.HandleSignOut)
		})

		r.Post("/addPlayground", playgroundHandler.HandleCreate)
		r.Get("/playground/{userId}", playgroundHandler.HandleList)
		r.Delete("/playground/{playgroundId}", playgroundHandler.HandleDelete)
	})

	return nil
}

// Handler returns the assembled router. Tests mount it on httptest.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database. Only needed when the server was created but
// Start was never called (tests).
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30 seconds
// to finish, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
