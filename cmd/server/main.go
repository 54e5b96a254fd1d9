// Package main is the entry point for the playgrounds API server.
//
// main stays minimal: read configuration, create the logger, hand both to
// the server package. All real wiring lives in internal/server.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/omk-66/playgrounds/internal/config"
	"github.com/omk-66/playgrounds/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.JWTSecret == "" {
		// There is no unauthenticated mode — every interesting route needs a
		// session, and sessions need a signing secret.
		logger.Error("JWT_SECRET is not set; generate one with: openssl rand -hex 32")
		os.Exit(1)
	}

	// Make sure the database directory exists before sqlite tries to create
	// the file inside it.
	if dbDir := filepath.Dir(cfg.DBPath); dbDir != "." {
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dbDir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down via SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
