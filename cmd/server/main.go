// Command server runs the crudauth HTTP API.
//
// Configuration comes from (lowest to highest precedence) built-in
// defaults, a JSON file (-c / CONFIG), environment variables and flags.
// JWT_SECRET is mandatory:
//
//	JWT_SECRET=$(openssl rand -hex 32) go run ./cmd/server -db-driver memory
package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/crudauth/internal/config"
	"github.com/sakif/crudauth/internal/repository/sqlite"
	"github.com/sakif/crudauth/internal/server"
)

func main() {
	// === 1. CONFIGURATION ===
	cfg, err := config.Load(os.Args[1:], os.LookupEnv)
	if err != nil {
		slog.Error("loading configuration", slog.String("error", err.Error()))
		os.Exit(2)
	}

	// === 2. LOGGING ===
	level, _ := cfg.SlogLevel() // already checked by config.Load
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	// === 3. DATA DIRECTORY ===
	// os.MkdirAll is `mkdir -p`; sqlite will not create parent directories.
	if cfg.DBDriver == config.DriverSQLite && cfg.DBPath != sqlite.MemoryPath {
		dbDir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dbDir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	// === 4. START ===
	srv, err := server.New(context.Background(), *cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
