// Package main implements the entry point for the standup API server,
// which stores the team's daily activity cards and recurring tasks.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/phrazzld/standup-api/internal/config"
	"github.com/phrazzld/standup-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "Run a database migration command: up, down, reset, status, version")
	verbose := flag.Bool("verbose", false, "Enable verbose migration output")
	flag.Parse()

	if err := run(context.Background(), *migrateCmd, *verbose); err != nil {
		slog.Error("fatal error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run loads configuration and either executes a migration command or
// starts the server until it is signalled to stop.
func run(ctx context.Context, migrateCmd string, verbose bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("timezone", cfg.Server.Timezone))

	db, err := setupAppDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer func() { _ = db.Close() }()
		return runMigrations(ctx, db, migrateCmd, verbose, log)
	}

	// Schema is brought up to date before serving traffic.
	if err := runMigrations(ctx, db, "up", verbose, log); err != nil {
		_ = db.Close()
		return err
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}
