package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/phrazzld/standup-api/internal/platform/postgres/migrations"
)

// MigrationTableName is the table goose uses to track applied versions.
const MigrationTableName = "schema_migrations"

// migrationCommands lists what -migrate accepts.
var migrationCommands = []string{"up", "down", "reset", "status", "version"}

// slogGooseLogger adapts goose's logger to slog. Fatalf does not exit so
// failures surface as returned errors.
type slogGooseLogger struct {
	logger *slog.Logger
}

func (l *slogGooseLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l *slogGooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

// configureGoose points goose at the embedded migrations.
func configureGoose(logger *slog.Logger, verbose bool) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetTableName(MigrationTableName)
	goose.SetLogger(&slogGooseLogger{logger: logger})
	goose.SetVerbose(verbose)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	return nil
}

// runMigrations executes a goose command against db.
func runMigrations(ctx context.Context, db *sql.DB, command string, verbose bool, logger *slog.Logger) error {
	log := logger.With(slog.String("component", "migrations"), slog.String("command", command))
	if err := configureGoose(log, verbose); err != nil {
		return err
	}

	start := time.Now()
	var err error
	switch command {
	case "up":
		err = goose.UpContext(ctx, db, ".")
	case "down":
		err = goose.DownContext(ctx, db, ".")
	case "reset":
		err = goose.ResetContext(ctx, db, ".")
	case "status":
		err = goose.StatusContext(ctx, db, ".")
	case "version":
		err = goose.VersionContext(ctx, db, ".")
	default:
		return fmt.Errorf("unknown migration command %q (expected one of %v)", command, migrationCommands)
	}
	if err != nil {
		log.Error("migration command failed", slog.String("error", err.Error()))
		return fmt.Errorf("migration command %q failed: %w", command, err)
	}

	log.Info("migration command completed", slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}
