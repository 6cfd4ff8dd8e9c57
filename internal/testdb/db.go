package testdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/standup-api/internal/platform/postgres/migrations"
)

// TestTimeout bounds individual setup operations.
const TestTimeout = 10 * time.Second

// MigrationsTable is the goose version table shared with the server binary.
const MigrationsTable = "schema_migrations"

var (
	migrateOnce sync.Once
	migrateErr  error
)

// GetTestDatabaseURL returns DATABASE_URL, falling back to
// STANDUP_TEST_DB_URL.
func GetTestDatabaseURL() string {
	if u := os.Getenv("DATABASE_URL"); u != "" {
		return u
	}
	return os.Getenv("STANDUP_TEST_DB_URL")
}

// ShouldSkipDatabaseTest reports whether no test database is configured.
func ShouldSkipDatabaseTest() bool {
	return GetTestDatabaseURL() == ""
}

// ApplyMigrations runs every pending embedded migration against db.
func ApplyMigrations(ctx context.Context, db *sql.DB) error {
	store, err := database.NewStore(database.DialectPostgres, MigrationsTable)
	if err != nil {
		return fmt.Errorf("create goose store: %w", err)
	}
	provider, err := goose.NewProvider("", db, migrations.FS, goose.WithStore(store))
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// GetTestDBWithT opens the test database, skipping the test when none is
// configured. The connection is closed when the test finishes.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		t.Skip("DATABASE_URL or STANDUP_TEST_DB_URL not set - skipping integration test")
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "Failed to open database connection")
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "Database ping failed")

	migrateOnce.Do(func() { migrateErr = ApplyMigrations(ctx, db) })
	require.NoError(t, migrateErr, "Failed to apply migrations")

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close database connection: %v", err)
		}
	})
	return db
}

// WithTx runs fn inside a transaction that is rolled back afterwards.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		// sql.ErrTxDone is expected if the test committed or rolled back itself.
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// WithSavepoint runs fn between SAVEPOINT and ROLLBACK TO SAVEPOINT so a
// statement that is expected to fail does not abort the enclosing test
// transaction.
func WithSavepoint(t *testing.T, tx *sql.Tx, fn func()) {
	t.Helper()
	ctx := context.Background()
	_, err := tx.ExecContext(ctx, "SAVEPOINT testdb_expected_failure")
	require.NoError(t, err)
	fn()
	_, err = tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT testdb_expected_failure")
	require.NoError(t, err)
}
