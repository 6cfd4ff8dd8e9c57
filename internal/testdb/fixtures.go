package testdb

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// MustInsertUser inserts a user row directly and returns its ID. The
// password hash is a placeholder; use the user store when a real hash is
// needed.
func MustInsertUser(t *testing.T, tx *sql.Tx, email string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	now := time.Now().UTC()
	_, err := tx.ExecContext(context.Background(), `
		INSERT INTO users (id, email, name, hashed_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)`,
		id, email, email, "$2a$04$placeholderplaceholderplaceholderplaceholderpl", now)
	require.NoError(t, err, "Failed to insert test user")
	return id
}

// MustInsertClient inserts a client row directly and returns its ID.
func MustInsertClient(t *testing.T, tx *sql.Tx, name, tag string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := tx.ExecContext(context.Background(), `
		INSERT INTO clients (id, name, emoji, color, tag, created_at)
		VALUES ($1, $2, '', '#336699', $3, $4)`,
		id, name, tag, time.Now().UTC())
	require.NoError(t, err, "Failed to insert test client")
	return id
}
