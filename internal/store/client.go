package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/phrazzld/standup-api/internal/domain"
)

// ClientStore defines the interface for client data persistence.
// Clients are shared by all users.
type ClientStore interface {
	// Create returns ErrClientTagExists when the tag is taken.
	Create(ctx context.Context, client *domain.Client) error

	// GetByID returns ErrClientNotFound if the client does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)

	// List returns every client ordered by name.
	List(ctx context.Context) ([]*domain.Client, error)

	// Update returns ErrClientNotFound or ErrClientTagExists.
	Update(ctx context.Context, client *domain.Client) error

	// Delete removes the client. References from users and recurring tasks
	// are cleared by the database.
	// Returns ErrClientNotFound if the client does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a ClientStore bound to tx.
	WithTx(tx *sql.Tx) ClientStore
}
