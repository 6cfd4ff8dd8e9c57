package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/phrazzld/standup-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user. The plaintext Password is hashed by the
	// implementation and cleared from the struct afterwards.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail looks up a user by email, case-insensitively.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List returns every user ordered by name.
	List(ctx context.Context) ([]*domain.User, error)

	// Update persists name, avatar, email and default client.
	// Returns ErrUserNotFound if the user does not exist and
	// ErrInvalidEntity if the default client does not exist.
	Update(ctx context.Context, user *domain.User) error

	// WithTx returns a UserStore bound to tx.
	WithTx(tx *sql.Tx) UserStore
}
