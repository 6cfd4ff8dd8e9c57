package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/standup-api/internal/domain"
)

// CardFilter narrows a card listing. Zero values mean "no constraint".
// From and To are inclusive calendar dates.
type CardFilter struct {
	UserID *uuid.UUID
	From   time.Time
	To     time.Time
}

// CardStore defines the interface for activity card persistence.
type CardStore interface {
	// Create saves a new card.
	// Returns ErrCardExists if the user already has a card for that date.
	Create(ctx context.Context, card *domain.ActivityCard) error

	// GetByID returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ActivityCard, error)

	// GetByUserAndDate returns the user's card for the calendar date.
	// Returns ErrCardNotFound if there is none.
	GetByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.ActivityCard, error)

	// List returns cards matching filter, newest date first.
	List(ctx context.Context, filter CardFilter) ([]*domain.ActivityCard, error)

	// Update replaces the card's date and every section.
	// Returns ErrCardNotFound, or ErrCardExists when moving onto a date
	// that already has a card.
	Update(ctx context.Context, card *domain.ActivityCard) error

	// Delete returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a CardStore bound to tx.
	//
	// Example usage:
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//       return cardStore.WithTx(tx).Create(ctx, card)
	//   })
	WithTx(tx *sql.Tx) CardStore
}
