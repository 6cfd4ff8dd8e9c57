package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/phrazzld/standup-api/internal/domain"
)

// RecurringTaskStore defines the interface for recurring task persistence.
type RecurringTaskStore interface {
	// Create saves a new recurring task.
	Create(ctx context.Context, task *domain.RecurringTask) error

	// GetByID returns ErrRecurringTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.RecurringTask, error)

	// ListByUser returns the user's tasks in creation order. Rows are
	// returned as stored, without re-validation.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.RecurringTask, error)

	// Update replaces every mutable field.
	// Returns ErrRecurringTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.RecurringTask) error

	// Delete returns ErrRecurringTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a RecurringTaskStore bound to tx.
	WithTx(tx *sql.Tx) RecurringTaskStore
}
