package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/standup-api/internal/domain"
	"github.com/phrazzld/standup-api/internal/platform/logger"
	"github.com/phrazzld/standup-api/internal/store"
)

const recurringTaskColumns = `id, user_id, text, time_estimate, client_id, frequency,
	days_of_week, day_of_month, created_at, updated_at`

// PostgresRecurringTaskStore implements store.RecurringTaskStore on PostgreSQL.
type PostgresRecurringTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRecurringTaskStore creates a RecurringTaskStore. If logger is
// nil, a default logger will be used.
func NewPostgresRecurringTaskStore(db store.DBTX, logger *slog.Logger) *PostgresRecurringTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRecurringTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "recurring_task_store")),
	}
}

var _ store.RecurringTaskStore = (*PostgresRecurringTaskStore)(nil)

// WithTx implements store.RecurringTaskStore.WithTx
func (s *PostgresRecurringTaskStore) WithTx(tx *sql.Tx) store.RecurringTaskStore {
	return &PostgresRecurringTaskStore{db: tx, logger: s.logger}
}

// Create implements store.RecurringTaskStore.Create
func (s *PostgresRecurringTaskStore) Create(ctx context.Context, task *domain.RecurringTask) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("recurring task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recurring_tasks (`+recurringTaskColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		task.ID,
		task.UserID,
		task.Text,
		nullFloat(task.TimeEstimate),
		nullUUID(task.ClientID),
		string(task.Frequency),
		int32Array(task.DaysOfWeek),
		nullInt(task.DayOfMonth),
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create recurring task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("user_id", task.UserID.String()))
		return MapError(err)
	}

	log.Info("recurring task created",
		slog.String("task_id", task.ID.String()),
		slog.String("frequency", string(task.Frequency)))
	return nil
}

// scanRecurringTask reads a row without validating it; resolution treats
// malformed schedules as never due.
func scanRecurringTask(row rowScanner) (*domain.RecurringTask, error) {
	var (
		t          domain.RecurringTask
		estimate   sql.NullFloat64
		clientID   uuid.NullUUID
		frequency  string
		days       []int32
		dayOfMonth sql.NullInt32
	)
	m := arrayScanner()
	if err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Text,
		&estimate,
		&clientID,
		&frequency,
		m.SQLScanner(&days),
		&dayOfMonth,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.TimeEstimate = floatPtr(estimate)
	t.ClientID = uuidPtr(clientID)
	t.Frequency = domain.Frequency(frequency)
	t.DaysOfWeek = intSlice(days)
	t.DayOfMonth = intPtr(dayOfMonth)
	return &t, nil
}

// GetByID implements store.RecurringTaskStore.GetByID
func (s *PostgresRecurringTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.RecurringTask, error) {
	t, err := scanRecurringTask(s.db.QueryRowContext(ctx,
		`SELECT `+recurringTaskColumns+` FROM recurring_tasks WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrRecurringTaskNotFound
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get recurring task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}
	return t, nil
}

// ListByUser implements store.RecurringTaskStore.ListByUser
func (s *PostgresRecurringTaskStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.RecurringTask, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recurringTaskColumns+`
		FROM recurring_tasks
		WHERE user_id = $1
		ORDER BY created_at, id`, userID)
	if err != nil {
		log.Error("failed to list recurring tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []domain.RecurringTask{}
	for rows.Next() {
		t, err := scanRecurringTask(rows)
		if err != nil {
			return nil, MapError(err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	log.Debug("listed recurring tasks",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

// Update implements store.RecurringTaskStore.Update
func (s *PostgresRecurringTaskStore) Update(ctx context.Context, task *domain.RecurringTask) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return err
	}
	task.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE recurring_tasks
		SET text = $1, time_estimate = $2, client_id = $3, frequency = $4,
		    days_of_week = $5, day_of_month = $6, updated_at = $7
		WHERE id = $8`,
		task.Text,
		nullFloat(task.TimeEstimate),
		nullUUID(task.ClientID),
		string(task.Frequency),
		int32Array(task.DaysOfWeek),
		nullInt(task.DayOfMonth),
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		log.Error("failed to update recurring task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrRecurringTaskNotFound)
}

// Delete implements store.RecurringTaskStore.Delete
func (s *PostgresRecurringTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM recurring_tasks WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete recurring task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrRecurringTaskNotFound)
}
