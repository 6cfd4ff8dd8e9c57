package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/standup-api/internal/domain"
	"github.com/phrazzld/standup-api/internal/domain/recurrence"
	"github.com/phrazzld/standup-api/internal/platform/logger"
	"github.com/phrazzld/standup-api/internal/store"
)

// RecurringTaskInput is the user-editable part of a recurring task.
type RecurringTaskInput struct {
	Text         string
	TimeEstimate *float64
	ClientID     *uuid.UUID
	Frequency    domain.Frequency
	DaysOfWeek   []int
	DayOfMonth   *int
}

// RecurringTaskService manages a user's recurring task templates.
type RecurringTaskService interface {
	// ListTasks returns all of userID's recurring tasks.
	ListTasks(ctx context.Context, userID uuid.UUID) ([]domain.RecurringTask, error)

	// CreateTask validates input and stores a new task for userID.
	CreateTask(ctx context.Context, userID uuid.UUID, input RecurringTaskInput) (*domain.RecurringTask, error)

	// UpdateTask replaces a task owned by userID.
	UpdateTask(
		ctx context.Context,
		userID, taskID uuid.UUID,
		input RecurringTaskInput,
	) (*domain.RecurringTask, error)

	// DeleteTask removes a task owned by userID.
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error

	// DueTasks returns userID's tasks due on date (today when nil), in
	// stored order, along with the resolved date.
	DueTasks(ctx context.Context, userID uuid.UUID, date *time.Time) ([]domain.RecurringTask, time.Time, error)
}

type recurringTaskServiceImpl struct {
	tasks    store.RecurringTaskStore
	calendar Calendar
	logger   *slog.Logger
}

// NewRecurringTaskService creates a new RecurringTaskService.
func NewRecurringTaskService(
	tasks store.RecurringTaskStore,
	calendar Calendar,
	logger *slog.Logger,
) (RecurringTaskService, error) {
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &recurringTaskServiceImpl{
		tasks:    tasks,
		calendar: calendar,
		logger:   logger.With(slog.String("component", "recurring_task_service")),
	}, nil
}

// ListTasks implements RecurringTaskService.ListTasks.
func (s *recurringTaskServiceImpl) ListTasks(
	ctx context.Context,
	userID uuid.UUID,
) ([]domain.RecurringTask, error) {
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list recurring tasks",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("recurring_task", "list", err)
	}
	return tasks, nil
}

// CreateTask implements RecurringTaskService.CreateTask.
func (s *recurringTaskServiceImpl) CreateTask(
	ctx context.Context,
	userID uuid.UUID,
	input RecurringTaskInput,
) (*domain.RecurringTask, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := time.Now().UTC()
	task := &domain.RecurringTask{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	input.applyTo(task)

	task.Normalize()
	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, s.mapError(log, "create", err)
	}

	log.Info("created recurring task",
		slog.String("user_id", userID.String()),
		slog.String("task_id", task.ID.String()),
		slog.String("frequency", string(task.Frequency)))
	return task, nil
}

// UpdateTask implements RecurringTaskService.UpdateTask.
func (s *recurringTaskServiceImpl) UpdateTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	input RecurringTaskInput,
) (*domain.RecurringTask, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.ownedTask(ctx, userID, taskID)
	if err != nil {
		return nil, s.mapError(log, "update", err)
	}

	input.applyTo(task)
	task.UpdatedAt = time.Now().UTC()
	task.Normalize()
	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, s.mapError(log, "update", err)
	}

	log.Info("updated recurring task", slog.String("task_id", taskID.String()))
	return task, nil
}

// DeleteTask implements RecurringTaskService.DeleteTask.
func (s *recurringTaskServiceImpl) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.ownedTask(ctx, userID, taskID); err != nil {
		return s.mapError(log, "delete", err)
	}
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return s.mapError(log, "delete", err)
	}

	log.Info("deleted recurring task", slog.String("task_id", taskID.String()))
	return nil
}

// DueTasks implements RecurringTaskService.DueTasks.
func (s *recurringTaskServiceImpl) DueTasks(
	ctx context.Context,
	userID uuid.UUID,
	date *time.Time,
) ([]domain.RecurringTask, time.Time, error) {
	target := s.calendar.DateOrToday(date)

	tasks, err := s.ListTasks(ctx, userID)
	if err != nil {
		return nil, target, err
	}
	return recurrence.DueOn(tasks, target), target, nil
}

func (s *recurringTaskServiceImpl) ownedTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
) (*domain.RecurringTask, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, ErrNotOwned
	}
	return task, nil
}

func (s *recurringTaskServiceImpl) mapError(log *slog.Logger, op string, err error) error {
	switch {
	case errors.Is(err, ErrNotOwned):
		log.Warn("recurring task owned by another user", slog.String("operation", op))
		return ErrNotOwned
	case store.IsNotFoundError(err):
		return store.ErrRecurringTaskNotFound
	case errors.Is(err, store.ErrInvalidEntity):
		// An unknown client ID fails the foreign key.
		return domain.NewValidationError("client_id", "unknown client", err)
	}
	log.Error("recurring task operation failed",
		slog.String("operation", op),
		slog.String("error", err.Error()))
	return NewServiceError("recurring_task", op, err)
}

func (in RecurringTaskInput) applyTo(task *domain.RecurringTask) {
	task.Text = in.Text
	task.TimeEstimate = in.TimeEstimate
	task.ClientID = in.ClientID
	task.Frequency = in.Frequency
	task.DaysOfWeek = in.DaysOfWeek
	task.DayOfMonth = in.DayOfMonth
}
