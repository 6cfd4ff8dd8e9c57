package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/standup-api/internal/domain"
	"github.com/phrazzld/standup-api/internal/domain/recurrence"
	"github.com/phrazzld/standup-api/internal/platform/logger"
	"github.com/phrazzld/standup-api/internal/store"
)

// CardService provides activity card operations.
type CardService interface {
	// CreateCard creates userID's card for date (today when nil), seeded
	// with the recurring tasks due that day followed by the previous day's
	// tasks for tomorrow. Returns ErrCardExists if the card already exists.
	CreateCard(ctx context.Context, userID uuid.UUID, date *time.Time) (*domain.ActivityCard, error)

	// GetCard retrieves a card by its ID. Cards are readable team-wide.
	GetCard(ctx context.Context, cardID uuid.UUID) (*domain.ActivityCard, error)

	// ListCards returns cards matching filter, newest first.
	ListCards(ctx context.Context, filter store.CardFilter) ([]*domain.ActivityCard, error)

	// UpdateCard replaces the sections of a card owned by userID.
	UpdateCard(
		ctx context.Context,
		userID, cardID uuid.UUID,
		content domain.CardContent,
	) (*domain.ActivityCard, error)

	// DeleteCard deletes a card owned by userID.
	DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error

	// AutoCreateCards creates today's card for every user that has none.
	AutoCreateCards(ctx context.Context) (AutoCreateResult, error)
}

// AutoCreateResult counts the outcomes of an AutoCreateCards run.
type AutoCreateResult struct {
	Date    time.Time
	Created int
	Skipped int
	Failed  int
}

type cardServiceImpl struct {
	db       *sql.DB
	cards    store.CardStore
	tasks    store.RecurringTaskStore
	users    store.UserStore
	calendar Calendar
	logger   *slog.Logger
}

// NewCardService creates a new CardService.
// It returns an error if any of the required dependencies are nil.
func NewCardService(
	db *sql.DB,
	cards store.CardStore,
	tasks store.RecurringTaskStore,
	users store.UserStore,
	calendar Calendar,
	logger *slog.Logger,
) (CardService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if cards == nil {
		return nil, domain.NewValidationError("cards", "cannot be nil", domain.ErrValidation)
	}
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &cardServiceImpl{
		db:       db,
		cards:    cards,
		tasks:    tasks,
		users:    users,
		calendar: calendar,
		logger:   logger.With(slog.String("component", "card_service")),
	}, nil
}

// CreateCard implements CardService.CreateCard.
func (s *cardServiceImpl) CreateCard(
	ctx context.Context,
	userID uuid.UUID,
	date *time.Time,
) (*domain.ActivityCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	target := s.calendar.DateOrToday(date)

	log = log.With(
		slog.String("user_id", userID.String()),
		slog.String("date", domain.FormatDate(target)))

	var card *domain.ActivityCard
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cards.WithTx(tx)

		_, err := cards.GetByUserAndDate(ctx, userID, target)
		switch {
		case err == nil:
			return ErrCardExists
		case !store.IsNotFoundError(err):
			return fmt.Errorf("check existing card: %w", err)
		}

		user, err := s.users.WithTx(tx).GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}

		definitions, err := s.tasks.WithTx(tx).ListByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("load recurring tasks: %w", err)
		}
		due := recurrence.DueOn(definitions, target)

		previous, err := cards.GetByUserAndDate(ctx, userID, domain.AddDays(target, -1))
		if err != nil {
			if !store.IsNotFoundError(err) {
				return fmt.Errorf("load previous card: %w", err)
			}
			previous = nil
		}
		if previous != nil && (previous.UserID != userID || !recurrence.IsPreviousDay(previous, target)) {
			log.Warn("ignoring mismatched previous card",
				slog.String("previous_card_id", previous.ID.String()))
			previous = nil
		}

		items := recurrence.BuildInitialItems(due, previous, user.DefaultClientID)
		card, err = domain.NewActivityCard(userID, target, items)
		if err != nil {
			return err
		}

		log.Debug("creating card",
			slog.Int("recurring_items", len(due)),
			slog.Int("rollover_items", len(items)-len(due)))

		if err := cards.Create(ctx, card); err != nil {
			if errors.Is(err, store.ErrCardExists) {
				return ErrCardExists
			}
			return fmt.Errorf("insert card: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCardExists) {
			log.Debug("card already exists")
			return nil, ErrCardExists
		}
		log.Error("failed to create card", slog.String("error", err.Error()))
		return nil, NewServiceError("card", "create", err)
	}

	log.Info("created card",
		slog.String("card_id", card.ID.String()),
		slog.Int("item_count", len(card.WhatIDid)))
	return card, nil
}

// GetCard implements CardService.GetCard.
func (s *cardServiceImpl) GetCard(ctx context.Context, cardID uuid.UUID) (*domain.ActivityCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("card not found", slog.String("card_id", cardID.String()))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to retrieve card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, NewServiceError("card", "get", err)
	}
	return card, nil
}

// ListCards implements CardService.ListCards.
func (s *cardServiceImpl) ListCards(
	ctx context.Context,
	filter store.CardFilter,
) ([]*domain.ActivityCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !filter.From.IsZero() && !filter.To.IsZero() && filter.From.After(filter.To) {
		return nil, domain.NewValidationError("from", "must not be after to", ErrInvalidDateRange)
	}

	cards, err := s.cards.List(ctx, filter)
	if err != nil {
		log.Error("failed to list cards", slog.String("error", err.Error()))
		return nil, NewServiceError("card", "list", err)
	}
	return cards, nil
}

// UpdateCard implements CardService.UpdateCard.
func (s *cardServiceImpl) UpdateCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
	content domain.CardContent,
) (*domain.ActivityCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()))

	var card *domain.ActivityCard
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cards.WithTx(tx)

		var err error
		card, err = s.ownedCard(ctx, cards, userID, cardID)
		if err != nil {
			return err
		}

		if err := card.Replace(content); err != nil {
			return err
		}
		return cards.Update(ctx, card)
	})
	if err != nil {
		return nil, s.mapWriteError(log, "update", err)
	}

	log.Info("updated card")
	return card, nil
}

// DeleteCard implements CardService.DeleteCard.
func (s *cardServiceImpl) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()))

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cards.WithTx(tx)
		if _, err := s.ownedCard(ctx, cards, userID, cardID); err != nil {
			return err
		}
		return cards.Delete(ctx, cardID)
	})
	if err != nil {
		return s.mapWriteError(log, "delete", err)
	}

	log.Info("deleted card")
	return nil
}

// AutoCreateCards implements CardService.AutoCreateCards. A failure for
// one user is logged and does not stop the run.
func (s *cardServiceImpl) AutoCreateCards(ctx context.Context) (AutoCreateResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	today := s.calendar.Today()
	result := AutoCreateResult{Date: today}

	users, err := s.users.List(ctx)
	if err != nil {
		log.Error("failed to list users for auto-create", slog.String("error", err.Error()))
		return result, NewServiceError("card", "auto_create", err)
	}

	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		_, err := s.CreateCard(ctx, user.ID, &today)
		switch {
		case err == nil:
			result.Created++
		case errors.Is(err, ErrCardExists):
			result.Skipped++
		default:
			result.Failed++
			log.Error("auto-create failed for user",
				slog.String("user_id", user.ID.String()),
				slog.String("error", err.Error()))
		}
	}

	log.Info("auto-create run finished",
		slog.String("date", domain.FormatDate(today)),
		slog.Int("created", result.Created),
		slog.Int("skipped", result.Skipped),
		slog.Int("failed", result.Failed))
	return result, nil
}

// ownedCard loads cardID and checks that userID owns it.
func (s *cardServiceImpl) ownedCard(
	ctx context.Context,
	cards store.CardStore,
	userID, cardID uuid.UUID,
) (*domain.ActivityCard, error) {
	card, err := cards.GetByID(ctx, cardID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrCardNotFound
		}
		return nil, err
	}
	if card.UserID != userID {
		return nil, ErrNotOwned
	}
	return card, nil
}

// mapWriteError passes expected conditions through unchanged and wraps
// everything else in a ServiceError.
func (s *cardServiceImpl) mapWriteError(log *slog.Logger, op string, err error) error {
	switch {
	case errors.Is(err, ErrNotOwned):
		log.Warn("card owned by another user", slog.String("operation", op))
		return ErrNotOwned
	case store.IsNotFoundError(err):
		return store.ErrCardNotFound
	case errors.Is(err, store.ErrCardExists):
		return ErrCardExists
	case errors.Is(err, domain.ErrValidation):
		return err
	}
	log.Error("card write failed",
		slog.String("operation", op),
		slog.String("error", err.Error()))
	return NewServiceError("card", op, err)
}
