package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/standup-api/internal/domain"
	"github.com/phrazzld/standup-api/internal/platform/logger"
	"github.com/phrazzld/standup-api/internal/store"
)

const cardColumns = `id, user_id, date, what_i_did, what_broke, how_i_fixed,
	tasks_for_tomorrow, admin_time, meeting_time, last_updated, created_at`

// PostgresCardStore implements store.CardStore on PostgreSQL. The
// "what I did" items are stored as JSONB; the other sections are TEXT[].
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a CardStore. If logger is nil, a default
// logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx implements store.CardStore.WithTx
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{db: tx, logger: s.logger}
}

func encodeItems(items []domain.TaskItem) ([]byte, error) {
	if items == nil {
		items = []domain.TaskItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("%w: encode what_i_did: %v", store.ErrInvalidEntity, err)
	}
	return b, nil
}

// Create implements store.CardStore.Create
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.ActivityCard) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("card_id", card.ID.String()),
		slog.String("user_id", card.UserID.String()),
		slog.String("date", domain.FormatDate(card.Date)))

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create", slog.String("error", err.Error()))
		return err
	}
	items, err := encodeItems(card.WhatIDid)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO activity_cards (`+cardColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		card.ID,
		card.UserID,
		card.Date,
		items,
		textArray(card.WhatBroke),
		textArray(card.HowIFixed),
		textArray(card.TasksForTomorrow),
		card.AdminTime,
		card.MeetingTime,
		card.LastUpdated,
		card.CreatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrCardExists) {
			log.Debug("card already exists for date")
		} else {
			log.Error("failed to create card", slog.String("error", err.Error()))
		}
		return mapped
	}

	log.Info("card created", slog.Int("items", len(card.WhatIDid)))
	return nil
}

func scanCard(row rowScanner) (*domain.ActivityCard, error) {
	var (
		c     domain.ActivityCard
		items []byte
	)
	m := arrayScanner()
	if err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Date,
		&items,
		m.SQLScanner(&c.WhatBroke),
		m.SQLScanner(&c.HowIFixed),
		m.SQLScanner(&c.TasksForTomorrow),
		&c.AdminTime,
		&c.MeetingTime,
		&c.LastUpdated,
		&c.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &c.WhatIDid); err != nil {
		return nil, fmt.Errorf("decode what_i_did of card %s: %w", c.ID, err)
	}
	c.Date = domain.DateOf(c.Date, time.UTC)
	c.WhatIDid = nonNil(c.WhatIDid)
	c.WhatBroke = textArray(c.WhatBroke)
	c.HowIFixed = textArray(c.HowIFixed)
	c.TasksForTomorrow = textArray(c.TasksForTomorrow)
	return &c, nil
}

func nonNil(items []domain.TaskItem) []domain.TaskItem {
	if items == nil {
		return []domain.TaskItem{}
	}
	return items
}

func (s *PostgresCardStore) getOne(ctx context.Context, where string, args ...any) (*domain.ActivityCard, error) {
	c, err := scanCard(s.db.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM activity_cards WHERE `+where, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrCardNotFound
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get card",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return c, nil
}

// GetByID implements store.CardStore.GetByID
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ActivityCard, error) {
	return s.getOne(ctx, `id = $1`, id)
}

// GetByUserAndDate implements store.CardStore.GetByUserAndDate
func (s *PostgresCardStore) GetByUserAndDate(
	ctx context.Context,
	userID uuid.UUID,
	date time.Time,
) (*domain.ActivityCard, error) {
	return s.getOne(ctx, `user_id = $1 AND date = $2`, userID, domain.DateOf(date, time.UTC))
}

// List implements store.CardStore.List
func (s *PostgresCardStore) List(ctx context.Context, filter store.CardFilter) ([]*domain.ActivityCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		conds []string
		args  []any
	)
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, domain.DateOf(filter.From, time.UTC))
		conds = append(conds, fmt.Sprintf("date >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, domain.DateOf(filter.To, time.UTC))
		conds = append(conds, fmt.Sprintf("date <= $%d", len(args)))
	}

	query := `SELECT ` + cardColumns + ` FROM activity_cards`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY date DESC, user_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list cards", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	cards := []*domain.ActivityCard{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, MapError(err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	log.Debug("listed cards", slog.Int("count", len(cards)))
	return cards, nil
}

// Update implements store.CardStore.Update
func (s *PostgresCardStore) Update(ctx context.Context, card *domain.ActivityCard) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("card_id", card.ID.String()))

	if err := card.Validate(); err != nil {
		return err
	}
	items, err := encodeItems(card.WhatIDid)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE activity_cards
		SET date = $1, what_i_did = $2, what_broke = $3, how_i_fixed = $4,
		    tasks_for_tomorrow = $5, admin_time = $6, meeting_time = $7, last_updated = $8
		WHERE id = $9`,
		card.Date,
		items,
		textArray(card.WhatBroke),
		textArray(card.HowIFixed),
		textArray(card.TasksForTomorrow),
		card.AdminTime,
		card.MeetingTime,
		card.LastUpdated,
		card.ID,
	)
	if err != nil {
		mapped := MapError(err)
		if !errors.Is(mapped, store.ErrCardExists) {
			log.Error("failed to update card", slog.String("error", err.Error()))
		}
		return mapped
	}
	if err := CheckRowsAffected(result, store.ErrCardNotFound); err != nil {
		return err
	}

	log.Debug("card updated")
	return nil
}

// Delete implements store.CardStore.Delete
func (s *PostgresCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM activity_cards WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrCardNotFound)
}
