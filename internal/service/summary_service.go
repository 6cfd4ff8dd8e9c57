package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/phrazzld/standup-api/internal/domain"
	"github.com/phrazzld/standup-api/internal/platform/logger"
	"github.com/phrazzld/standup-api/internal/store"
)

// DaySummary is one cell of the weekly grid.
type DaySummary struct {
	Date time.Time
	// CardID is nil when the user has no card for Date.
	CardID     *uuid.UUID
	ItemCount  int
	TotalHours float64
}

// UserWeek is one row of the weekly grid.
type UserWeek struct {
	User *domain.User
	Days []DaySummary
}

// WeekSummary is the team grid for a Monday-based week.
type WeekSummary struct {
	Offset    int
	WeekStart time.Time
	Dates     []time.Time
	Rows      []UserWeek
}

// SummaryService builds the weekly team summary.
type SummaryService interface {
	// Week summarizes the week containing today shifted by offset weeks.
	Week(ctx context.Context, offset int) (*WeekSummary, error)
}

type summaryServiceImpl struct {
	users    store.UserStore
	cards    store.CardStore
	calendar Calendar
	logger   *slog.Logger
}

// NewSummaryService creates a new SummaryService.
func NewSummaryService(
	users store.UserStore,
	cards store.CardStore,
	calendar Calendar,
	logger *slog.Logger,
) (SummaryService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if cards == nil {
		return nil, domain.NewValidationError("cards", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &summaryServiceImpl{
		users:    users,
		cards:    cards,
		calendar: calendar,
		logger:   logger.With(slog.String("component", "summary_service")),
	}, nil
}

// Week implements SummaryService.Week.
func (s *summaryServiceImpl) Week(ctx context.Context, offset int) (*WeekSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	dates := domain.WeekDates(s.calendar.Today(), offset)

	var (
		users []*domain.User
		cards []*domain.ActivityCard
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if users, err = s.users.List(gctx); err != nil {
			log.Error("failed to list users for summary", slog.String("error", err.Error()))
		}
		return err
	})
	g.Go(func() error {
		var err error
		filter := store.CardFilter{From: dates[0], To: dates[len(dates)-1]}
		if cards, err = s.cards.List(gctx, filter); err != nil {
			log.Error("failed to list cards for summary", slog.String("error", err.Error()))
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, NewServiceError("summary", "week", err)
	}

	type cell struct {
		user uuid.UUID
		date string
	}
	byCell := make(map[cell]*domain.ActivityCard, len(cards))
	for _, card := range cards {
		byCell[cell{card.UserID, domain.FormatDate(card.Date)}] = card
	}

	rows := make([]UserWeek, 0, len(users))
	for _, user := range users {
		days := make([]DaySummary, len(dates))
		for i, date := range dates {
			days[i] = DaySummary{Date: date}
			card, ok := byCell[cell{user.ID, domain.FormatDate(date)}]
			if !ok {
				continue
			}
			id := card.ID
			days[i].CardID = &id
			days[i].ItemCount = card.ItemCount()
			days[i].TotalHours = card.TotalHours()
		}
		rows = append(rows, UserWeek{User: user, Days: days})
	}

	log.Debug("built week summary",
		slog.Int("offset", offset),
		slog.Int("users", len(users)),
		slog.Int("cards", len(cards)))

	return &WeekSummary{
		Offset:    offset,
		WeekStart: dates[0],
		Dates:     dates,
		Rows:      rows,
	}, nil
}
