package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/phrazzld/standup-api/internal/service"
)

// autoCreateTimeout bounds a single auto-create run.
const autoCreateTimeout = 2 * time.Minute

// scheduler runs the card auto-create job on a cron schedule.
type scheduler struct {
	cron   *cron.Cron
	cards  service.CardService
	logger *slog.Logger
}

// newScheduler returns nil when spec is empty.
func newScheduler(spec string, loc *time.Location, cards service.CardService, logger *slog.Logger) (*scheduler, error) {
	if spec == "" {
		return nil, nil
	}

	s := &scheduler{
		cron:   cron.New(cron.WithLocation(loc), cron.WithSeconds()),
		cards:  cards,
		logger: logger.With(slog.String("component", "scheduler")),
	}
	if _, err := s.cron.AddFunc(spec, s.autoCreate); err != nil {
		return nil, fmt.Errorf("invalid auto-create schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *scheduler) autoCreate() {
	ctx, cancel := context.WithTimeout(context.Background(), autoCreateTimeout)
	defer cancel()

	res, err := s.cards.AutoCreateCards(ctx)
	if err != nil {
		s.logger.Error("auto-create run failed", slog.String("error", err.Error()))
		return
	}
	s.logger.Info("auto-create run finished",
		slog.String("date", res.Date.Format(time.DateOnly)),
		slog.Int("created", res.Created),
		slog.Int("skipped", res.Skipped),
		slog.Int("failed", res.Failed))
}

// Start begins running scheduled jobs in the background.
func (s *scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running job to finish.
func (s *scheduler) Stop() {
	<-s.cron.Stop().Done()
}
