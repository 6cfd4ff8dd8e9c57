package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/standup-api/internal/config"
	"github.com/phrazzld/standup-api/internal/platform/postgres"
	"github.com/phrazzld/standup-api/internal/service"
	"github.com/phrazzld/standup-api/internal/service/auth"
	"github.com/phrazzld/standup-api/internal/store"
)

// application holds the shared dependencies and owns their cleanup.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore

	jwtService           auth.JWTService
	passwordVerifier     auth.PasswordVerifier
	cardService          service.CardService
	recurringTaskService service.RecurringTaskService
	clientService        service.ClientService
	userService          service.UserService
	summaryService       service.SummaryService

	scheduler *scheduler
}

// newApplication wires stores, services and the scheduler on top of an
// open database connection.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)
	clientStore := postgres.NewPostgresClientStore(db, logger)
	taskStore := postgres.NewPostgresRecurringTaskStore(db, logger)
	cardStore := postgres.NewPostgresCardStore(db, logger)

	calendar := service.NewCalendar(cfg.Server.Location())

	if app.cardService, err = service.NewCardService(db, cardStore, taskStore, app.userStore, calendar, logger); err != nil {
		return nil, fmt.Errorf("failed to create card service: %w", err)
	}
	if app.recurringTaskService, err = service.NewRecurringTaskService(taskStore, calendar, logger); err != nil {
		return nil, fmt.Errorf("failed to create recurring task service: %w", err)
	}
	if app.clientService, err = service.NewClientService(clientStore, logger); err != nil {
		return nil, fmt.Errorf("failed to create client service: %w", err)
	}
	if app.userService, err = service.NewUserService(db, app.userStore, clientStore, logger); err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}
	if app.summaryService, err = service.NewSummaryService(app.userStore, cardStore, calendar, logger); err != nil {
		return nil, fmt.Errorf("failed to create summary service: %w", err)
	}

	app.scheduler, err = newScheduler(cfg.Scheduler.AutoCreateCron, calendar.Location, app.cardService, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("application initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes),
		slog.Bool("auto_create_enabled", app.scheduler != nil))
	return app, nil
}

// Run serves HTTP until ctx is cancelled or the process is signalled.
func (app *application) Run(ctx context.Context) error {
	if app.scheduler != nil {
		app.scheduler.Start()
	}
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases application resources.
func (app *application) cleanup() {
	if app.scheduler != nil {
		app.scheduler.Stop()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
