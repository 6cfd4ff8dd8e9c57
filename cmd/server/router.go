package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/standup-api/internal/api"
	apiMiddleware "github.com/phrazzld/standup-api/internal/api/middleware"
	"github.com/phrazzld/standup-api/internal/api/shared"
	"github.com/phrazzld/standup-api/internal/redact"
)

const requestTimeout = 30 * time.Second

// setupRouter registers middleware, the /api routes and the health check.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		app.config.Auth,
		app.logger,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	cardHandler := api.NewCardHandler(app.cardService, app.logger)
	taskHandler := api.NewRecurringTaskHandler(app.recurringTaskService, app.logger)
	clientHandler := api.NewClientHandler(app.clientService, app.logger)
	userHandler := api.NewUserHandler(app.userService, app.logger)
	summaryHandler := api.NewSummaryHandler(app.summaryService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/cards", cardHandler.ListCards)
			r.Post("/cards", cardHandler.CreateCard)
			r.Get("/cards/{id}", cardHandler.GetCard)
			r.Put("/cards/{id}", cardHandler.UpdateCard)
			r.Delete("/cards/{id}", cardHandler.DeleteCard)

			r.Get("/recurring-tasks", taskHandler.ListTasks)
			r.Post("/recurring-tasks", taskHandler.CreateTask)
			r.Get("/recurring-tasks/due", taskHandler.DueTasks)
			r.Put("/recurring-tasks/{id}", taskHandler.UpdateTask)
			r.Delete("/recurring-tasks/{id}", taskHandler.DeleteTask)

			r.Get("/clients", clientHandler.ListClients)
			r.Post("/clients", clientHandler.CreateClient)
			r.Put("/clients/{id}", clientHandler.UpdateClient)
			r.Delete("/clients/{id}", clientHandler.DeleteClient)

			r.Get("/users", userHandler.ListUsers)
			r.Get("/users/me", userHandler.GetMe)
			r.Put("/users/me", userHandler.UpdateMe)
			r.Put("/users/me/default-client", userHandler.SetDefaultClient)

			r.Get("/summary/week", summaryHandler.Week)
		})
	})

	r.Get("/health", app.health)

	return r
}

// health reports whether the database is reachable.
func (app *application) health(w http.ResponseWriter, r *http.Request) {
	status, body := http.StatusOK, map[string]string{"status": "ok"}
	if app.db != nil {
		if err := app.db.PingContext(r.Context()); err != nil {
			status, body = http.StatusServiceUnavailable, map[string]string{"status": "unavailable"}
			app.logger.Warn("health check database ping failed", slog.String("error", redact.Error(err)))
		}
	}
	shared.RespondWithJSON(w, r, status, body)
}
