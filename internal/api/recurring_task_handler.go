package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/standup-api/internal/api/shared"
	"github.com/phrazzld/standup-api/internal/domain"
	"github.com/phrazzld/standup-api/internal/platform/logger"
	"github.com/phrazzld/standup-api/internal/service"
)

// RecurringTaskHandler handles the caller's recurring task templates.
type RecurringTaskHandler struct {
	tasks  service.RecurringTaskService
	logger *slog.Logger
}

// NewRecurringTaskHandler creates a new RecurringTaskHandler.
func NewRecurringTaskHandler(tasks service.RecurringTaskService, logger *slog.Logger) *RecurringTaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecurringTaskHandler{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "recurring_task_handler")),
	}
}

// ListTasks handles GET /recurring-tasks.
func (h *RecurringTaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListTasks(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list recurring tasks")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, recurringTasksToResponse(tasks))
}

// CreateTask handles POST /recurring-tasks.
func (h *RecurringTaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req RecurringTaskRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), userID, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create recurring task")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, recurringTaskToResponse(*task))
}

// UpdateTask handles PUT /recurring-tasks/{id}.
func (h *RecurringTaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req RecurringTaskRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	task, err := h.tasks.UpdateTask(r.Context(), userID, taskID, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update recurring task")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, recurringTaskToResponse(*task))
}

// DeleteTask handles DELETE /recurring-tasks/{id}.
func (h *RecurringTaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete recurring task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DueTasks handles GET /recurring-tasks/due?date=, previewing which of
// the caller's tasks a card for that date would include.
func (h *RecurringTaskHandler) DueTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	date, err := parseDateParam(r, "date")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	due, on, err := h.tasks.DueTasks(r.Context(), userID, date)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to resolve due tasks")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, DueTasksResponse{
		Date:  domain.FormatDate(on),
		Tasks: recurringTasksToResponse(due),
	})
}
