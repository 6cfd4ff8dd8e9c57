package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/standup-api/internal/api/shared"
	"github.com/phrazzld/standup-api/internal/domain"
	"github.com/phrazzld/standup-api/internal/service"
)

// maxWeekOffset bounds how far the summary can page from the current week.
const maxWeekOffset = 520

// SummaryHandler serves the weekly team summary.
type SummaryHandler struct {
	summary service.SummaryService
	logger  *slog.Logger
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(summary service.SummaryService, logger *slog.Logger) *SummaryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummaryHandler{
		summary: summary,
		logger:  logger.With(slog.String("component", "summary_handler")),
	}
}

// Week handles GET /summary/week?offset=N, where N shifts the current
// Monday-based week by whole weeks.
func (h *SummaryHandler) Week(w http.ResponseWriter, r *http.Request) {
	offset, err := parseIntParam(r, "offset", 0)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if offset < -maxWeekOffset || offset > maxWeekOffset {
		HandleAPIError(w, r, domain.NewValidationError("offset", "out of range", nil), "")
		return
	}

	week, err := h.summary.Week(r.Context(), offset)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to build summary")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, weekToResponse(week))
}
