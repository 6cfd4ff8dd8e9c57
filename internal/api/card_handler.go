package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/standup-api/internal/api/shared"
	"github.com/phrazzld/standup-api/internal/domain"
	"github.com/phrazzld/standup-api/internal/platform/logger"
	"github.com/phrazzld/standup-api/internal/service"
	"github.com/phrazzld/standup-api/internal/store"
)

// CardHandler handles activity card requests.
type CardHandler struct {
	cardService service.CardService
	logger      *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cardService service.CardService, logger *slog.Logger) *CardHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CardHandler")
	}
	return &CardHandler{
		cardService: cardService,
		logger:      logger.With(slog.String("component", "card_handler")),
	}
}

// ListCards handles GET /cards?from=&to=&user_id=. Cards are visible to
// the whole team.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	if _, ok := requireUserID(w, r, log); !ok {
		return
	}

	var filter store.CardFilter
	from, err := parseDateParam(r, "from")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	to, err := parseDateParam(r, "to")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if filter.UserID, err = parseUUIDParam(r, "user_id"); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if from != nil {
		filter.From = *from
	}
	if to != nil {
		filter.To = *to
	}

	cards, err := h.cardService.ListCards(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list cards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardsToResponse(cards))
}

// CreateCard handles POST /cards. The card is created for the caller,
// seeded from their recurring tasks and yesterday's tasks for tomorrow.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	// The body is optional.
	var req CreateCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil && !errors.Is(err, shared.ErrEmptyBody) {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}
	date, err := parseOptionalDate("date", req.Date)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	card, err := h.cardService.CreateCard(r.Context(), userID, date)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create card")
		return
	}

	log.Debug("card created", slog.String("card_id", card.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, cardToResponse(card))
}

// GetCard handles GET /cards/{id}.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	_, cardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	card, err := h.cardService.GetCard(r.Context(), cardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// UpdateCard handles PUT /cards/{id}.
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateCardRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}
	date, err := parseOptionalDate("date", req.Date)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	content := domain.CardContent{
		WhatIDid:         payloadToItems(req.WhatIDid),
		WhatBroke:        req.WhatBroke,
		HowIFixed:        req.HowIFixed,
		TasksForTomorrow: req.TasksForTomorrow,
		AdminTime:        req.AdminTime,
		MeetingTime:      req.MeetingTime,
	}
	if date != nil {
		content.Date = *date
	}

	card, err := h.cardService.UpdateCard(r.Context(), userID, cardID, content)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// DeleteCard handles DELETE /cards/{id}.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.cardService.DeleteCard(r.Context(), userID, cardID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete card")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
