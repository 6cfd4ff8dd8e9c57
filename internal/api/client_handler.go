package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/standup-api/internal/api/shared"
	"github.com/phrazzld/standup-api/internal/platform/logger"
	"github.com/phrazzld/standup-api/internal/service"
)

// ClientHandler handles the team-wide client list.
type ClientHandler struct {
	clients service.ClientService
	logger  *slog.Logger
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clients service.ClientService, logger *slog.Logger) *ClientHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClientHandler{
		clients: clients,
		logger:  logger.With(slog.String("component", "client_handler")),
	}
}

// ListClients handles GET /clients.
func (h *ClientHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clients.ListClients(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list clients")
		return
	}

	resp := make([]ClientResponse, len(clients))
	for i, c := range clients {
		resp[i] = clientToResponse(c)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// CreateClient handles POST /clients.
func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ClientRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	client, err := h.clients.CreateClient(r.Context(), req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create client")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, clientToResponse(client))
}

// UpdateClient handles PUT /clients/{id}.
func (h *ClientHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	_, clientID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req ClientRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	client, err := h.clients.UpdateClient(r.Context(), clientID, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update client")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, clientToResponse(client))
}

// DeleteClient handles DELETE /clients/{id}.
func (h *ClientHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	_, clientID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.clients.DeleteClient(r.Context(), clientID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete client")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
