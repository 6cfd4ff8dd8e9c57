package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/standup-api/internal/domain"
	"github.com/phrazzld/standup-api/internal/platform/logger"
	"github.com/phrazzld/standup-api/internal/store"
)

// ClientInput is the editable part of a client.
type ClientInput struct {
	Name  string
	Emoji string
	Color string
	Tag   string
}

// ClientService manages the team-wide client list.
type ClientService interface {
	ListClients(ctx context.Context) ([]*domain.Client, error)
	CreateClient(ctx context.Context, input ClientInput) (*domain.Client, error)
	UpdateClient(ctx context.Context, clientID uuid.UUID, input ClientInput) (*domain.Client, error)
	// DeleteClient removes a client. References from users, recurring
	// tasks and card items are left to the store to clear.
	DeleteClient(ctx context.Context, clientID uuid.UUID) error
}

type clientServiceImpl struct {
	clients store.ClientStore
	logger  *slog.Logger
}

// NewClientService creates a new ClientService.
func NewClientService(clients store.ClientStore, logger *slog.Logger) (ClientService, error) {
	if clients == nil {
		return nil, domain.NewValidationError("clients", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &clientServiceImpl{
		clients: clients,
		logger:  logger.With(slog.String("component", "client_service")),
	}, nil
}

func (s *clientServiceImpl) ListClients(ctx context.Context) ([]*domain.Client, error) {
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, s.mapError(logger.FromContextOrDefault(ctx, s.logger), "list", err)
	}
	return clients, nil
}

func (s *clientServiceImpl) CreateClient(ctx context.Context, input ClientInput) (*domain.Client, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	client, err := domain.NewClient(input.Name, input.Emoji, input.Color, input.Tag)
	if err != nil {
		return nil, err
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, s.mapError(log, "create", err)
	}

	log.Info("created client",
		slog.String("client_id", client.ID.String()),
		slog.String("tag", client.Tag))
	return client, nil
}

func (s *clientServiceImpl) UpdateClient(
	ctx context.Context,
	clientID uuid.UUID,
	input ClientInput,
) (*domain.Client, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, s.mapError(log, "update", err)
	}
	if err := client.Update(input.Name, input.Emoji, input.Color, input.Tag); err != nil {
		return nil, err
	}
	if err := s.clients.Update(ctx, client); err != nil {
		return nil, s.mapError(log, "update", err)
	}

	log.Info("updated client", slog.String("client_id", clientID.String()))
	return client, nil
}

func (s *clientServiceImpl) DeleteClient(ctx context.Context, clientID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.clients.Delete(ctx, clientID); err != nil {
		return s.mapError(log, "delete", err)
	}

	log.Info("deleted client", slog.String("client_id", clientID.String()))
	return nil
}

func (s *clientServiceImpl) mapError(log *slog.Logger, op string, err error) error {
	switch {
	case store.IsNotFoundError(err):
		return store.ErrClientNotFound
	case errors.Is(err, store.ErrClientTagExists):
		return store.ErrClientTagExists
	}
	log.Error("client operation failed",
		slog.String("operation", op),
		slog.String("error", err.Error()))
	return NewServiceError("client", op, err)
}
