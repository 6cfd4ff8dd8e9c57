package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/standup-api/internal/domain"
	"github.com/phrazzld/standup-api/internal/platform/logger"
	"github.com/phrazzld/standup-api/internal/store"
)

// UserService provides user profile operations.
type UserService interface {
	// GetUser retrieves a user by their ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// ListUsers returns the whole team.
	ListUsers(ctx context.Context) ([]*domain.User, error)

	// UpdateProfile replaces the user's display name and avatar.
	UpdateProfile(ctx context.Context, userID uuid.UUID, name, avatar string) (*domain.User, error)

	// SetDefaultClient sets (or with nil clears) the client applied to
	// items rolled over from the previous day's card.
	SetDefaultClient(ctx context.Context, userID uuid.UUID, clientID *uuid.UUID) (*domain.User, error)
}

type userServiceImpl struct {
	db      *sql.DB
	users   store.UserStore
	clients store.ClientStore
	logger  *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	db *sql.DB,
	users store.UserStore,
	clients store.ClientStore,
	logger *slog.Logger,
) (UserService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if clients == nil {
		return nil, domain.NewValidationError("clients", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &userServiceImpl{
		db:      db,
		users:   users,
		clients: clients,
		logger:  logger.With(slog.String("component", "user_service")),
	}, nil
}

// GetUser implements UserService.GetUser.
func (s *userServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, s.mapError(logger.FromContextOrDefault(ctx, s.logger), "get", err)
	}
	return user, nil
}

// ListUsers implements UserService.ListUsers.
func (s *userServiceImpl) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, s.mapError(logger.FromContextOrDefault(ctx, s.logger), "list", err)
	}
	return users, nil
}

// UpdateProfile implements UserService.UpdateProfile.
// It retrieves the complete user, changes the profile fields, and passes
// the complete user back to the store.
func (s *userServiceImpl) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	name, avatar string,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var user *domain.User
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		var err error
		if user, err = users.GetByID(ctx, userID); err != nil {
			return err
		}
		if err := user.UpdateProfile(name, avatar); err != nil {
			return err
		}
		return users.Update(ctx, user)
	})
	if err != nil {
		return nil, s.mapError(log, "update_profile", err)
	}

	log.Info("updated user profile", slog.String("user_id", userID.String()))
	return user, nil
}

// SetDefaultClient implements UserService.SetDefaultClient.
func (s *userServiceImpl) SetDefaultClient(
	ctx context.Context,
	userID uuid.UUID,
	clientID *uuid.UUID,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var user *domain.User
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if clientID != nil {
			if _, err := s.clients.WithTx(tx).GetByID(ctx, *clientID); err != nil {
				if store.IsNotFoundError(err) {
					return domain.NewValidationError("client_id", "unknown client", err)
				}
				return fmt.Errorf("load client: %w", err)
			}
		}

		users := s.users.WithTx(tx)
		var err error
		if user, err = users.GetByID(ctx, userID); err != nil {
			return err
		}
		user.DefaultClientID = clientID
		if err := user.Validate(); err != nil {
			return err
		}
		return users.Update(ctx, user)
	})
	if err != nil {
		return nil, s.mapError(log, "set_default_client", err)
	}

	log.Info("updated default client", slog.String("user_id", userID.String()))
	return user, nil
}

func (s *userServiceImpl) mapError(log *slog.Logger, op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return err
	case store.IsNotFoundError(err):
		return store.ErrUserNotFound
	}
	log.Error("user operation failed",
		slog.String("operation", op),
		slog.String("error", err.Error()))
	return NewServiceError("user", op, err)
}
