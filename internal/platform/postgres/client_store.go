package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/standup-api/internal/domain"
	"github.com/phrazzld/standup-api/internal/platform/logger"
	"github.com/phrazzld/standup-api/internal/store"
)

const clientColumns = `id, name, emoji, color, tag, created_at`

// PostgresClientStore implements store.ClientStore on PostgreSQL.
type PostgresClientStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresClientStore creates a ClientStore. If logger is nil, a default
// logger will be used.
func NewPostgresClientStore(db store.DBTX, logger *slog.Logger) *PostgresClientStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresClientStore{
		db:     db,
		logger: logger.With(slog.String("component", "client_store")),
	}
}

var _ store.ClientStore = (*PostgresClientStore)(nil)

// WithTx implements store.ClientStore.WithTx
func (s *PostgresClientStore) WithTx(tx *sql.Tx) store.ClientStore {
	return &PostgresClientStore{db: tx, logger: s.logger}
}

// Create implements store.ClientStore.Create
func (s *PostgresClientStore) Create(ctx context.Context, client *domain.Client) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := client.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clients (`+clientColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		client.ID, client.Name, client.Emoji, client.Color, client.Tag, client.CreatedAt)
	if err != nil {
		mapped := MapError(err)
		if !errors.Is(mapped, store.ErrClientTagExists) {
			log.Error("failed to create client",
				slog.String("error", err.Error()),
				slog.String("client_id", client.ID.String()))
		}
		return mapped
	}

	log.Info("client created",
		slog.String("client_id", client.ID.String()),
		slog.String("tag", client.Tag))
	return nil
}

func scanClient(row rowScanner) (*domain.Client, error) {
	var c domain.Client
	if err := row.Scan(&c.ID, &c.Name, &c.Emoji, &c.Color, &c.Tag, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID implements store.ClientStore.GetByID
func (s *PostgresClientStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	c, err := scanClient(s.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrClientNotFound
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get client",
			slog.String("error", err.Error()),
			slog.String("client_id", id.String()))
		return nil, MapError(err)
	}
	return c, nil
}

// List implements store.ClientStore.List
func (s *PostgresClientStore) List(ctx context.Context) ([]*domain.Client, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY name`)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list clients",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	clients := []*domain.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, MapError(err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return clients, nil
}

// Update implements store.ClientStore.Update
func (s *PostgresClientStore) Update(ctx context.Context, client *domain.Client) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := client.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE clients SET name = $1, emoji = $2, color = $3, tag = $4
		WHERE id = $5`,
		client.Name, client.Emoji, client.Color, client.Tag, client.ID)
	if err != nil {
		mapped := MapError(err)
		if !errors.Is(mapped, store.ErrClientTagExists) {
			log.Error("failed to update client",
				slog.String("error", err.Error()),
				slog.String("client_id", client.ID.String()))
		}
		return mapped
	}
	return CheckRowsAffected(result, store.ErrClientNotFound)
}

// Delete implements store.ClientStore.Delete
//
// Users and recurring tasks referencing the client are set to NULL by
// ON DELETE SET NULL. Items inside activity_cards.what_i_did are JSON and
// keep the stale ID.
func (s *PostgresClientStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete client",
			slog.String("error", err.Error()),
			slog.String("client_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrClientNotFound)
}
