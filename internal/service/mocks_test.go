package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/standup-api/internal/domain"
	"github.com/phrazzld/standup-api/internal/store"
)

// Function-field store mocks. Unset functions return a zero value or
// the store's not-found error. WithTx returns the receiver.

type mockUserStore struct {
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	ListFn       func(ctx context.Context) ([]*domain.User, error)
	UpdateFn     func(ctx context.Context, user *domain.User) error
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) List(ctx context.Context) ([]*domain.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return []*domain.User{}, nil
}

func (m *mockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) WithTx(*sql.Tx) store.UserStore { return m }

type mockClientStore struct {
	CreateFn  func(ctx context.Context, client *domain.Client) error
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	ListFn    func(ctx context.Context) ([]*domain.Client, error)
	UpdateFn  func(ctx context.Context, client *domain.Client) error
	DeleteFn  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockClientStore) Create(ctx context.Context, client *domain.Client) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, client)
	}
	return nil
}

func (m *mockClientStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrClientNotFound
}

func (m *mockClientStore) List(ctx context.Context) ([]*domain.Client, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return []*domain.Client{}, nil
}

func (m *mockClientStore) Update(ctx context.Context, client *domain.Client) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, client)
	}
	return nil
}

func (m *mockClientStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *mockClientStore) WithTx(*sql.Tx) store.ClientStore { return m }

type mockRecurringTaskStore struct {
	CreateFn     func(ctx context.Context, task *domain.RecurringTask) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.RecurringTask, error)
	ListByUserFn func(ctx context.Context, userID uuid.UUID) ([]domain.RecurringTask, error)
	UpdateFn     func(ctx context.Context, task *domain.RecurringTask) error
	DeleteFn     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockRecurringTaskStore) Create(ctx context.Context, task *domain.RecurringTask) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	return nil
}

func (m *mockRecurringTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.RecurringTask, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrRecurringTaskNotFound
}

func (m *mockRecurringTaskStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.RecurringTask, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return []domain.RecurringTask{}, nil
}

func (m *mockRecurringTaskStore) Update(ctx context.Context, task *domain.RecurringTask) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}
	return nil
}

func (m *mockRecurringTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *mockRecurringTaskStore) WithTx(*sql.Tx) store.RecurringTaskStore { return m }

type mockCardStore struct {
	CreateFn           func(ctx context.Context, card *domain.ActivityCard) error
	GetByIDFn          func(ctx context.Context, id uuid.UUID) (*domain.ActivityCard, error)
	GetByUserAndDateFn func(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.ActivityCard, error)
	ListFn             func(ctx context.Context, filter store.CardFilter) ([]*domain.ActivityCard, error)
	UpdateFn           func(ctx context.Context, card *domain.ActivityCard) error
	DeleteFn           func(ctx context.Context, id uuid.UUID) error
}

func (m *mockCardStore) Create(ctx context.Context, card *domain.ActivityCard) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, card)
	}
	return nil
}

func (m *mockCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ActivityCard, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrCardNotFound
}

func (m *mockCardStore) GetByUserAndDate(
	ctx context.Context,
	userID uuid.UUID,
	date time.Time,
) (*domain.ActivityCard, error) {
	if m.GetByUserAndDateFn != nil {
		return m.GetByUserAndDateFn(ctx, userID, date)
	}
	return nil, store.ErrCardNotFound
}

func (m *mockCardStore) List(ctx context.Context, filter store.CardFilter) ([]*domain.ActivityCard, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	return []*domain.ActivityCard{}, nil
}

func (m *mockCardStore) Update(ctx context.Context, card *domain.ActivityCard) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, card)
	}
	return nil
}

func (m *mockCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *mockCardStore) WithTx(*sql.Tx) store.CardStore { return m }

// newMockDB returns a sqlmock-backed DB whose expectations are checked
// when the test ends.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

// fixedCalendar pins "today" to the given date.
func fixedCalendar(y int, m time.Month, d int) Calendar {
	now := time.Date(y, m, d, 9, 30, 0, 0, time.UTC)
	return Calendar{Location: time.UTC, Now: func() time.Time { return now }}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }

func testUser(id uuid.UUID, defaultClient *uuid.UUID) *domain.User {
	return &domain.User{
		ID:              id,
		Email:           "dev@example.com",
		Name:            "dev",
		DefaultClientID: defaultClient,
		HashedPassword:  "$2a$10$hash",
	}
}
