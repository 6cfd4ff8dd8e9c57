package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/standup-api/internal/api/shared"
	"github.com/phrazzld/standup-api/internal/domain"
	"github.com/phrazzld/standup-api/internal/service"
	"github.com/phrazzld/standup-api/internal/store"
)

// Function-field service mocks. Unset functions fail the call with an
// error so a test notices a path it did not expect.

var errUnexpectedCall = errors.New("unexpected call")

type mockCardService struct {
	CreateCardFn      func(ctx context.Context, userID uuid.UUID, date *time.Time) (*domain.ActivityCard, error)
	GetCardFn         func(ctx context.Context, cardID uuid.UUID) (*domain.ActivityCard, error)
	ListCardsFn       func(ctx context.Context, filter store.CardFilter) ([]*domain.ActivityCard, error)
	UpdateCardFn      func(ctx context.Context, userID, cardID uuid.UUID, content domain.CardContent) (*domain.ActivityCard, error)
	DeleteCardFn      func(ctx context.Context, userID, cardID uuid.UUID) error
	AutoCreateCardsFn func(ctx context.Context) (service.AutoCreateResult, error)
}

func (m *mockCardService) CreateCard(ctx context.Context, userID uuid.UUID, date *time.Time) (*domain.ActivityCard, error) {
	if m.CreateCardFn != nil {
		return m.CreateCardFn(ctx, userID, date)
	}
	return nil, errUnexpectedCall
}

func (m *mockCardService) GetCard(ctx context.Context, cardID uuid.UUID) (*domain.ActivityCard, error) {
	if m.GetCardFn != nil {
		return m.GetCardFn(ctx, cardID)
	}
	return nil, errUnexpectedCall
}

func (m *mockCardService) ListCards(ctx context.Context, filter store.CardFilter) ([]*domain.ActivityCard, error) {
	if m.ListCardsFn != nil {
		return m.ListCardsFn(ctx, filter)
	}
	return nil, errUnexpectedCall
}

func (m *mockCardService) UpdateCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
	content domain.CardContent,
) (*domain.ActivityCard, error) {
	if m.UpdateCardFn != nil {
		return m.UpdateCardFn(ctx, userID, cardID, content)
	}
	return nil, errUnexpectedCall
}

func (m *mockCardService) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	if m.DeleteCardFn != nil {
		return m.DeleteCardFn(ctx, userID, cardID)
	}
	return errUnexpectedCall
}

func (m *mockCardService) AutoCreateCards(ctx context.Context) (service.AutoCreateResult, error) {
	if m.AutoCreateCardsFn != nil {
		return m.AutoCreateCardsFn(ctx)
	}
	return service.AutoCreateResult{}, errUnexpectedCall
}

type mockRecurringTaskService struct {
	ListTasksFn  func(ctx context.Context, userID uuid.UUID) ([]domain.RecurringTask, error)
	CreateTaskFn func(ctx context.Context, userID uuid.UUID, input service.RecurringTaskInput) (*domain.RecurringTask, error)
	UpdateTaskFn func(ctx context.Context, userID, taskID uuid.UUID, input service.RecurringTaskInput) (*domain.RecurringTask, error)
	DeleteTaskFn func(ctx context.Context, userID, taskID uuid.UUID) error
	DueTasksFn   func(ctx context.Context, userID uuid.UUID, date *time.Time) ([]domain.RecurringTask, time.Time, error)
}

func (m *mockRecurringTaskService) ListTasks(ctx context.Context, userID uuid.UUID) ([]domain.RecurringTask, error) {
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx, userID)
	}
	return nil, errUnexpectedCall
}

func (m *mockRecurringTaskService) CreateTask(
	ctx context.Context,
	userID uuid.UUID,
	input service.RecurringTaskInput,
) (*domain.RecurringTask, error) {
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, userID, input)
	}
	return nil, errUnexpectedCall
}

func (m *mockRecurringTaskService) UpdateTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	input service.RecurringTaskInput,
) (*domain.RecurringTask, error) {
	if m.UpdateTaskFn != nil {
		return m.UpdateTaskFn(ctx, userID, taskID, input)
	}
	return nil, errUnexpectedCall
}

func (m *mockRecurringTaskService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, userID, taskID)
	}
	return errUnexpectedCall
}

func (m *mockRecurringTaskService) DueTasks(
	ctx context.Context,
	userID uuid.UUID,
	date *time.Time,
) ([]domain.RecurringTask, time.Time, error) {
	if m.DueTasksFn != nil {
		return m.DueTasksFn(ctx, userID, date)
	}
	return nil, time.Time{}, errUnexpectedCall
}

type mockClientService struct {
	ListClientsFn  func(ctx context.Context) ([]*domain.Client, error)
	CreateClientFn func(ctx context.Context, input service.ClientInput) (*domain.Client, error)
	UpdateClientFn func(ctx context.Context, clientID uuid.UUID, input service.ClientInput) (*domain.Client, error)
	DeleteClientFn func(ctx context.Context, clientID uuid.UUID) error
}

func (m *mockClientService) ListClients(ctx context.Context) ([]*domain.Client, error) {
	if m.ListClientsFn != nil {
		return m.ListClientsFn(ctx)
	}
	return nil, errUnexpectedCall
}

func (m *mockClientService) CreateClient(ctx context.Context, input service.ClientInput) (*domain.Client, error) {
	if m.CreateClientFn != nil {
		return m.CreateClientFn(ctx, input)
	}
	return nil, errUnexpectedCall
}

func (m *mockClientService) UpdateClient(
	ctx context.Context,
	clientID uuid.UUID,
	input service.ClientInput,
) (*domain.Client, error) {
	if m.UpdateClientFn != nil {
		return m.UpdateClientFn(ctx, clientID, input)
	}
	return nil, errUnexpectedCall
}

func (m *mockClientService) DeleteClient(ctx context.Context, clientID uuid.UUID) error {
	if m.DeleteClientFn != nil {
		return m.DeleteClientFn(ctx, clientID)
	}
	return errUnexpectedCall
}

type mockUserService struct {
	GetUserFn          func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	ListUsersFn        func(ctx context.Context) ([]*domain.User, error)
	UpdateProfileFn    func(ctx context.Context, userID uuid.UUID, name, avatar string) (*domain.User, error)
	SetDefaultClientFn func(ctx context.Context, userID uuid.UUID, clientID *uuid.UUID) (*domain.User, error)
}

func (m *mockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, userID)
	}
	return nil, errUnexpectedCall
}

func (m *mockUserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	if m.ListUsersFn != nil {
		return m.ListUsersFn(ctx)
	}
	return nil, errUnexpectedCall
}

func (m *mockUserService) UpdateProfile(ctx context.Context, userID uuid.UUID, name, avatar string) (*domain.User, error) {
	if m.UpdateProfileFn != nil {
		return m.UpdateProfileFn(ctx, userID, name, avatar)
	}
	return nil, errUnexpectedCall
}

func (m *mockUserService) SetDefaultClient(
	ctx context.Context,
	userID uuid.UUID,
	clientID *uuid.UUID,
) (*domain.User, error) {
	if m.SetDefaultClientFn != nil {
		return m.SetDefaultClientFn(ctx, userID, clientID)
	}
	return nil, errUnexpectedCall
}

type mockSummaryService struct {
	WeekFn func(ctx context.Context, offset int) (*service.WeekSummary, error)
}

func (m *mockSummaryService) Week(ctx context.Context, offset int) (*service.WeekSummary, error) {
	if m.WeekFn != nil {
		return m.WeekFn(ctx, offset)
	}
	return nil, errUnexpectedCall
}

type mockUserStore struct {
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
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

func (m *mockUserStore) List(context.Context) ([]*domain.User, error) { return []*domain.User{}, nil }

func (m *mockUserStore) Update(context.Context, *domain.User) error { return nil }

func (m *mockUserStore) WithTx(*sql.Tx) store.UserStore { return m }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newRequest builds a request carrying userID (when non-nil) and chi
// path params given as name/value pairs.
func newRequest(t *testing.T, method, target string, body any, userID *uuid.UUID, params ...string) *http.Request {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
		reader = &buf
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	ctx := req.Context()
	if userID != nil {
		ctx = shared.WithUserID(ctx, *userID)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for i := 0; i+1 < len(params); i += 2 {
			rctx.URLParams.Add(params[i], params[i+1])
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func testCard(userID uuid.UUID, day time.Time) *domain.ActivityCard {
	return &domain.ActivityCard{
		ID:     uuid.New(),
		UserID: userID,
		Date:   day,
		WhatIDid: []domain.TaskItem{
			{Text: "standup", TimeEstimate: floatPtr(0.5)},
		},
		AdminTime: 1,
	}
}

func floatPtr(f float64) *float64 { return &f }

func intPtr(i int) *int { return &i }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
