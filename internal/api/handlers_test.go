package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/standup-api/internal/domain"
	"github.com/phrazzld/standup-api/internal/service"
	"github.com/phrazzld/standup-api/internal/store"
)

func TestRecurringTaskHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	taskID := uuid.New()
	weekly := domain.RecurringTask{
		ID:         taskID,
		UserID:     userID,
		Text:       "timesheets",
		Frequency:  domain.FrequencyWeekly,
		DaysOfWeek: []int{5},
	}

	t.Run("create", func(t *testing.T) {
		t.Parallel()

		svc := &mockRecurringTaskService{
			CreateTaskFn: func(_ context.Context, uid uuid.UUID, in service.RecurringTaskInput) (*domain.RecurringTask, error) {
				assert.Equal(t, userID, uid)
				assert.Equal(t, domain.FrequencyMonthly, in.Frequency)
				require.NotNil(t, in.DayOfMonth)
				assert.Equal(t, -1, *in.DayOfMonth)
				return &domain.RecurringTask{ID: taskID, UserID: uid, Text: in.Text, Frequency: in.Frequency, DayOfMonth: in.DayOfMonth}, nil
			},
		}
		h := NewRecurringTaskHandler(svc, testLogger())
		rec := httptest.NewRecorder()
		body := RecurringTaskRequest{Text: "invoice", Frequency: "monthly", DayOfMonth: intPtr(-1)}
		h.CreateTask(rec, newRequest(t, http.MethodPost, "/api/recurring-tasks", body, &userID))

		require.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeBody[RecurringTaskResponse](t, rec)
		assert.Equal(t, "monthly", resp.Frequency)
	})

	t.Run("create rejects missing text", func(t *testing.T) {
		t.Parallel()

		h := NewRecurringTaskHandler(&mockRecurringTaskService{}, testLogger())
		rec := httptest.NewRecorder()
		body := RecurringTaskRequest{Frequency: "daily"}
		h.CreateTask(rec, newRequest(t, http.MethodPost, "/api/recurring-tasks", body, &userID))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("schedule validation from the domain", func(t *testing.T) {
		t.Parallel()

		svc := &mockRecurringTaskService{
			CreateTaskFn: func(context.Context, uuid.UUID, service.RecurringTaskInput) (*domain.RecurringTask, error) {
				return nil, domain.NewValidationError("frequency", "unknown frequency", nil)
			},
		}
		h := NewRecurringTaskHandler(svc, testLogger())
		rec := httptest.NewRecorder()
		body := RecurringTaskRequest{Text: "x", Frequency: "hourly"}
		h.CreateTask(rec, newRequest(t, http.MethodPost, "/api/recurring-tasks", body, &userID))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list", func(t *testing.T) {
		t.Parallel()

		svc := &mockRecurringTaskService{
			ListTasksFn: func(context.Context, uuid.UUID) ([]domain.RecurringTask, error) {
				return []domain.RecurringTask{weekly}, nil
			},
		}
		h := NewRecurringTaskHandler(svc, testLogger())
		rec := httptest.NewRecorder()
		h.ListTasks(rec, newRequest(t, http.MethodGet, "/api/recurring-tasks", nil, &userID))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeBody[[]RecurringTaskResponse](t, rec), 1)
	})

	t.Run("update not owner", func(t *testing.T) {
		t.Parallel()

		svc := &mockRecurringTaskService{
			UpdateTaskFn: func(context.Context, uuid.UUID, uuid.UUID, service.RecurringTaskInput) (*domain.RecurringTask, error) {
				return nil, service.ErrNotOwned
			},
		}
		h := NewRecurringTaskHandler(svc, testLogger())
		rec := httptest.NewRecorder()
		body := RecurringTaskRequest{Text: "x", Frequency: "daily"}
		h.UpdateTask(rec, newRequest(t, http.MethodPut, "/api/recurring-tasks/x", body, &userID, "id", taskID.String()))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("delete missing", func(t *testing.T) {
		t.Parallel()

		svc := &mockRecurringTaskService{
			DeleteTaskFn: func(context.Context, uuid.UUID, uuid.UUID) error {
				return store.ErrRecurringTaskNotFound
			},
		}
		h := NewRecurringTaskHandler(svc, testLogger())
		rec := httptest.NewRecorder()
		h.DeleteTask(rec, newRequest(t, http.MethodDelete, "/api/recurring-tasks/x", nil, &userID, "id", taskID.String()))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("due on date", func(t *testing.T) {
		t.Parallel()

		svc := &mockRecurringTaskService{
			DueTasksFn: func(_ context.Context, _ uuid.UUID, d *time.Time) ([]domain.RecurringTask, time.Time, error) {
				require.NotNil(t, d)
				return []domain.RecurringTask{weekly}, *d, nil
			},
		}
		h := NewRecurringTaskHandler(svc, testLogger())
		rec := httptest.NewRecorder()
		h.DueTasks(rec, newRequest(t, http.MethodGet, "/api/recurring-tasks/due?date=2024-03-08", nil, &userID))

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[DueTasksResponse](t, rec)
		assert.Equal(t, "2024-03-08", resp.Date)
		assert.Len(t, resp.Tasks, 1)
	})

	t.Run("due with bad date", func(t *testing.T) {
		t.Parallel()

		h := NewRecurringTaskHandler(&mockRecurringTaskService{}, testLogger())
		rec := httptest.NewRecorder()
		h.DueTasks(rec, newRequest(t, http.MethodGet, "/api/recurring-tasks/due?date=friday", nil, &userID))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestClientHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	client := &domain.Client{ID: uuid.New(), Name: "Acme", Emoji: "🚀", Color: "#ff0000", Tag: "ACME"}

	tests := []struct {
		name       string
		svc        *mockClientService
		call       func(h *ClientHandler, rec *httptest.ResponseRecorder, t *testing.T)
		wantStatus int
	}{
		{
			name: "list",
			svc: &mockClientService{
				ListClientsFn: func(context.Context) ([]*domain.Client, error) { return []*domain.Client{client}, nil },
			},
			call: func(h *ClientHandler, rec *httptest.ResponseRecorder, t *testing.T) {
				h.ListClients(rec, newRequest(t, http.MethodGet, "/api/clients", nil, &userID))
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "create",
			svc: &mockClientService{
				CreateClientFn: func(_ context.Context, in service.ClientInput) (*domain.Client, error) {
					assert.Equal(t, "ACME", in.Tag)
					return client, nil
				},
			},
			call: func(h *ClientHandler, rec *httptest.ResponseRecorder, t *testing.T) {
				body := ClientRequest{Name: "Acme", Color: "#ff0000", Tag: "ACME"}
				h.CreateClient(rec, newRequest(t, http.MethodPost, "/api/clients", body, &userID))
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "create duplicate tag",
			svc: &mockClientService{
				CreateClientFn: func(context.Context, service.ClientInput) (*domain.Client, error) {
					return nil, store.ErrClientTagExists
				},
			},
			call: func(h *ClientHandler, rec *httptest.ResponseRecorder, t *testing.T) {
				body := ClientRequest{Name: "Acme", Color: "#ff0000", Tag: "ACME"}
				h.CreateClient(rec, newRequest(t, http.MethodPost, "/api/clients", body, &userID))
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "create rejects non-alphanumeric tag",
			svc:  &mockClientService{},
			call: func(h *ClientHandler, rec *httptest.ResponseRecorder, t *testing.T) {
				body := ClientRequest{Name: "Acme", Color: "#ff0000", Tag: "AC-ME"}
				h.CreateClient(rec, newRequest(t, http.MethodPost, "/api/clients", body, &userID))
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "update missing",
			svc: &mockClientService{
				UpdateClientFn: func(context.Context, uuid.UUID, service.ClientInput) (*domain.Client, error) {
					return nil, store.ErrClientNotFound
				},
			},
			call: func(h *ClientHandler, rec *httptest.ResponseRecorder, t *testing.T) {
				body := ClientRequest{Name: "Acme", Color: "#ff0000", Tag: "ACME"}
				h.UpdateClient(rec, newRequest(t, http.MethodPut, "/api/clients/x", body, &userID, "id", client.ID.String()))
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "delete",
			svc: &mockClientService{
				DeleteClientFn: func(_ context.Context, id uuid.UUID) error {
					assert.Equal(t, client.ID, id)
					return nil
				},
			},
			call: func(h *ClientHandler, rec *httptest.ResponseRecorder, t *testing.T) {
				h.DeleteClient(rec, newRequest(t, http.MethodDelete, "/api/clients/x", nil, &userID, "id", client.ID.String()))
			},
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			tt.call(NewClientHandler(tt.svc, testLogger()), rec, t)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestUserHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	clientID := uuid.New()
	me := &domain.User{ID: userID, Email: "dev@example.com", Name: "dev", HashedPassword: "secret-hash"}

	t.Run("me never exposes credentials", func(t *testing.T) {
		t.Parallel()

		svc := &mockUserService{
			GetUserFn: func(context.Context, uuid.UUID) (*domain.User, error) { return me, nil },
		}
		h := NewUserHandler(svc, testLogger())
		rec := httptest.NewRecorder()
		h.GetMe(rec, newRequest(t, http.MethodGet, "/api/users/me", nil, &userID))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "secret-hash")
		assert.Equal(t, userID, decodeBody[UserResponse](t, rec).ID)
	})

	t.Run("list", func(t *testing.T) {
		t.Parallel()

		svc := &mockUserService{
			ListUsersFn: func(context.Context) ([]*domain.User, error) { return []*domain.User{me}, nil },
		}
		h := NewUserHandler(svc, testLogger())
		rec := httptest.NewRecorder()
		h.ListUsers(rec, newRequest(t, http.MethodGet, "/api/users", nil, &userID))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeBody[[]UserResponse](t, rec), 1)
	})

	t.Run("update profile", func(t *testing.T) {
		t.Parallel()

		svc := &mockUserService{
			UpdateProfileFn: func(_ context.Context, _ uuid.UUID, name, avatar string) (*domain.User, error) {
				assert.Equal(t, "Dev", name)
				assert.Equal(t, "https://example.com/a.png", avatar)
				return me, nil
			},
		}
		h := NewUserHandler(svc, testLogger())
		rec := httptest.NewRecorder()
		body := UpdateProfileRequest{Name: "Dev", Avatar: "https://example.com/a.png"}
		h.UpdateMe(rec, newRequest(t, http.MethodPut, "/api/users/me", body, &userID))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("default client unknown", func(t *testing.T) {
		t.Parallel()

		svc := &mockUserService{
			SetDefaultClientFn: func(_ context.Context, _ uuid.UUID, id *uuid.UUID) (*domain.User, error) {
				require.NotNil(t, id)
				return nil, domain.NewValidationError("client_id", "unknown client", store.ErrClientNotFound)
			},
		}
		h := NewUserHandler(svc, testLogger())
		rec := httptest.NewRecorder()
		h.SetDefaultClient(rec, newRequest(t, http.MethodPut, "/api/users/me/default-client",
			DefaultClientRequest{ClientID: &clientID}, &userID))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("default client cleared", func(t *testing.T) {
		t.Parallel()

		svc := &mockUserService{
			SetDefaultClientFn: func(_ context.Context, _ uuid.UUID, id *uuid.UUID) (*domain.User, error) {
				assert.Nil(t, id)
				return me, nil
			},
		}
		h := NewUserHandler(svc, testLogger())
		rec := httptest.NewRecorder()
		h.SetDefaultClient(rec, newRequest(t, http.MethodPut, "/api/users/me/default-client",
			`{"client_id":null}`, &userID))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestSummaryHandler_Week(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	cardID := uuid.New()
	monday := date(2024, 3, 4)

	week := &service.WeekSummary{
		Offset:    -1,
		WeekStart: monday,
		Dates:     domain.WeekDates(monday, 0),
		Rows: []service.UserWeek{{
			User: &domain.User{ID: userID, Name: "dev"},
			Days: []service.DaySummary{
				{Date: monday, CardID: &cardID, ItemCount: 3, TotalHours: 7.5},
				{Date: domain.AddDays(monday, 1)},
			},
		}},
	}

	tests := []struct {
		name       string
		query      string
		wantOffset int
		wantStatus int
	}{
		{name: "default offset", query: "", wantOffset: 0, wantStatus: http.StatusOK},
		{name: "previous week", query: "?offset=-1", wantOffset: -1, wantStatus: http.StatusOK},
		{name: "not a number", query: "?offset=last", wantStatus: http.StatusBadRequest},
		{name: "out of range", query: "?offset=100000", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &mockSummaryService{
				WeekFn: func(_ context.Context, offset int) (*service.WeekSummary, error) {
					assert.Equal(t, tt.wantOffset, offset)
					return week, nil
				},
			}
			h := NewSummaryHandler(svc, testLogger())
			rec := httptest.NewRecorder()
			h.Week(rec, newRequest(t, http.MethodGet, "/api/summary/week"+tt.query, nil, &userID))

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			resp := decodeBody[WeekSummaryResponse](t, rec)
			assert.Equal(t, "2024-03-04", resp.WeekStart)
			assert.Len(t, resp.Dates, 7)
			require.Len(t, resp.Users, 1)
			assert.Equal(t, 7.5, resp.Users[0].Days[0].TotalHours)
			assert.Nil(t, resp.Users[0].Days[1].CardID)
		})
	}
}
