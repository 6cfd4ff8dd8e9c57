package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/standup-api/internal/api/shared"
	"github.com/phrazzld/standup-api/internal/platform/logger"
	"github.com/phrazzld/standup-api/internal/service/auth"
)

func TestAuthenticate(t *testing.T) {
	userID := uuid.New()
	jwtService := &auth.MockJWTService{
		ValidateTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
			switch token {
			case "good":
				return &auth.Claims{UserID: userID, TokenType: auth.TokenTypeAccess}, nil
			case "expired":
				return nil, auth.ErrExpiredToken
			case "refresh":
				return nil, auth.ErrWrongTokenType
			case "broken":
				return nil, errors.New("keyring unavailable")
			}
			return nil, auth.ErrInvalidToken
		},
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantError  string
	}{
		{name: "valid token", header: "Bearer good", wantStatus: http.StatusOK},
		{name: "lowercase scheme", header: "bearer good", wantStatus: http.StatusOK},
		{name: "missing header", wantStatus: http.StatusUnauthorized, wantError: "Authorization header required"},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantError: "Invalid authorization format"},
		{name: "no token", header: "Bearer ", wantStatus: http.StatusUnauthorized, wantError: "Invalid authorization format"},
		{name: "expired", header: "Bearer expired", wantStatus: http.StatusUnauthorized, wantError: "Token expired"},
		{name: "refresh token", header: "Bearer refresh", wantStatus: http.StatusUnauthorized, wantError: "Invalid token"},
		{name: "invalid", header: "Bearer junk", wantStatus: http.StatusUnauthorized, wantError: "Invalid token"},
		{name: "unexpected failure", header: "Bearer broken", wantStatus: http.StatusInternalServerError, wantError: "Authentication error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotUserID uuid.UUID
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID, _ = shared.UserIDFromContext(r.Context())
				assert.NotNil(t, logger.FromContext(r.Context()))
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/cards", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()

			NewAuthMiddleware(jwtService).Authenticate(next).ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantError == "" {
				assert.Equal(t, userID, gotUserID)
				return
			}
			var body shared.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.wantError, body.Error)
			assert.Equal(t, uuid.Nil, gotUserID)
		})
	}
}

func TestTraceMiddleware(t *testing.T) {
	var traceID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		shared.RespondWithError(w, r, http.StatusBadRequest, "bad")
	})

	w := httptest.NewRecorder()
	TraceMiddleware(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Len(t, traceID, 32)
	assert.Equal(t, traceID, w.Header().Get(TraceIDHeader))

	var body shared.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, traceID, body.TraceID)
}
