package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"band-market/internal/data/entity"
	"band-market/internal/data/repository/mocks"
	"band-market/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestAuthSession(t *testing.T) {
	userID := uuid.New()
	sessions := new(mocks.SessionRepository)
	sessions.On("FindValidSession", mock.Anything, "good-token").
		Return(&entity.Session{UserID: userID, Token: "good-token", UserRole: entity.RoleManager}, nil)
	sessions.On("FindValidSession", mock.Anything, "stale-token").Return(nil, nil)
	sessions.On("FindValidSession", mock.Anything, "broken-token").Return(nil, errors.New("db down"))

	var seen utils.Caller
	handler := AuthSession(sessions, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = utils.GetCallerFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"no token", "Bearer ", http.StatusUnauthorized},
		{"expired session", "Bearer stale-token", http.StatusUnauthorized},
		{"store failure", "Bearer broken-token", http.StatusInternalServerError},
		{"valid session", "Bearer good-token", http.StatusNoContent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/offers", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}

	assert.Equal(t, userID, seen.UserID)
	assert.Equal(t, utils.RoleManager, seen.Role)
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(zap.NewNop(), utils.RoleManager, utils.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(ctx context.Context) int {
		req := httptest.NewRequest(http.MethodPost, "/api/manage/products", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(context.Background()))
	assert.Equal(t, http.StatusForbidden, serve(utils.SetCallerContext(context.Background(),
		utils.Caller{UserID: uuid.New(), Role: utils.RoleCustomer})))
	assert.Equal(t, http.StatusOK, serve(utils.SetCallerContext(context.Background(),
		utils.Caller{UserID: uuid.New(), Role: utils.RoleAdmin})))
}

func TestRecover(t *testing.T) {
	handler := Recover(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}
