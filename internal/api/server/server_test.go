package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xela07ax/crm-backend/internal/api/handler"
	"github.com/xela07ax/crm-backend/internal/api/server"
	"github.com/xela07ax/crm-backend/internal/domain"
	"github.com/xela07ax/crm-backend/internal/infra"
	"github.com/xela07ax/crm-backend/internal/infra/auth"
	"github.com/xela07ax/crm-backend/internal/service"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserStore struct {
	users map[string]*domain.User
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u := f.users[email]
	if u == nil || u.IsDeleted {
		return nil, nil
	}
	return u, nil
}

func int64Ptr(v int64) *int64 { return &v }

func newTestAPI(t *testing.T, store service.UserProvider) http.Handler {
	t.Helper()

	codec, err := auth.NewTokenCodec("test-secret", "HS256")
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics := infra.NewMetrics(reg)
	logger := zap.NewNop()

	svc := service.NewAuthService(store, auth.NewPasswordHasher(bcrypt.MinCost), codec, 60, logger)
	authH := handler.NewAuthHandler(svc, metrics, logger)
	resolver := auth.NewIdentityResolver(codec)

	return server.NewAPIServer(logger, metrics, reg, resolver, authH)
}

func salesStore(t *testing.T) *fakeUserStore {
	t.Helper()
	hash, err := auth.NewPasswordHasher(bcrypt.MinCost).Hash("secret")
	require.NoError(t, err)
	return &fakeUserStore{users: map[string]*domain.User{
		"a@b.com": {
			ID:           7,
			Email:        "a@b.com",
			PasswordHash: hash,
			Role:         "sales",
			DepartmentID: int64Ptr(3),
			IsAdmin:      false,
		},
	}}
}

func TestLoginThenMe(t *testing.T) {
	api := newTestAPI(t, salesStore(t))

	// Логин
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"a@b.com","password":"secret"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var tokenResp domain.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokenResp))
	require.Equal(t, "bearer", tokenResp.TokenType)
	require.NotEmpty(t, tokenResp.AccessToken)

	// Личность по выданному токену
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokenResp.AccessToken)
	rec = httptest.NewRecorder()
	api.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var me domain.CurrentUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, int64(7), me.ID)
	assert.Equal(t, "sales", me.Role)
	require.NotNil(t, me.DepartmentID)
	assert.Equal(t, int64(3), *me.DepartmentID)
	assert.Nil(t, me.TeamID)
	assert.False(t, me.IsAdmin)
}

func TestMe_Anonymous(t *testing.T) {
	api := newTestAPI(t, salesStore(t))

	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
}

func TestMe_GarbageToken(t *testing.T) {
	api := newTestAPI(t, salesStore(t))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_TOKEN", body.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	api := newTestAPI(t, salesStore(t))

	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"a@b.com","password":"wrongpassword"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_CREDENTIALS", body.Code)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t, salesStore(t))

	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	api := newTestAPI(t, salesStore(t))

	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
