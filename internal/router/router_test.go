package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinesaas/movie-booking-api/internal/config"
	"github.com/cinesaas/movie-booking-api/internal/handler"
	"github.com/cinesaas/movie-booking-api/internal/middleware"
	"github.com/cinesaas/movie-booking-api/internal/model"
	"github.com/cinesaas/movie-booking-api/internal/repository"
	"github.com/cinesaas/movie-booking-api/internal/utils"
)

const routeTestSecret = "router-test-secret"

// nullUserStore satisfies handler.UserStore; routes under test never
// reach it.
type nullUserStore struct{}

func (nullUserStore) Create(context.Context, string, string, string, string, int) (uint64, error) {
	return 0, repository.ErrNotFound
}
func (nullUserStore) GetByUsername(context.Context, string) (model.User, error) {
	return model.User{}, repository.ErrNotFound
}
func (nullUserStore) GetByID(context.Context, uint64) (model.User, error) {
	return model.User{}, repository.ErrNotFound
}
func (nullUserStore) RecordFailedLogin(context.Context, uint64, *time.Time) error { return nil }
func (nullUserStore) ResetLoginState(context.Context, uint64, time.Time) error    { return nil }

type nullKeyStore struct{}

func (nullKeyStore) Insert(context.Context, *model.APIKey) (uint64, error) { return 0, nil }
func (nullKeyStore) ListByClient(context.Context, uint64) ([]model.APIKey, error) {
	return nil, nil
}
func (nullKeyStore) Revoke(context.Context, uint64, uint64) error { return repository.ErrNotFound }

func newAuthRouter() *echo.Echo {
	e := echo.New()
	e.Use(middleware.Identity(routeTestSecret, nil))
	cfg := config.Config{JWTSecret: routeTestSecret, AccessTTLMin: 30}
	RegisterAuth(e, handler.NewAuthHandler(cfg, nullUserStore{}, nullKeyStore{}))
	return e
}

func TestVerifyTokenRouteIsPost(t *testing.T) {
	e := newAuthRouter()
	tok, err := utils.NewAccessToken(routeTestSecret, 7, "alice", model.RoleClient, 30)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/verify-token", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"valid":true`)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)

	// the introspection endpoint does not answer GET
	req = httptest.NewRequest(http.MethodGet, "/api/auth/verify-token", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestVerifyTokenRouteRequiresUser(t *testing.T) {
	e := newAuthRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/verify-token", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing bearer token")
}

func TestRefreshTokenRoute(t *testing.T) {
	e := newAuthRouter()
	tok, err := utils.NewAccessToken(routeTestSecret, 7, "alice", model.RoleClient, 30)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh-token", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "access_token")
}
