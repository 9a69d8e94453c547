package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinesaas/movie-booking-api/internal/model"
	"github.com/cinesaas/movie-booking-api/internal/utils"
)

func contextWithPrincipal(p Principal) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(principalKey, p)
	return c, rec
}

func okHandler(c echo.Context) error { return c.NoContent(http.StatusOK) }

func TestRequireUserAllowsUsers(t *testing.T) {
	c, rec := contextWithPrincipal(Principal{Kind: PrincipalUser, UserID: 1, Role: model.RoleClient})
	require.NoError(t, RequireUser()(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireUserDistinguishesFailures(t *testing.T) {
	cases := []struct {
		name string
		p    Principal
		body string
	}{
		{"missing", Principal{Kind: PrincipalAnonymous}, "missing bearer token"},
		{"expired", Principal{Kind: PrincipalAnonymous, TokenErr: utils.ErrTokenExpired}, "token expired"},
		{"invalid", Principal{Kind: PrincipalAnonymous, TokenErr: utils.ErrTokenInvalid}, "invalid token"},
		{"api key is not a user", Principal{Kind: PrincipalAPIKey}, "missing bearer token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := contextWithPrincipal(tc.p)
			require.NoError(t, RequireUser()(okHandler)(c))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.body)
		})
	}
}

func TestRequireRole(t *testing.T) {
	c, rec := contextWithPrincipal(Principal{Kind: PrincipalUser, Role: model.RoleAdmin})
	require.NoError(t, RequireRole(model.RoleAdmin)(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = contextWithPrincipal(Principal{Kind: PrincipalUser, Role: model.RoleClient})
	require.NoError(t, RequireRole(model.RoleAdmin)(okHandler)(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient role")

	// multiple accepted roles
	c, rec = contextWithPrincipal(Principal{Kind: PrincipalUser, Role: model.RoleClient})
	require.NoError(t, RequireRole(model.RoleAdmin, model.RoleClient)(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// api key principals never satisfy a role requirement
	c, rec = contextWithPrincipal(Principal{Kind: PrincipalAPIKey})
	require.NoError(t, RequireRole(model.RoleAdmin)(okHandler)(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
