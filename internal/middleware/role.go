package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cinesaas/movie-booking-api/internal/utils"
)

// RequireUser rejects requests that did not present a valid bearer token.
// The response distinguishes the failure: an expired token, a malformed or
// badly signed token, and no token at all each get their own reason so
// clients can react correctly (refresh vs re-login).
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := CurrentPrincipal(c)
			if p.Kind == PrincipalUser {
				return next(c)
			}
			switch {
			case errors.Is(p.TokenErr, utils.ErrTokenExpired):
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token expired"})
			case p.TokenErr != nil:
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			default:
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
		}
	}
}

// RequireRole enforces that the authenticated user holds one of the given
// roles.  Insufficient role is 403, distinct from the 401 an absent or
// invalid identity produces; run RequireUser first.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := CurrentPrincipal(c)
			if p.Kind != PrincipalUser || !allowed[p.Role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient role"})
			}
			return next(c)
		}
	}
}
