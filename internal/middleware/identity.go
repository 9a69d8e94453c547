package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinesaas/movie-booking-api/internal/model"
	"github.com/cinesaas/movie-booking-api/internal/utils"
)

// Context keys set by Identity and read by downstream middleware and
// handlers.
const (
	principalKey = "principal"
	userIDKey    = "user_id"
	roleKey      = "role"
)

// Principal is the resolved caller identity for one request.  Exactly one
// of the three kinds applies: a verified bearer token yields a user
// principal, a verified API key yields a key principal, and everything
// else is anonymous.
type Principal struct {
	Kind     string // "user", "api_key" or "anonymous"
	UserID   uint64 // set for user principals
	Username string
	Role     string        // set for user principals ("admin", "client", "public")
	Key      *model.APIKey // set for api_key principals
	TokenErr error         // why a presented bearer token was rejected, nil otherwise
}

const (
	PrincipalUser      = "user"
	PrincipalAPIKey    = "api_key"
	PrincipalAnonymous = "anonymous"
)

// APIKeyStore is the slice of the credential store the middleware needs:
// resolving a hashed secret to an active, unexpired key and recording its
// use.
type APIKeyStore interface {
	GetActiveByHash(ctx context.Context, hash string, now time.Time) (model.APIKey, error)
	TouchUsage(ctx context.Context, id uint64, at time.Time) error
}

// CurrentPrincipal returns the identity stored by Identity, defaulting to
// anonymous when the middleware did not run.
func CurrentPrincipal(c echo.Context) Principal {
	if v := c.Get(principalKey); v != nil {
		if p, ok := v.(Principal); ok {
			return p
		}
	}
	return Principal{Kind: PrincipalAnonymous}
}

// Identity resolves the caller's identity and stores it in the request
// context.  Resolution is best-effort and never rejects by itself; the
// rate-limit middleware and RequireRole decide what an unresolved or
// invalid identity means for the route.
//
// Resolution order: a Bearer token is inspected first and, when it
// verifies, wins.  Otherwise an X-API-Key header with the right shape is
// hashed and looked up against the store - active and unexpired keys
// yield a key principal and have their usage recorded.  Anything else is
// anonymous.  A bearer token that fails verification leaves its specific
// error on the principal so protected routes can answer "expired" and
// "malformed" differently.
func Identity(jwtSecret string, keys APIKeyStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := Principal{Kind: PrincipalAnonymous}

			if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				raw := strings.TrimPrefix(auth, "Bearer ")
				claims, err := utils.ParseAccessToken(jwtSecret, raw)
				if err != nil {
					p.TokenErr = err
				} else {
					p = Principal{
						Kind:     PrincipalUser,
						UserID:   claims.UserID,
						Username: claims.Username,
						Role:     claims.Role,
					}
				}
			}

			if p.Kind == PrincipalAnonymous && keys != nil {
				if raw := c.Request().Header.Get("X-API-Key"); utils.HasAPIKeyShape(raw) {
					now := time.Now().UTC()
					key, err := keys.GetActiveByHash(c.Request().Context(), utils.HashAPIKey(raw), now)
					if err == nil {
						p.Kind = PrincipalAPIKey
						p.Key = &key
						if err := keys.TouchUsage(c.Request().Context(), key.ID, now); err != nil {
							c.Logger().Warnf("api key usage update failed: %v", err)
						}
					}
					// an unknown or revoked key stays anonymous; the
					// public rate class and role checks apply
				}
			}

			c.Set(principalKey, p)
			if p.Kind == PrincipalUser {
				c.Set(userIDKey, p.UserID)
				c.Set(roleKey, p.Role)
			}
			return next(c)
		}
	}
}
