package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cinesaas/movie-booking-api/internal/config"
	"github.com/cinesaas/movie-booking-api/internal/ratelimit"
	"github.com/cinesaas/movie-booking-api/internal/utils"
)

// Paths exempt from rate limiting entirely: health checks and the root
// index.
var rateLimitExempt = map[string]bool{
	"/healthz":    true,
	"/api/":       true,
	"/api":        true,
	"/api/health": true,
}

// Path fragments that mark a route as admin-sensitive for limit class
// selection.
var adminSensitive = []string{"/clients", "/uploads", "/initialize"}

func isAdminSensitive(path string) bool {
	for _, frag := range adminSensitive {
		if strings.Contains(path, frag) {
			return true
		}
	}
	return false
}

// classify picks the rate class for a request: the composite key and the
// limit that applies.
//
//   - admin: any Authorization header on an admin-sensitive path, keyed by
//     client IP
//   - api_key: a syntactically valid X-API-Key header, keyed by the literal
//     key value; the limit is the key's own configured rate when the key
//     verified, the class default otherwise
//   - public: everything else, keyed by client IP
func classify(cfg config.RateLimitConfig, c echo.Context) (string, int) {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}

	if c.Request().Header.Get("Authorization") != "" && isAdminSensitive(c.Request().URL.Path) {
		return "admin:" + ip, cfg.AdminLimit
	}
	if raw := c.Request().Header.Get("X-API-Key"); utils.HasAPIKeyShape(raw) {
		limit := cfg.APIKeyLimit
		if p := CurrentPrincipal(c); p.Kind == PrincipalAPIKey && p.Key.RateLimit > 0 {
			limit = p.Key.RateLimit
		}
		return "api_key:" + raw, limit
	}
	return "public:" + ip, cfg.PublicLimit
}

// RateLimit enforces the sliding-window limit for every non-exempt
// request, before any handler executes.  X-RateLimit-Limit, -Remaining
// and -Reset (epoch seconds) are attached to the response whether the
// request is admitted or not; a rejected request gets 429 with the same
// numbers in the body.  Rejections are not recorded against the limit.
func RateLimit(cfg config.RateLimitConfig, limiter ratelimit.Limiter) echo.MiddlewareFunc {
	if !cfg.Enabled || limiter == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if rateLimitExempt[c.Request().URL.Path] {
				return next(c)
			}

			key, limit := classify(cfg, c)
			res, err := limiter.Allow(c.Request().Context(), key, limit, cfg.Window)
			if err != nil {
				// a broken limiter backend must not take the API down
				c.Logger().Warnf("rate limiter error for key=%s: %v", key, err)
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.Reset.Unix(), 10))

			if !res.Allowed {
				if cfg.Debug {
					c.Logger().Infof("rate limit block key=%s limit=%d", key, limit)
				}
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":     "rate limit exceeded",
					"limit":     res.Limit,
					"remaining": res.Remaining,
					"reset":     res.Reset.Unix(),
				})
			}
			return next(c)
		}
	}
}
