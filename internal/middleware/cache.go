package middleware

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/cinesaas/movie-booking-api/internal/config"
)

// bodyRecorder tees the response body so a successful JSON response can
// be stored after it is sent.
type bodyRecorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *bodyRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// CacheJSON serves GET responses for the wrapped routes from Redis.  Only
// 200 responses are stored, keyed by route plus raw query, for the
// configured TTL.  Showtime listings are read-heavy and identical across
// anonymous callers, which is exactly the shape this pays off for.  With
// no Redis client the middleware is a pass-through.
func CacheJSON(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	key := func(c echo.Context) string {
		sum := sha1.Sum([]byte(c.Path() + "?" + c.Request().URL.RawQuery))
		return fmt.Sprintf("%s:%x", cfg.Prefix, sum)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			k := key(c)
			ctx := c.Request().Context()

			if body, err := rdb.Get(ctx, k).Bytes(); err == nil {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.JSONBlob(http.StatusOK, body)
			}

			rec := &bodyRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				return err
			}
			if rec.status == http.StatusOK && rec.buf.Len() > 0 {
				if err := rdb.Set(ctx, k, rec.buf.Bytes(), cfg.TTL).Err(); err != nil {
					c.Logger().Warnf("response cache store failed: %v", err)
				}
			}
			return nil
		}
	}
}
