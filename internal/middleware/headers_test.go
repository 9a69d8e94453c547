package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecurityHeaders(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := SecurityHeaders()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))

	hdr := rec.Header()
	assert.Equal(t, "nosniff", hdr.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", hdr.Get("X-Frame-Options"))
	assert.Equal(t, "1; mode=block", hdr.Get("X-XSS-Protection"))
	assert.Equal(t, "strict-origin-when-cross-origin", hdr.Get("Referrer-Policy"))
	assert.Contains(t, hdr.Get("Permissions-Policy"), "geolocation=()")
	assert.Contains(t, hdr.Get("Content-Security-Policy"), "default-src 'self'")
	assert.Contains(t, hdr.Get("Content-Security-Policy"), "frame-ancestors 'none'")
}
