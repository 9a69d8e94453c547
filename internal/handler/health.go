package handler // declare the package name; contains HTTP handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Health is a simple health-check endpoint used by load balancers and
// monitoring systems to verify that the service is running.  It is exempt
// from rate limiting.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

// Root describes the API surface for unauthenticated discovery.
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Movie Ticket Booking SaaS API",
		"status":  "active",
		"endpoints": echo.Map{
			"auth":       "/api/auth",
			"movies":     "/api/movies",
			"clients":    "/api/clients",
			"categories": "/api/categories",
			"tickets":    "/api/tickets",
			"health":     "/api/health",
		},
	})
}
