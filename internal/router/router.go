// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/cinesaas/movie-booking-api/internal/config"
	"github.com/cinesaas/movie-booking-api/internal/handler"
	"github.com/cinesaas/movie-booking-api/internal/middleware"
	"github.com/cinesaas/movie-booking-api/internal/model"
	"github.com/cinesaas/movie-booking-api/internal/ratelimit"
)

// RegisterGlobal applies the middleware stack every request passes
// through: security headers, best-effort identity resolution, then rate
// limiting.  Identity runs before the limiter so admin classification can
// see the Authorization header.
func RegisterGlobal(e *echo.Echo, jwtSecret string, keys middleware.APIKeyStore, rlCfg config.RateLimitConfig, limiter ratelimit.Limiter) {
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.Identity(jwtSecret, keys))
	if rlCfg.Enabled {
		e.Use(middleware.RateLimit(rlCfg, limiter))
	}
}

// RegisterRoutes registers the unauthenticated service endpoints.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/api/health", handler.Health)
	e.GET("/api", handler.Root)
	e.GET("/api/", handler.Root)
}

// RegisterAuth registers registration, login, token introspection, and
// API key management.  Key management is restricted to admins.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	authed := g.Group("", middleware.RequireUser())
	authed.POST("/verify-token", a.VerifyToken)
	authed.POST("/refresh-token", a.RefreshToken)
	authed.GET("/me", a.Me)

	keys := g.Group("/api-keys", middleware.RequireUser(), middleware.RequireRole(model.RoleAdmin))
	keys.POST("", a.CreateAPIKey)
	keys.GET("", a.ListAPIKeys)
	keys.DELETE("/:id", a.RevokeAPIKey)
}

// RegisterMovies registers movie CRUD (staff only), theater management,
// and the public categorized showtime listing.  The listing response is
// cached when Redis is reachable.
func RegisterMovies(e *echo.Echo, m *handler.MovieHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	g := e.Group("/api/movies")

	// public browse surface
	g.GET("/:id", m.Get)
	g.GET("/:id/theaters", m.ListTheaters)
	g.GET("/:id/showtimes/categorized", m.CategorizedShowtimes, middleware.CacheJSON(cacheCfg, rdb))

	staff := g.Group("", middleware.RequireUser(), middleware.RequireRole(model.RoleAdmin, model.RoleClient))
	staff.POST("", m.Create)
	staff.GET("", m.List)
	staff.PUT("/:id", m.Update)
	staff.DELETE("/:id", m.Delete)
	staff.POST("/:id/theaters", m.AddTheater)
}

// RegisterCategories registers the screening category catalog.  Reads are
// public; writes and seeding are admin only.
func RegisterCategories(e *echo.Echo, h *handler.CategoryHandler) {
	g := e.Group("/api/categories")
	g.GET("", h.List)
	g.GET("/types/available", h.AvailableTypes)
	g.GET("/time-categories/available", h.AvailableTimeCategories)
	g.GET("/:id", h.Get)

	admin := g.Group("", middleware.RequireUser(), middleware.RequireRole(model.RoleAdmin))
	admin.POST("", h.Create)
	admin.PUT("/:id", h.Update)
	admin.DELETE("/:id", h.Delete)
	admin.POST("/initialize-defaults", h.InitializeDefaults)
}

// RegisterClients registers admin-only tenant management.
func RegisterClients(e *echo.Echo, h *handler.ClientHandler) {
	g := e.Group("/api/clients", middleware.RequireUser(), middleware.RequireRole(model.RoleAdmin))
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Deactivate)
}

// RegisterUploads registers image upload and asset management for staff,
// and serves the stored files statically.
func RegisterUploads(e *echo.Echo, h *handler.UploadHandler) {
	e.Static("/uploads", h.Dir)

	g := e.Group("/api/uploads", middleware.RequireUser(), middleware.RequireRole(model.RoleAdmin, model.RoleClient))
	g.POST("/image", h.UploadImage)
	g.POST("/multiple", h.UploadMultiple)
	g.GET("/images", h.ListImages)
	g.GET("/images/:id", h.GetImage)
	g.DELETE("/images/:id", h.DeleteImage)
}

// RegisterTickets registers the public purchase flow.
func RegisterTickets(e *echo.Echo, h *handler.TicketHandler) {
	g := e.Group("/api/tickets")
	g.POST("/purchase", h.Purchase)
	g.GET("/transactions/:id", h.GetTransaction)
	g.GET("/validate/:ticket_id", h.ValidateTicket)
}
