package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinesaas/movie-booking-api/internal/repository"
	"github.com/cinesaas/movie-booking-api/internal/utils"
)

// ClientHandler serves admin-only tenant management.
type ClientHandler struct {
	Clients *repository.ClientRepo
}

func NewClientHandler(clients *repository.ClientRepo) *ClientHandler {
	return &ClientHandler{Clients: clients}
}

type clientReq struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Company          string `json:"company"`
	SubscriptionTier string `json:"subscription_tier"`
}

// Create registers a new client tenant.  The subscription tier decides
// quotas; unknown tiers fall back to basic.
func (h *ClientHandler) Create(c echo.Context) error {
	var req clientReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name, err := utils.ValidateString(req.Name, 1, 200)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	email, err := utils.ValidateEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Clients.Create(ctx, name, email, req.Company, req.SubscriptionTier)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "client email already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create client failed"})
	}

	cl, err := h.Clients.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusCreated, echo.Map{"id": id})
	}
	return c.JSON(http.StatusCreated, cl)
}

// List returns all clients, newest first.
func (h *ClientHandler) List(c echo.Context) error {
	limit := 100
	if s := c.QueryParam("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 && v <= 500 {
			limit = v
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	clients, err := h.Clients.List(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"clients": clients, "total": len(clients)})
}

// Get returns one client.
func (h *ClientHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid client id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cl, err := h.Clients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "client not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, cl)
}

// Deactivate disables a client.  Its movies stop being served but the
// records stay for audit.
func (h *ClientHandler) Deactivate(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid client id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Clients.Deactivate(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "client not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "deactivate client failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "client deactivated"})
}
