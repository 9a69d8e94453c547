package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinesaas/movie-booking-api/internal/config"
	"github.com/cinesaas/movie-booking-api/internal/middleware"
	"github.com/cinesaas/movie-booking-api/internal/model"
	"github.com/cinesaas/movie-booking-api/internal/repository"
	"github.com/cinesaas/movie-booking-api/internal/utils"
)

// UserStore is the slice of the credential store the auth handler needs.
// repository.UserRepo satisfies it; tests substitute an in-memory fake.
type UserStore interface {
	Create(ctx context.Context, username, email, password, role string, cost int) (uint64, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	RecordFailedLogin(ctx context.Context, id uint64, lockUntil *time.Time) error
	ResetLoginState(ctx context.Context, id uint64, at time.Time) error
}

// APIKeyAdminStore covers key issuance and management.  repository.APIKeyRepo
// satisfies it.
type APIKeyAdminStore interface {
	Insert(ctx context.Context, k *model.APIKey) (uint64, error)
	ListByClient(ctx context.Context, clientID uint64) ([]model.APIKey, error)
	Revoke(ctx context.Context, id, clientID uint64) error
}

// AuthHandler bundles dependencies for authentication and API key
// endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users UserStore
	Keys  APIKeyAdminStore
}

func NewAuthHandler(cfg config.Config, users UserStore, keys APIKeyAdminStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Keys: keys}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // admin | client | public
}
type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type tokenResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // seconds until expiry
}
type createAPIKeyReq struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
	ExpiresDays int      `json:"expires_days"`
	RateLimit   int      `json:"rate_limit"`
}
type apiKeyResp struct {
	ID          uint64     `json:"id"`
	Name        string     `json:"name"`
	Key         string     `json:"key"` // raw secret on creation, "***" in listings
	KeyPrefix   string     `json:"key_prefix"`
	IsActive    bool       `json:"is_active"`
	Permissions []string   `json:"permissions"`
	RateLimit   int        `json:"rate_limit"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

func (h *AuthHandler) token(u model.User) (tokenResp, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Username, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return tokenResp{}, err
	}
	return tokenResp{
		AccessToken: access.Token,
		TokenType:   "bearer",
		ExpiresIn:   h.Cfg.AccessTTLMin * 60,
	}, nil
}

// Register creates a staff account and returns a token immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	username, err := utils.ValidateString(req.Username, 3, 50)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	email, err := utils.ValidateEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	password, err := utils.ValidateString(req.Password, 8, 128)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role != model.RoleAdmin && role != model.RoleClient {
		role = model.RolePublic
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, username, email, password, role, h.Cfg.BcryptCost)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "username already registered"})
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	resp, err := h.token(model.User{ID: uid, Username: username, Role: role})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login verifies credentials and returns a fresh access token.  Unknown
// usernames and wrong passwords produce the identical response so callers
// cannot enumerate accounts.  Five consecutive failures lock the account;
// the lock expires by wall clock and a successful login clears the
// counter.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	now := time.Now().UTC()
	if u.Locked(now) {
		return c.JSON(http.StatusLocked, echo.Map{
			"error":        "account locked",
			"locked_until": u.LockedUntil,
		})
	}

	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		var lockUntil *time.Time
		if u.FailedLoginAttempts+1 >= h.Cfg.LockoutAttempts {
			t := now.Add(h.Cfg.LockoutDuration)
			lockUntil = &t
		}
		if err := h.Users.RecordFailedLogin(ctx, u.ID, lockUntil); err != nil {
			c.Logger().Errorf("record failed login: %v", err)
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := h.Users.ResetLoginState(ctx, u.ID, now); err != nil {
		c.Logger().Errorf("reset login state: %v", err)
	}

	resp, err := h.token(u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, resp)
}

// VerifyToken reports the verified claims of the presented bearer token.
func (h *AuthHandler) VerifyToken(c echo.Context) error {
	p := middleware.CurrentPrincipal(c)
	return c.JSON(http.StatusOK, echo.Map{
		"valid":    true,
		"user_id":  p.UserID,
		"username": p.Username,
		"role":     p.Role,
	})
}

// RefreshToken exchanges a valid bearer token for a new one with a fresh
// expiry.
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	p := middleware.CurrentPrincipal(c)
	resp, err := h.token(model.User{ID: p.UserID, Username: p.Username, Role: p.Role})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, resp)
}

// Me returns safe account info for the authenticated user; the password
// hash never leaves the handler layer.
func (h *AuthHandler) Me(c echo.Context) error {
	p := middleware.CurrentPrincipal(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":            u.ID,
		"username":      u.Username,
		"email":         u.Email,
		"role":          u.Role,
		"is_active":     u.IsActive,
		"created_at":    u.CreatedAt,
		"last_login_at": u.LastLoginAt,
	})
}

// CreateAPIKey issues a new key for the calling admin's client.  The raw
// secret appears in this response and nowhere else, ever; only its hash is
// stored.
func (h *AuthHandler) CreateAPIKey(c echo.Context) error {
	var req createAPIKeyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name, err := utils.ValidateString(req.Name, 1, 100)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	p := middleware.CurrentPrincipal(c)

	raw := utils.NewAPIKeySecret(p.UserID, name)
	key := model.APIKey{
		ClientID:    p.UserID,
		KeyHash:     utils.HashAPIKey(raw),
		KeyPrefix:   utils.APIKeyPrefix(raw),
		Name:        name,
		IsActive:    true,
		Permissions: req.Permissions,
		RateLimit:   req.RateLimit,
	}
	if key.RateLimit <= 0 {
		key.RateLimit = 200
	}
	if req.ExpiresDays > 0 {
		t := time.Now().UTC().AddDate(0, 0, req.ExpiresDays)
		key.ExpiresAt = &t
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Keys.Insert(ctx, &key)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create api key failed"})
	}

	return c.JSON(http.StatusOK, apiKeyResp{
		ID:          id,
		Name:        key.Name,
		Key:         raw, // only returned on creation
		KeyPrefix:   key.KeyPrefix,
		IsActive:    true,
		Permissions: key.Permissions,
		RateLimit:   key.RateLimit,
		CreatedAt:   time.Now().UTC(),
		ExpiresAt:   key.ExpiresAt,
	})
}

// ListAPIKeys returns the caller's keys with secrets masked.
func (h *AuthHandler) ListAPIKeys(c echo.Context) error {
	p := middleware.CurrentPrincipal(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	keys, err := h.Keys.ListByClient(ctx, p.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]apiKeyResp, 0, len(keys))
	for _, k := range keys {
		out = append(out, apiKeyResp{
			ID:          k.ID,
			Name:        k.Name,
			Key:         "***", // never return the actual key
			KeyPrefix:   k.KeyPrefix,
			IsActive:    k.IsActive,
			Permissions: k.Permissions,
			RateLimit:   k.RateLimit,
			CreatedAt:   k.CreatedAt,
			ExpiresAt:   k.ExpiresAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// RevokeAPIKey deactivates a key.  Revocation is permanent.
func (h *AuthHandler) RevokeAPIKey(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid key id"})
	}
	p := middleware.CurrentPrincipal(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Keys.Revoke(ctx, id, p.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "api key not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "api key revoked"})
}
