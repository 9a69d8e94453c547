package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinesaas/movie-booking-api/internal/middleware"
	"github.com/cinesaas/movie-booking-api/internal/model"
	"github.com/cinesaas/movie-booking-api/internal/repository"
	"github.com/cinesaas/movie-booking-api/internal/showtime"
	"github.com/cinesaas/movie-booking-api/internal/utils"
)

// MovieHandler serves movie configuration CRUD, theater management, and
// the categorized showtime listing.
type MovieHandler struct {
	Movies  *repository.MovieRepo
	Clients *repository.ClientRepo
}

func NewMovieHandler(movies *repository.MovieRepo, clients *repository.ClientRepo) *MovieHandler {
	return &MovieHandler{Movies: movies, Clients: clients}
}

type movieReq struct {
	ClientID         uint64   `json:"client_id"`
	MovieTitle       string   `json:"movie_title"`
	MovieSubtitle    string   `json:"movie_subtitle"`
	Description      string   `json:"description"`
	ReleaseDate      string   `json:"release_date"` // YYYY-MM-DD
	Rating           string   `json:"rating"`
	Runtime          string   `json:"runtime"`
	Genre            []string `json:"genre"`
	Director         string   `json:"director"`
	Cast             []string `json:"cast"`
	AvailableFormats []string `json:"available_formats"`
	IsActive         *bool    `json:"is_active"`
}

type theaterReq struct {
	Name    string                  `json:"name"`
	Chain   string                  `json:"chain"`
	Address string                  `json:"address"`
	City    string                  `json:"city"`
	State   string                  `json:"state"`
	ZipCode string                  `json:"zip_code"`
	Formats []model.ScreeningFormat `json:"formats"`
}

func (h *MovieHandler) apply(req movieReq, m *model.MovieConfiguration) error {
	title, err := utils.ValidateString(req.MovieTitle, 1, 200)
	if err != nil {
		return err
	}
	m.MovieTitle = title
	if req.MovieSubtitle != "" {
		sub, err := utils.ValidateString(req.MovieSubtitle, 1, 200)
		if err != nil {
			return err
		}
		m.MovieSubtitle = sub
	}
	if req.Description != "" {
		desc, err := utils.ValidateString(req.Description, 1, 5000)
		if err != nil {
			return err
		}
		m.Description = desc
	}
	if req.ReleaseDate != "" {
		d, err := time.Parse("2006-01-02", req.ReleaseDate)
		if err != nil {
			return fmt.Errorf("%w: release_date must be YYYY-MM-DD", utils.ErrValidation)
		}
		m.ReleaseDate = d
	}
	m.Rating = req.Rating
	m.Runtime = req.Runtime
	m.Genre = req.Genre
	m.Director = req.Director
	m.Cast = req.Cast
	m.AvailableFormats = req.AvailableFormats
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}
	return nil
}

// Create stores a new movie configuration for a client, enforcing the
// client's subscription tier movie quota.
func (h *MovieHandler) Create(c echo.Context) error {
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ClientID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "client_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cl, err := h.Clients.GetByID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "client not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	n, err := h.Movies.CountActiveByClient(ctx, cl.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if n >= cl.MaxMovies {
		return c.JSON(http.StatusForbidden, echo.Map{
			"error": "movie limit reached for subscription tier",
			"limit": cl.MaxMovies,
		})
	}

	m := model.MovieConfiguration{ClientID: cl.ID, IsActive: true, Theaters: []model.Theater{}}
	if err := h.apply(req, &m); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	id, err := h.Movies.Create(ctx, &m)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create movie failed"})
	}
	m.ID = id
	return c.JSON(http.StatusCreated, m)
}

// List returns movies, optionally scoped to a client and active-only.
func (h *MovieHandler) List(c echo.Context) error {
	var clientID uint64
	if s := c.QueryParam("client_id"); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid client_id"})
		}
		clientID = v
	}
	activeOnly := c.QueryParam("active_only") == "true"
	limit := 50
	if s := c.QueryParam("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	movies, err := h.Movies.List(ctx, clientID, activeOnly, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"movies": movies, "total": len(movies)})
}

// Get returns one movie configuration.  Public callers only see active
// movies; staff see everything.
func (h *MovieHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !m.IsActive {
		p := middleware.CurrentPrincipal(c)
		if p.Kind == middleware.PrincipalAnonymous {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
	}
	return c.JSON(http.StatusOK, m)
}

// Update rewrites a movie configuration's editable fields.
func (h *MovieHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.apply(req, &m); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Movies.Update(ctx, &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update movie failed"})
	}
	return c.JSON(http.StatusOK, m)
}

// Delete removes a movie configuration and its theater document.
func (h *MovieHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Movies.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete movie failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "movie deleted"})
}

// AddTheater appends a theater to a movie's theater document, enforcing
// the owning client's theater quota.
func (h *MovieHandler) AddTheater(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	var req theaterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name, err := utils.ValidateString(req.Name, 1, 200)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	cl, err := h.Clients.GetByID(ctx, m.ClientID)
	if err == nil && len(m.Theaters) >= cl.MaxTheaters {
		return c.JSON(http.StatusForbidden, echo.Map{
			"error": "theater limit reached for subscription tier",
			"limit": cl.MaxTheaters,
		})
	}

	// reject unparseable showtimes up front so the stored document stays clean
	for _, f := range req.Formats {
		for _, ts := range f.Times {
			if !showtime.Parseable(ts.Time) {
				return c.JSON(http.StatusBadRequest, echo.Map{
					"error": "unrecognized showtime format",
					"time":  ts.Time,
				})
			}
		}
	}

	tid, err := utils.RandomHex(8)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "id generation failed"})
	}
	t := model.Theater{
		ID:      "thr_" + tid,
		Name:    name,
		Chain:   req.Chain,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		ZipCode: req.ZipCode,
		Formats: req.Formats,
	}
	m.Theaters = append(m.Theaters, t)
	if err := h.Movies.UpdateTheaters(ctx, m.ID, m.Theaters); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update theaters failed"})
	}
	return c.JSON(http.StatusCreated, t)
}

// ListTheaters returns a movie's raw theater document.
func (h *MovieHandler) ListTheaters(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"theaters": m.Theaters, "total": len(m.Theaters)})
}

// CategorizedShowtimes returns the movie's theaters with every showtime
// bucketed into morning, afternoon, evening and late night, optionally
// filtered by time bucket or screening format name.
func (h *MovieHandler) CategorizedShowtimes(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	timeCategory := c.QueryParam("time_category")
	if timeCategory != "" && !showtime.Valid(timeCategory) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":     "invalid time_category",
			"valid":     showtime.Categories,
			"requested": timeCategory,
		})
	}
	screening := c.QueryParam("screening_category")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	res := showtime.Filter(m.Theaters, timeCategory, screening)
	return c.JSON(http.StatusOK, echo.Map{
		"movie_id":        m.ID,
		"movie_title":     m.MovieTitle,
		"theaters":        res.Theaters,
		"total_theaters":  len(res.Theaters),
		"filters_applied": res.FiltersApplied,
	})
}
