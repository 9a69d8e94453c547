package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinesaas/movie-booking-api/internal/model"
	"github.com/cinesaas/movie-booking-api/internal/repository"
	"github.com/cinesaas/movie-booking-api/internal/showtime"
	"github.com/cinesaas/movie-booking-api/internal/utils"
)

// CategoryHandler serves the screening category catalog plus the static
// category/type discovery endpoints.
type CategoryHandler struct {
	Categories *repository.CategoryRepo
}

func NewCategoryHandler(categories *repository.CategoryRepo) *CategoryHandler {
	return &CategoryHandler{Categories: categories}
}

type categoryReq struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

// Seeded when an admin calls initialize-defaults on a fresh install.
var defaultCategories = []struct {
	Name, Type, Description string
}{
	{"2D", model.CategoryTypeFormat, "Standard digital projection"},
	{"3D", model.CategoryTypeFormat, "Stereoscopic 3D projection"},
	{"IMAX", model.CategoryTypeFormat, "Large-format premium screen"},
	{"IMAX 3D", model.CategoryTypeFormat, "IMAX with stereoscopic 3D"},
	{"Dolby Cinema", model.CategoryTypeFormat, "Dolby Vision and Atmos presentation"},
	{"4DX", model.CategoryTypeExperience, "Motion seats and environmental effects"},
	{"VIP Seating", model.CategoryTypeExperience, "Reserved premium recliners"},
	{"Director Q&A", model.CategoryTypeSpecialEvent, "Screening followed by a director session"},
	{"Early Access", model.CategoryTypeSpecialEvent, "Preview before general release"},
}

func validCategoryType(typ string) bool {
	switch typ {
	case model.CategoryTypeFormat, model.CategoryTypeExperience, model.CategoryTypeSpecialEvent:
		return true
	}
	return false
}

// Create adds a screening category.  Names are unique; duplicates come
// back as 409.
func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name, err := utils.ValidateString(req.Name, 1, 100)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if !validCategoryType(req.Type) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid category type",
			"valid": []string{model.CategoryTypeFormat, model.CategoryTypeExperience, model.CategoryTypeSpecialEvent},
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Categories.Create(ctx, name, req.Type, req.Description)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "category name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create category failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":          id,
		"name":        name,
		"type":        req.Type,
		"description": req.Description,
		"is_active":   true,
	})
}

// List returns categories filtered by type and active flag.
func (h *CategoryHandler) List(c echo.Context) error {
	typ := c.QueryParam("type")
	if typ != "" && !validCategoryType(typ) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category type"})
	}
	var activeOnly *bool
	if s := c.QueryParam("active_only"); s != "" {
		v := s == "true"
		activeOnly = &v
	}
	limit := 100
	if s := c.QueryParam("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 && v <= 500 {
			limit = v
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cats, err := h.Categories.List(ctx, typ, activeOnly, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": cats, "total": len(cats)})
}

// Get returns one category by id.
func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cat, err := h.Categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, cat)
}

// Update rewrites a category's name, type, description, or active flag.
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cat, err := h.Categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if req.Name != "" {
		name, err := utils.ValidateString(req.Name, 1, 100)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		cat.Name = name
	}
	if req.Type != "" {
		if !validCategoryType(req.Type) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category type"})
		}
		cat.Type = req.Type
	}
	if req.Description != "" {
		cat.Description = req.Description
	}
	if req.IsActive != nil {
		cat.IsActive = *req.IsActive
	}

	if err := h.Categories.Update(ctx, &cat); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "category name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update category failed"})
	}
	return c.JSON(http.StatusOK, cat)
}

// Delete removes a category from the catalog.  Formats already attached
// to theaters keep their denormalized copy.
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Categories.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete category failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "category deleted"})
}

// AvailableTypes lists the category type vocabulary.
func (h *CategoryHandler) AvailableTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"types": []echo.Map{
			{"value": model.CategoryTypeFormat, "label": "Format"},
			{"value": model.CategoryTypeExperience, "label": "Experience"},
			{"value": model.CategoryTypeSpecialEvent, "label": "Special Event"},
		},
	})
}

// AvailableTimeCategories lists the time-of-day buckets with their hour
// ranges, for building filter UIs.
func (h *CategoryHandler) AvailableTimeCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"time_categories": []echo.Map{
			{"value": string(showtime.Morning), "label": "Morning", "range": "6:00 AM - 11:59 AM"},
			{"value": string(showtime.Afternoon), "label": "Afternoon", "range": "12:00 PM - 4:59 PM"},
			{"value": string(showtime.Evening), "label": "Evening", "range": "5:00 PM - 9:59 PM"},
			{"value": string(showtime.LateNight), "label": "Late Night", "range": "10:00 PM - 5:59 AM"},
		},
	})
}

// InitializeDefaults seeds the standard screening categories.  Seeding is
// idempotent: names that already exist are counted and skipped.
func (h *CategoryHandler) InitializeDefaults(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	created, skipped := 0, 0
	for _, d := range defaultCategories {
		_, err := h.Categories.Create(ctx, d.Name, d.Type, d.Description)
		switch {
		case err == nil:
			created++
		case errors.Is(err, repository.ErrConflict):
			skipped++
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seed categories failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "default categories initialized",
		"created": created,
		"skipped": skipped,
	})
}
