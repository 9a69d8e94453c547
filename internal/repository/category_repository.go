package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/cinesaas/movie-booking-api/internal/model"
)

type CategoryRepo struct{ DB *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{DB: db} }

const categoryColumns = "id,name,type,description,is_active,created_at"

func scanCategory(scan func(dest ...any) error) (model.ScreeningCategory, error) {
	var c model.ScreeningCategory
	err := scan(&c.ID, &c.Name, &c.Type, &c.Description, &c.IsActive, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return c, ErrNotFound
	}
	return c, err
}

// Create inserts a screening category.  Names are unique; duplicates
// surface as ErrConflict.
func (r *CategoryRepo) Create(ctx context.Context, name, typ, description string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO screening_categories (name, type, description, is_active) VALUES (?,?,?,1)",
		strings.TrimSpace(name), typ, description)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrConflict
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches one category.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (model.ScreeningCategory, error) {
	return scanCategory(r.DB.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM screening_categories WHERE id=? LIMIT 1", id).Scan)
}

// List returns categories with optional filtering by type and active flag.
// activeOnly=nil means both states.
func (r *CategoryRepo) List(ctx context.Context, typ string, activeOnly *bool, limit int) ([]model.ScreeningCategory, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	q := "SELECT " + categoryColumns + " FROM screening_categories WHERE 1=1"
	args := []any{}
	if typ != "" {
		q += " AND type=?"
		args = append(args, typ)
	}
	if activeOnly != nil {
		q += " AND is_active=?"
		args = append(args, *activeOnly)
	}
	q += " ORDER BY name LIMIT ?"
	args = append(args, limit)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ScreeningCategory
	for rows.Next() {
		c, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update rewrites a category's mutable fields.
func (r *CategoryRepo) Update(ctx context.Context, c *model.ScreeningCategory) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE screening_categories SET name=?, type=?, description=?, is_active=? WHERE id=?",
		strings.TrimSpace(c.Name), c.Type, c.Description, c.IsActive, c.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a category from the catalog.  Theater format entries keep
// their by-value copy; no foreign key is enforced.
func (r *CategoryRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM screening_categories WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
