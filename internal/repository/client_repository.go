package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/cinesaas/movie-booking-api/internal/model"
)

type ClientRepo struct{ DB *sql.DB }

func NewClientRepo(db *sql.DB) *ClientRepo { return &ClientRepo{DB: db} }

const clientColumns = "id,name,email,company,subscription_tier,is_active,max_movies,max_images,max_theaters,created_at"

func scanClient(scan func(dest ...any) error) (model.Client, error) {
	var c model.Client
	err := scan(&c.ID, &c.Name, &c.Email, &c.Company, &c.SubscriptionTier,
		&c.IsActive, &c.MaxMovies, &c.MaxImages, &c.MaxTheaters, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return c, ErrNotFound
	}
	return c, err
}

// tierLimits maps a subscription tier to its creation caps
// (movies, images, theaters).
func tierLimits(tier string) (int, int, int) {
	switch tier {
	case "enterprise":
		return 25, 500, 1000
	case "premium":
		return 5, 100, 200
	default: // basic
		return 1, 10, 50
	}
}

// Create inserts a client with the caps implied by its tier.
func (r *ClientRepo) Create(ctx context.Context, name, email, company, tier string) (uint64, error) {
	maxMovies, maxImages, maxTheaters := tierLimits(tier)
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO clients (name, email, company, subscription_tier, is_active, max_movies, max_images, max_theaters)
		 VALUES (?,?,?,?,1,?,?,?)`,
		strings.TrimSpace(name), strings.ToLower(strings.TrimSpace(email)), company, tier,
		maxMovies, maxImages, maxTheaters)
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

// GetByID fetches a client by id.
func (r *ClientRepo) GetByID(ctx context.Context, id uint64) (model.Client, error) {
	return scanClient(r.DB.QueryRowContext(ctx,
		"SELECT "+clientColumns+" FROM clients WHERE id=? LIMIT 1", id).Scan)
}

// List returns clients, newest first.
func (r *ClientRepo) List(ctx context.Context, limit int) ([]model.Client, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+clientColumns+" FROM clients ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Client
	for rows.Next() {
		c, err := scanClient(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Deactivate soft-disables a client; their microsites stop serving but
// records are kept.
func (r *ClientRepo) Deactivate(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE clients SET is_active=0 WHERE id=?", id)
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
