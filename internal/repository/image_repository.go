package repository

import (
	"context"
	"database/sql"

	"github.com/cinesaas/movie-booking-api/internal/model"
)

type ImageRepo struct{ DB *sql.DB }

func NewImageRepo(db *sql.DB) *ImageRepo { return &ImageRepo{DB: db} }

const imageColumns = "id,client_id,name,url,alt_text,category,size_bytes,created_at"

func scanImage(scan func(dest ...any) error) (model.ImageAsset, error) {
	var a model.ImageAsset
	err := scan(&a.ID, &a.ClientID, &a.Name, &a.URL, &a.AltText, &a.Category, &a.SizeBytes, &a.CreatedAt)
	return a, err
}

// Insert persists an image asset record.
func (r *ImageRepo) Insert(ctx context.Context, a *model.ImageAsset) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO image_assets (id, client_id, name, url, alt_text, category, size_bytes)
		 VALUES (?,?,?,?,?,?,?)`,
		a.ID, a.ClientID, a.Name, a.URL, a.AltText, a.Category, a.SizeBytes)
	return err
}

// GetByID fetches one asset.
func (r *ImageRepo) GetByID(ctx context.Context, id string) (model.ImageAsset, error) {
	a, err := scanImage(r.DB.QueryRowContext(ctx,
		"SELECT "+imageColumns+" FROM image_assets WHERE id=? LIMIT 1", id).Scan)
	if err == sql.ErrNoRows {
		return a, ErrNotFound
	}
	return a, err
}

// List returns assets, optionally scoped to a client and category.
func (r *ImageRepo) List(ctx context.Context, clientID uint64, category string, limit int) ([]model.ImageAsset, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := "SELECT " + imageColumns + " FROM image_assets WHERE 1=1"
	args := []any{}
	if clientID != 0 {
		q += " AND client_id=?"
		args = append(args, clientID)
	}
	if category != "" {
		q += " AND category=?"
		args = append(args, category)
	}
	q += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ImageAsset
	for rows.Next() {
		a, err := scanImage(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CountByClient supports subscription-tier image caps.
func (r *ImageRepo) CountByClient(ctx context.Context, clientID uint64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM image_assets WHERE client_id=?", clientID).Scan(&n)
	return n, err
}

// Delete removes an asset record.  The caller deletes the file.
func (r *ImageRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM image_assets WHERE id=?", id)
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
