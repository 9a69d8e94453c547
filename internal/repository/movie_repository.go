package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/cinesaas/movie-booking-api/internal/model"
)

// MovieRepo persists movie configurations.  Scalar movie details live in
// ordinary columns; the list-shaped fields (genre, cast, formats and the
// whole theater tree) are JSON document columns read and written as a
// unit.
type MovieRepo struct{ DB *sql.DB }

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{DB: db} }

const movieColumns = "id,client_id,movie_title,movie_subtitle,description,release_date,rating,runtime,genre,director,cast_list,available_formats,theaters,is_active,created_at,updated_at"

func scanMovie(scan func(dest ...any) error) (model.MovieConfiguration, error) {
	var m model.MovieConfiguration
	var genre, cast, formats, theaters []byte
	err := scan(&m.ID, &m.ClientID, &m.MovieTitle, &m.MovieSubtitle, &m.Description,
		&m.ReleaseDate, &m.Rating, &m.Runtime, &genre, &m.Director, &cast,
		&formats, &theaters, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return m, ErrNotFound
	}
	if err != nil {
		return m, err
	}
	for _, pair := range []struct {
		raw []byte
		dst any
	}{
		{genre, &m.Genre},
		{cast, &m.Cast},
		{formats, &m.AvailableFormats},
		{theaters, &m.Theaters},
	} {
		if len(pair.raw) > 0 {
			if err := json.Unmarshal(pair.raw, pair.dst); err != nil {
				return m, err
			}
		}
	}
	return m, nil
}

// Create inserts a movie configuration and returns its ID.
func (r *MovieRepo) Create(ctx context.Context, m *model.MovieConfiguration) (uint64, error) {
	genre, err := json.Marshal(m.Genre)
	if err != nil {
		return 0, err
	}
	cast, err := json.Marshal(m.Cast)
	if err != nil {
		return 0, err
	}
	formats, err := json.Marshal(m.AvailableFormats)
	if err != nil {
		return 0, err
	}
	theaters, err := json.Marshal(m.Theaters)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO movie_configurations
		 (client_id, movie_title, movie_subtitle, description, release_date, rating, runtime, genre, director, cast_list, available_formats, theaters, is_active)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,1)`,
		m.ClientID, m.MovieTitle, m.MovieSubtitle, m.Description, m.ReleaseDate,
		m.Rating, m.Runtime, genre, m.Director, cast, formats, theaters)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a movie configuration with its theater tree.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (model.MovieConfiguration, error) {
	return scanMovie(r.DB.QueryRowContext(ctx,
		"SELECT "+movieColumns+" FROM movie_configurations WHERE id=? LIMIT 1", id).Scan)
}

// List returns movie configurations, optionally narrowed to one client
// and/or active state.
func (r *MovieRepo) List(ctx context.Context, clientID uint64, activeOnly bool, limit int) ([]model.MovieConfiguration, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	q := "SELECT " + movieColumns + " FROM movie_configurations WHERE 1=1"
	args := []any{}
	if clientID != 0 {
		q += " AND client_id=?"
		args = append(args, clientID)
	}
	if activeOnly {
		q += " AND is_active=1"
	}
	q += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MovieConfiguration
	for rows.Next() {
		m, err := scanMovie(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CountActiveByClient supports subscription-tier movie caps.
func (r *MovieRepo) CountActiveByClient(ctx context.Context, clientID uint64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM movie_configurations WHERE client_id=? AND is_active=1", clientID).Scan(&n)
	return n, err
}

// Update rewrites the mutable scalar fields of a configuration.
func (r *MovieRepo) Update(ctx context.Context, m *model.MovieConfiguration) error {
	genre, err := json.Marshal(m.Genre)
	if err != nil {
		return err
	}
	cast, err := json.Marshal(m.Cast)
	if err != nil {
		return err
	}
	formats, err := json.Marshal(m.AvailableFormats)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE movie_configurations
		 SET movie_title=?, movie_subtitle=?, description=?, release_date=?, rating=?, runtime=?,
		     genre=?, director=?, cast_list=?, available_formats=?, is_active=?, updated_at=?
		 WHERE id=?`,
		m.MovieTitle, m.MovieSubtitle, m.Description, m.ReleaseDate, m.Rating, m.Runtime,
		genre, m.Director, cast, formats, m.IsActive, time.Now().UTC(), m.ID)
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

// UpdateTheaters replaces the theater tree document.
func (r *MovieRepo) UpdateTheaters(ctx context.Context, movieID uint64, theaters []model.Theater) error {
	raw, err := json.Marshal(theaters)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE movie_configurations SET theaters=?, updated_at=? WHERE id=?",
		raw, time.Now().UTC(), movieID)
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

// Delete removes a configuration outright.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM movie_configurations WHERE id=?", id)
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
