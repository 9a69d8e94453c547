package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/cinesaas/movie-booking-api/internal/model"
	"github.com/cinesaas/movie-booking-api/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,username,email,password_hash,role,is_active,failed_login_attempts,locked_until,last_login_at,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive,
		&u.FailedLoginAttempts, &u.LockedUntil, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return u, ErrNotFound
	}
	return u, err
}

// Create inserts a user with a freshly hashed password and returns its ID.
// Duplicate usernames and emails surface as the corresponding sentinels.
func (r *UserRepo) Create(ctx context.Context, username, email, password, role string, cost int) (uint64, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role) VALUES (?,?,?,?)",
		username, email, hash, role)
	if err != nil {
		// MySQL duplicate-key; the message names the violated index
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			if strings.Contains(err.Error(), "email") {
				return 0, ErrEmailExists
			}
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a user by login name.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1",
		strings.TrimSpace(username)))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// RecordFailedLogin increments the consecutive-failure counter and, when
// lockUntil is non-nil, locks the account until that instant.  The caller
// decides whether the lockout threshold was crossed.
func (r *UserRepo) RecordFailedLogin(ctx context.Context, id uint64, lockUntil *time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET failed_login_attempts = failed_login_attempts + 1, locked_until = ? WHERE id = ?",
		lockUntil, id)
	return err
}

// ResetLoginState clears the failure counter and any lock after a
// successful password verification, and stamps the login time.
func (r *UserRepo) ResetLoginState(ctx context.Context, id uint64, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET failed_login_attempts = 0, locked_until = NULL, last_login_at = ? WHERE id = ?",
		at, id)
	return err
}
