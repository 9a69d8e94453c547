package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/cinesaas/movie-booking-api/internal/model"
)

type APIKeyRepo struct{ DB *sql.DB }

func NewAPIKeyRepo(db *sql.DB) *APIKeyRepo { return &APIKeyRepo{DB: db} }

const apiKeyColumns = "id,client_id,key_hash,key_prefix,name,is_active,permissions,rate_limit,usage_count,expires_at,last_used_at,created_at"

func scanAPIKey(scan func(dest ...any) error) (model.APIKey, error) {
	var k model.APIKey
	var perms string
	err := scan(&k.ID, &k.ClientID, &k.KeyHash, &k.KeyPrefix, &k.Name, &k.IsActive,
		&perms, &k.RateLimit, &k.UsageCount, &k.ExpiresAt, &k.LastUsedAt, &k.CreatedAt)
	if err == sql.ErrNoRows {
		return k, ErrNotFound
	}
	if err != nil {
		return k, err
	}
	if perms != "" {
		k.Permissions = strings.Split(perms, ",")
	}
	return k, nil
}

// Insert persists a new key record.  Only the hash and display prefix of
// the secret are stored; the raw secret never reaches this layer's writes
// beyond the hash the caller already derived.
func (r *APIKeyRepo) Insert(ctx context.Context, k *model.APIKey) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO api_keys (client_id, key_hash, key_prefix, name, is_active, permissions, rate_limit, expires_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
		k.ClientID, k.KeyHash, k.KeyPrefix, k.Name, true,
		strings.Join(k.Permissions, ","), k.RateLimit, k.ExpiresAt)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListByClient returns all keys owned by a client, newest first.
func (r *APIKeyRepo) ListByClient(ctx context.Context, clientID uint64) ([]model.APIKey, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+apiKeyColumns+" FROM api_keys WHERE client_id=? ORDER BY created_at DESC", clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []model.APIKey
	for rows.Next() {
		k, err := scanAPIKey(rows.Scan)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// GetActiveByHash resolves a presented (already hashed) secret to its key
// record.  Inactive and expired keys are not returned; callers can treat
// ErrNotFound as an invalid credential.
func (r *APIKeyRepo) GetActiveByHash(ctx context.Context, hash string, now time.Time) (model.APIKey, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+apiKeyColumns+" FROM api_keys WHERE key_hash=? AND is_active=1 AND (expires_at IS NULL OR expires_at > ?) LIMIT 1",
		hash, now)
	return scanAPIKey(row.Scan)
}

// Revoke deactivates a key owned by the given client.  Revocation is
// one-way; there is no corresponding activate.
func (r *APIKeyRepo) Revoke(ctx context.Context, id, clientID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE api_keys SET is_active=0 WHERE id=? AND client_id=?", id, clientID)
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

// TouchUsage records an admitted request against the key.
func (r *APIKeyRepo) TouchUsage(ctx context.Context, id uint64, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE api_keys SET usage_count = usage_count + 1, last_used_at = ? WHERE id = ?", at, id)
	return err
}
