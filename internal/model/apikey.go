package model

import "time"

// APIKey models a row in the `api_keys` table.  The raw secret is shown to
// the caller exactly once at creation; only its SHA-256 hash is persisted.
// KeyPrefix keeps the first characters of the secret so keys can be told
// apart in listings without revealing them.  Revocation flips IsActive to
// false and is never undone.
//
// Fields:
//
//	ID          - primary key identifier.
//	ClientID    - owning client.
//	KeyHash     - SHA-256 hex digest of the raw secret.
//	KeyPrefix   - first 12 characters of the secret plus "...".
//	Name        - human-readable label.
//	IsActive    - false once revoked.
//	Permissions - granted permission names.
//	RateLimit   - requests per minute allowed for this key.
//	UsageCount  - total admitted requests.
//	ExpiresAt   - expiry (nil = never expires).
//	LastUsedAt  - last admitted request (nil when unused).
//	CreatedAt   - timestamp of creation.
type APIKey struct {
	ID          uint64     // api_keys.id
	ClientID    uint64     // api_keys.client_id
	KeyHash     string     // api_keys.key_hash
	KeyPrefix   string     // api_keys.key_prefix
	Name        string     // api_keys.name
	IsActive    bool       // api_keys.is_active
	Permissions []string   // api_keys.permissions (comma-joined column)
	RateLimit   int        // api_keys.rate_limit
	UsageCount  uint64     // api_keys.usage_count
	ExpiresAt   *time.Time // api_keys.expires_at (nullable)
	LastUsedAt  *time.Time // api_keys.last_used_at (nullable)
	CreatedAt   time.Time  // api_keys.created_at
}

// Usable reports whether the key may authenticate a request right now:
// it must be active and not past its expiry.
func (k *APIKey) Usable(now time.Time) bool {
	if !k.IsActive {
		return false
	}
	return k.ExpiresAt == nil || k.ExpiresAt.After(now)
}
