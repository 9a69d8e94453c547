package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// APIKeyMarker is the literal prefix of every issued API key secret.  It
// makes keys recognizable by shape so malformed credentials are rejected
// before any database work.
const APIKeyMarker = "sk_live_"

// apiKeyPrefixLen is how much of the raw secret is kept for display in
// listings.  Long enough to tell keys apart, short enough to stay useless
// as a credential.
const apiKeyPrefixLen = 12

// NewAPIKeySecret derives an opaque secret for a client.  The secret is
// the marker followed by the first 32 hex characters of
// sha256(clientID:name:unixNow).  It is computed once and returned to the
// caller; only its hash is ever stored.
func NewAPIKeySecret(clientID uint64, name string) string {
	data := fmt.Sprintf("%d:%s:%d", clientID, name, time.Now().Unix())
	sum := sha256.Sum256([]byte(data))
	return APIKeyMarker + hex.EncodeToString(sum[:])[:32]
}

// HashAPIKey returns the SHA-256 hex digest of a raw secret.  Presented
// keys are hashed and compared against this stored value; the raw secret
// never touches the database.
func HashAPIKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// APIKeyPrefix returns the short human-visible fragment persisted for
// listings ("sk_live_ab12...").
func APIKeyPrefix(raw string) string {
	if len(raw) <= apiKeyPrefixLen {
		return raw + "..."
	}
	return raw[:apiKeyPrefixLen] + "..."
}

// HasAPIKeyShape reports whether a presented credential is syntactically
// an API key.  A cheap check done before any lookup is attempted.
func HasAPIKeyShape(raw string) bool {
	return strings.HasPrefix(raw, APIKeyMarker) && len(raw) > len(APIKeyMarker)
}
