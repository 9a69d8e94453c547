package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestNewAndParseAccessToken(t *testing.T) {
	tok, err := NewAccessToken(testSecret, 42, "alice", "admin", 30)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	assert.WithinDuration(t, time.Now().UTC().Add(30*time.Minute), tok.Exp, 5*time.Second)

	claims, err := ParseAccessToken(testSecret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseAccessTokenWrongSecret(t *testing.T) {
	tok, err := NewAccessToken(testSecret, 1, "bob", "client", 30)
	require.NoError(t, err)

	_, err = ParseAccessToken("other-secret", tok.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseAccessTokenExpired(t *testing.T) {
	claims := jwt.MapClaims{
		"sub":      float64(7),
		"username": "carol",
		"role":     "client",
		"exp":      time.Now().UTC().Add(-time.Hour).Unix(),
		"iat":      time.Now().UTC().Add(-2 * time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseAccessToken(testSecret, raw)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseAccessTokenRejectsNonHMAC(t *testing.T) {
	// alg=none style tokens must never verify
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": float64(1),
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseAccessToken(testSecret, raw)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseAccessTokenMalformed(t *testing.T) {
	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := ParseAccessToken(testSecret, raw)
		assert.ErrorIs(t, err, ErrTokenInvalid, "input %q", raw)
	}
}

func TestParseAccessTokenMissingSubject(t *testing.T) {
	claims := jwt.MapClaims{
		"username": "dave",
		"exp":      time.Now().UTC().Add(time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseAccessToken(testSecret, raw)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
