package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens
)

// Token verification failures are reported through these sentinels so the
// middleware can answer "expired" and "malformed or bad signature"
// differently.  An unverified token is never partially trusted: claims are
// only read after signature and expiry checks pass.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// AccessToken represents a signed HS256 JWT along with its expiry.  Access
// tokens are short-lived, stateless, and carried in the Authorization
// header when calling protected endpoints.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// Claims is the verified content of an access token.
type Claims struct {
	UserID   uint64 // subject (sub)
	Username string // username claim
	Role     string // role claim
}

// NewAccessToken builds and signs an HS256 JWT for a user.  The JWT
// includes subject (sub), username, role, expiration (exp) and issued at
// (iat).  ttlMin controls the token lifetime in minutes.
func NewAccessToken(secret string, userID uint64, username, role string, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"role":     role,
		"exp":      exp.Unix(),
		"iat":      time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies signature and expiry, then extracts the
// claims.  It returns ErrTokenExpired when the token is past its exp
// claim and ErrTokenInvalid for every other failure (wrong algorithm,
// bad signature, malformed structure, missing claims).
func ParseAccessToken(secret, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if !tok.Valid {
		return Claims{}, ErrTokenInvalid
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrTokenInvalid
	}

	var c Claims
	switch sub := mc["sub"].(type) {
	case float64:
		c.UserID = uint64(sub) // numeric claims decode as float64
	default:
		return Claims{}, ErrTokenInvalid
	}
	if s, ok := mc["username"].(string); ok {
		c.Username = s
	}
	if s, ok := mc["role"].(string); ok {
		c.Role = s
	}
	return c, nil
}
