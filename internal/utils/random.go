package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// RandomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.  Used for theater IDs and
// transaction identifiers.
func RandomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// NewConfirmationCode produces a short uppercase code shown to the buyer
// on a confirmed ticket order ("CNF-3F9A21").
func NewConfirmationCode() (string, error) {
	s, err := RandomHex(3)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CNF-%s", strings.ToUpper(s)), nil
}
