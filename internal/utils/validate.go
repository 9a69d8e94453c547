package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrValidation tags all input validation failures so handlers can map
// them to HTTP 400 with errors.Is.
var ErrValidation = errors.New("validation failed")

// Substrings rejected anywhere in free-form string input.  Matching is
// case-insensitive.
var dangerousFragments = []string{"<script", "javascript:", "onload=", "onerror="}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateString enforces length bounds and rejects common script
// injection fragments.  The trimmed value is returned on success.
func ValidateString(value string, minLen, maxLen int) (string, error) {
	if len(value) < minLen || len(value) > maxLen {
		return "", fmt.Errorf("%w: length must be between %d and %d characters", ErrValidation, minLen, maxLen)
	}
	lower := strings.ToLower(value)
	for _, frag := range dangerousFragments {
		if strings.Contains(lower, frag) {
			return "", fmt.Errorf("%w: invalid characters in input", ErrValidation)
		}
	}
	return strings.TrimSpace(value), nil
}

// ValidateEmail checks the address shape and returns it lowercased and
// trimmed.
func ValidateEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return "", fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	return strings.ToLower(email), nil
}
