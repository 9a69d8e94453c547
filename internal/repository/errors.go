// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between failure scenarios: ErrNotFound maps to
// HTTP 404, ErrConflict to 409, and the uniqueness sentinels to 400
// responses that name the duplicated field.
package repository

import "errors"

// ErrNotFound is returned when a row does not exist or is not visible to
// the caller.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state, such as creating a screening category whose name is
// already taken.
var ErrConflict = errors.New("conflict")

// ErrUsernameExists and ErrEmailExists report uniqueness violations on
// user registration.
var (
	ErrUsernameExists = errors.New("username already exists")
	ErrEmailExists    = errors.New("email already exists")
)
