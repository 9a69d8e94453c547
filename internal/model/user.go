package model

import "time"

// Roles recognized in the "role" column and the JWT role claim.
const (
	RoleAdmin  = "admin"
	RoleClient = "client"
	RolePublic = "public"
)

// User represents a staff or administrative account as stored in the
// `users` table.  The json tags are omitted because these structs are
// used internally by the repository layer; handlers define separate
// response types with appropriate JSON tags.
//
// Login attempts mutate FailedLoginAttempts and LockedUntil: after
// LOCKOUT_ATTEMPTS consecutive failures the account locks until
// LockedUntil, and a successful login clears both.  Accounts are
// deactivated via IsActive rather than deleted.
//
// Fields:
//
//	ID                  - primary key identifier of the user.
//	Username            - unique login name.
//	Email               - unique email address.
//	PasswordHash        - bcrypt hashed password.
//	Role                - one of admin, client, public.
//	IsActive            - whether the account is active.
//	FailedLoginAttempts - consecutive failed password verifications.
//	LockedUntil         - lock expiry (nil when not locked).
//	LastLoginAt         - last successful login (nil before first login).
//	CreatedAt           - timestamp of creation.
//	UpdatedAt           - timestamp of last update.
type User struct {
	ID                  uint64     // users.id
	Username            string     // users.username
	Email               string     // users.email
	PasswordHash        string     // users.password_hash
	Role                string     // users.role
	IsActive            bool       // users.is_active
	FailedLoginAttempts int        // users.failed_login_attempts
	LockedUntil         *time.Time // users.locked_until (nullable)
	LastLoginAt         *time.Time // users.last_login_at (nullable)
	CreatedAt           time.Time  // users.created_at
	UpdatedAt           time.Time  // users.updated_at
}

// Locked reports whether the account is locked at the given instant.
// Lock state self-heals by wall clock; there is no background unlock.
func (u *User) Locked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}
