package auth

import "time"

// Session represents a persisted login session in the `user_sessions` table.
// A session is valid iff IsActive and the expiry has not passed. Rows are
// never deleted directly; they are deactivated on logout or superseded by a
// later login, and cascade away with their owning user.
type Session struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	SessionToken string    `db:"session_token"`
	ExpiresAt    time.Time `db:"expires_at"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
}

// Expired reports whether the session's expiry is in the past. This is a
// read-only check; an expired row keeps IsActive=true until a later login
// or logout overwrites it.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
