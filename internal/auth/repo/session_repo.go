package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/gripeboard/service-api/internal/auth"
	"github.com/gripeboard/service-api/internal/user/entity"
)

// SessionRepo provides data access for the user_sessions table using sqlx.
type SessionRepo struct {
	db *sqlx.DB
}

func NewSessionRepo(db *sqlx.DB) *SessionRepo { return &SessionRepo{db: db} }

// EnsureTable creates the user_sessions table if not exists (idempotent).
// Rows cascade away with their owning user.
func (r *SessionRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS user_sessions (
  id UUID PRIMARY KEY,
  user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  session_token TEXT NOT NULL,
  expires_at TIMESTAMPTZ NOT NULL,
  is_active BOOLEAN NOT NULL DEFAULT true,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_user_sessions_token ON user_sessions(session_token);
CREATE INDEX IF NOT EXISTS idx_user_sessions_user_id ON user_sessions(user_id);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// Rotate deactivates every active session for s.UserID and inserts s inside a
// single transaction, so at most one active session per user survives even
// under concurrent logins.
func (r *SessionRepo) Rotate(ctx context.Context, s *auth.Session) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const deactivate = `UPDATE user_sessions SET is_active=false WHERE user_id=$1 AND is_active`
	if _, err = tx.ExecContext(ctx, deactivate, s.UserID); err != nil {
		return err
	}

	const insert = `INSERT INTO user_sessions (id, user_id, session_token, expires_at, is_active)
	  VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
	if err = tx.QueryRowxContext(ctx, insert, s.ID, s.UserID, s.SessionToken, s.ExpiresAt, s.IsActive).
		Scan(&s.CreatedAt); err != nil {
		return err
	}

	return tx.Commit()
}

// GetActiveByToken returns the active session matching token joined with its
// owning user, or sql.ErrNoRows. Expiry is not checked here; the service
// applies the real-time check.
func (r *SessionRepo) GetActiveByToken(ctx context.Context, token string) (*auth.Session, *entity.User, error) {
	const q = `SELECT s.id, s.user_id, s.session_token, s.expires_at, s.is_active, s.created_at,
	    u.id, u.email, u.password_hash, u.name, u.is_admin, u.created_at, u.updated_at
	  FROM user_sessions s
	  JOIN users u ON u.id = s.user_id
	  WHERE s.session_token=$1 AND s.is_active`
	var s auth.Session
	var u entity.User
	row := r.db.QueryRowxContext(ctx, q, token)
	if err := row.Scan(
		&s.ID, &s.UserID, &s.SessionToken, &s.ExpiresAt, &s.IsActive, &s.CreatedAt,
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, nil, err
	}
	return &s, &u, nil
}

// DeactivateByToken clears the active flag for the session matching token.
// Unknown or already-inactive tokens match zero rows, which keeps logout
// idempotent.
func (r *SessionRepo) DeactivateByToken(ctx context.Context, token string) error {
	const q = `UPDATE user_sessions SET is_active=false WHERE session_token=$1 AND is_active`
	_, err := r.db.ExecContext(ctx, q, token)
	return err
}
