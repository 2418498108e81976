package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/gripeboard/service-api/internal/grievance/entity"
)

// GrievanceRepo provides data access for the grievances table using sqlx.
type GrievanceRepo struct {
	db *sqlx.DB
}

func NewGrievanceRepo(db *sqlx.DB) *GrievanceRepo { return &GrievanceRepo{db: db} }

// EnsureTable creates the grievances table if not exists (idempotent).
func (r *GrievanceRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS grievances (
  id UUID PRIMARY KEY,
  user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  title TEXT NOT NULL,
  content TEXT NOT NULL,
  mood TEXT NOT NULL,
  severity TEXT NOT NULL,
  reference_code TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_grievances_user_id ON grievances(user_id);
CREATE INDEX IF NOT EXISTS idx_grievances_created_at ON grievances(created_at);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// Create inserts a new grievance row; timestamps come from the database.
func (r *GrievanceRepo) Create(ctx context.Context, g *entity.Grievance) error {
	const q = `INSERT INTO grievances (id, user_id, title, content, mood, severity, reference_code)
	  VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at, updated_at`
	return r.db.QueryRowxContext(ctx, q, g.ID, g.UserID, g.Title, g.Content, g.Mood, g.Severity, g.Reference).
		Scan(&g.CreatedAt, &g.UpdatedAt)
}

const listColumns = `SELECT g.id, g.user_id, g.title, g.content, g.mood, g.severity, g.reference_code,
    g.created_at, g.updated_at, u.name, u.email
  FROM grievances g
  JOIN users u ON u.id = g.user_id`

// ListByUser returns one user's grievances newest-first, each with the
// embedded author projection.
func (r *GrievanceRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Grievance, error) {
	return r.list(ctx, listColumns+` WHERE g.user_id=$1 ORDER BY g.created_at DESC`, userID)
}

// ListAll returns every grievance newest-first with author projections.
func (r *GrievanceRepo) ListAll(ctx context.Context) ([]*entity.Grievance, error) {
	return r.list(ctx, listColumns+` ORDER BY g.created_at DESC`)
}

func (r *GrievanceRepo) list(ctx context.Context, q string, args ...any) ([]*entity.Grievance, error) {
	rows, err := r.db.QueryxContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*entity.Grievance{}
	for rows.Next() {
		var g entity.Grievance
		var a entity.Author
		if err := rows.Scan(
			&g.ID, &g.UserID, &g.Title, &g.Content, &g.Mood, &g.Severity, &g.Reference,
			&g.CreatedAt, &g.UpdatedAt, &a.Name, &a.Email,
		); err != nil {
			return nil, err
		}
		a.ID = g.UserID
		g.Author = &a
		out = append(out, &g)
	}
	return out, rows.Err()
}
