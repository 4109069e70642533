// Package postgres implements the digest service's read-only data access
// contracts against the web application's PostgreSQL schema. This worker
// never writes to these tables.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/savora/recipedigest/internal/domain"
	"github.com/savora/recipedigest/internal/service/digest"
)

// UserRepo implements digest.UserDirectory against PostgreSQL.
type UserRepo struct{ db *sql.DB }

// NewUserRepo creates a Postgres-backed user directory.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// ListAllUsers returns every registered user in id order.
func (r *UserRepo) ListAllUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, username, email
		FROM users
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}

// FindUserIDByEmail resolves an email with case-sensitive exact matching.
// A duplicate match is surfaced as digest.ErrDuplicateEmail rather than
// silently returning an arbitrary row.
func (r *UserRepo) FindUserIDByEmail(ctx context.Context, email string) (int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM users WHERE email = $1
	`, email)
	if err != nil {
		return 0, fmt.Errorf("find user by email: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate user ids: %w", err)
	}

	switch len(ids) {
	case 0:
		return 0, digest.ErrUserNotFound
	case 1:
		return ids[0], nil
	default:
		return 0, digest.ErrDuplicateEmail
	}
}
