package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/ecomove/ecomove/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, display_name, created_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.DisplayName, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// Upsert inserts a user or updates its display name. Used by the bulk
// seed operation.
func (r *UserRepo) Upsert(ctx context.Context, id, displayName string) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (id, display_name) VALUES (?,?)
		 ON DUPLICATE KEY UPDATE display_name=VALUES(display_name)`,
		id, strings.TrimSpace(displayName))
	return err
}

// insertUser writes the user row through the caller's executor, so the
// registration finish-step can create it inside its own transaction.
func insertUser(ctx context.Context, ex execer, id, displayName string) error {
	_, err := ex.ExecContext(ctx,
		"INSERT INTO users (id, display_name) VALUES (?,?)",
		id, strings.TrimSpace(displayName))
	return err
}
