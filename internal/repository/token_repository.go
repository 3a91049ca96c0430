package repository

import (
	"context"
	"database/sql"
	"errors"
)

// TokenRepo persists bearer tokens (single 'token_hash' column).
// Tokens are append-only and never revoked; many may exist per user
// for multiple device logins. Insertion happens inside the finish-step
// transactions, so the repo itself only exposes the lookup.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Resolve returns the user id owning the token hash. Pure indexed
// lookup, no side effects.
func (r *TokenRepo) Resolve(ctx context.Context, tokenHash string) (string, error) {
	var userID string
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id FROM tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return userID, err
}

// insertToken writes a token hash row through the caller's executor.
func insertToken(ctx context.Context, ex execer, userID, tokenHash string) error {
	_, err := ex.ExecContext(ctx,
		"INSERT INTO tokens (token_hash, user_id) VALUES (?,?)",
		tokenHash, userID)
	return err
}
