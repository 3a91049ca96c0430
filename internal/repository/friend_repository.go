package repository

import (
	"context"
	"database/sql"
	"errors"
)

// FriendRepo manages the directed "added as friend" relation used to
// filter the friends leaderboard.
type FriendRepo struct{ DB *sql.DB }

func NewFriendRepo(db *sql.DB) *FriendRepo { return &FriendRepo{DB: db} }

// Add records userID -> friendID. Adding the same friend twice is a
// no-op; adding an unknown user fails with ErrNotFound.
func (r *FriendRepo) Add(ctx context.Context, userID, friendID string) error {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM users WHERE id=? LIMIT 1", friendID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT IGNORE INTO friends (user_id, friend_id) VALUES (?,?)", userID, friendID)
	return err
}

// ListIDs returns the ids the user has added as friends.
func (r *FriendRepo) ListIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT friend_id FROM friends WHERE user_id=?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
