package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/ecomove/ecomove/internal/model"
)

// EconomyRepo manages the one-per-user gameplay snapshot.
type EconomyRepo struct{ DB *sql.DB }

func NewEconomyRepo(db *sql.DB) *EconomyRepo { return &EconomyRepo{DB: db} }

// CreateDefault seeds the economy row for a freshly registered user.
func (r *EconomyRepo) CreateDefault(ctx context.Context, userID string) error {
	return insertEconomyDefault(ctx, r.DB, userID)
}

// insertEconomyDefault writes the default snapshot through the
// caller's executor, so the registration finish-step can seed it
// inside its own transaction.
func insertEconomyDefault(ctx context.Context, ex execer, userID string) error {
	e := model.DefaultEconomy(userID)
	acc, err := json.Marshal(e.Accessories)
	if err != nil {
		return err
	}
	_, err = ex.ExecContext(ctx,
		`INSERT INTO economy_states
		 (user_id, score, streak_days, today_walk_km, today_pt_trips, today_car_km, mood, activity_mode, accessories, coins)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		e.UserID, e.Score, e.StreakDays, e.TodayWalkKm, e.TodayPTTrips, e.TodayCarKm,
		e.Mood, e.ActivityMode, string(acc), e.Coins)
	return err
}

// EnsureDefault creates the economy row only when absent. Used by the
// bulk seed upsert so existing progress is never clobbered.
func (r *EconomyRepo) EnsureDefault(ctx context.Context, userID string) error {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM economy_states WHERE user_id=? LIMIT 1", userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return r.CreateDefault(ctx, userID)
	}
	return err
}

// Get fetches the snapshot for one user.
func (r *EconomyRepo) Get(ctx context.Context, userID string) (model.EconomyState, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT user_id, score, streak_days, today_walk_km, today_pt_trips, today_car_km,
		        mood, activity_mode, accessories, coins
		 FROM economy_states WHERE user_id=? LIMIT 1`, userID)
	return scanEconomy(row)
}

// ResetAll restores the default snapshot for every existing user.
// Users, activities and tokens stay untouched; this is part of the
// admin reference-data reset.
func (r *EconomyRepo) ResetAll(ctx context.Context) error {
	def := model.DefaultEconomy("")
	acc, err := json.Marshal(def.Accessories)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE economy_states SET score=0, streak_days=0, today_walk_km=0, today_pt_trips=0,
		 today_car_km=0, mood=?, activity_mode=?, accessories=?, coins=?`,
		def.Mood, def.ActivityMode, string(acc), def.Coins)
	return err
}

type rowScanner interface{ Scan(dest ...interface{}) error }

// execer is the write surface shared by *sql.DB and *sql.Tx; the
// insert helpers take it so a row can be written standalone or as part
// of a larger transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func scanEconomy(row rowScanner) (model.EconomyState, error) {
	var (
		e   model.EconomyState
		acc string
	)
	err := row.Scan(&e.UserID, &e.Score, &e.StreakDays, &e.TodayWalkKm, &e.TodayPTTrips,
		&e.TodayCarKm, &e.Mood, &e.ActivityMode, &acc, &e.Coins)
	if errors.Is(err, sql.ErrNoRows) {
		return model.EconomyState{}, ErrNotFound
	}
	if err != nil {
		return model.EconomyState{}, err
	}
	if err := json.Unmarshal([]byte(acc), &e.Accessories); err != nil {
		e.Accessories = []string{}
	}
	if e.Accessories == nil {
		e.Accessories = []string{}
	}
	return e, nil
}

func marshalAccessories(accessories []string) string {
	if accessories == nil {
		accessories = []string{}
	}
	b, err := json.Marshal(accessories)
	if err != nil {
		return "[]"
	}
	return string(b)
}
