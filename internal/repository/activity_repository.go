package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/ecomove/ecomove/internal/model"
	"github.com/ecomove/ecomove/internal/scoring"
)

// ActivityRepo provides the append-per-start, mutate-once-on-stop
// ledger of activities. The stop mutation and its economy update run
// in one transaction so a failed stop never leaves a half-applied
// economy change.
type ActivityRepo struct{ DB *sql.DB }

func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{DB: db} }

// Start appends a running activity row and flips the companion mode.
// Multiple concurrently running activities per user are permitted.
func (r *ActivityRepo) Start(ctx context.Context, userID string, t model.ActivityType, startTime time.Time) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO activities (user_id, activity_type, state, start_time)
		 VALUES (?,?,?,?)`,
		userID, string(t), model.StateRunning, startTime.UTC())
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	// Companion mode is cosmetic; a failure here must not fail the start.
	_, _ = r.DB.ExecContext(ctx,
		"UPDATE economy_states SET activity_mode=? WHERE user_id=?",
		model.ModeForActivity(t), userID)
	return uint64(id), nil
}

// Stop freezes the activity's metrics and applies the economy award
// atomically. Metrics are recomputed from the stored start time and
// the stop time supplied on this call, so re-stopping overwrites
// rather than accumulates. A zero stopTime is the fail-soft path for
// an unparseable timestamp: the stored start time is used, pinning
// the duration at 0. gpx and proofs overwrite stored values only when
// supplied.
func (r *ActivityRepo) Stop(ctx context.Context, userID string, id uint64, stopTime time.Time, gpx *string, proofs []string) (model.Activity, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Activity{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var (
		a        model.Activity
		typ      string
		oldGPX   sql.NullString
		oldProof sql.NullString
	)
	err = tx.QueryRowContext(ctx,
		`SELECT id, user_id, activity_type, start_time, gpx, proofs
		 FROM activities WHERE id=? AND user_id=? LIMIT 1 FOR UPDATE`,
		id, userID).Scan(&a.ID, &a.UserID, &typ, &a.StartTime, &oldGPX, &oldProof)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Activity{}, ErrNotFound
	}
	if err != nil {
		return model.Activity{}, err
	}
	a.Type = model.ActivityType(typ)

	stop := stopTime.UTC()
	if stopTime.IsZero() {
		stop = a.StartTime
	}
	m := scoring.Compute(a.Type, a.StartTime, stop)

	if gpx != nil {
		a.GPX = gpx
	} else if oldGPX.Valid {
		v := oldGPX.String
		a.GPX = &v
	}
	if proofs != nil {
		a.Proofs = proofs
	} else if oldProof.Valid {
		_ = json.Unmarshal([]byte(oldProof.String), &a.Proofs)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE activities
		 SET state=?, stop_time=?, duration_seconds=?, distance_meters=?, xp_earned=?, co2_saved_kg=?, gpx=?, proofs=?
		 WHERE id=?`,
		model.StateStopped, stop, m.DurationSeconds, m.DistanceMeters, m.XPEarned, m.CO2SavedKg,
		nullableString(a.GPX), nullableProofs(a.Proofs), id)
	if err != nil {
		return model.Activity{}, err
	}

	eco, err := scanEconomy(tx.QueryRowContext(ctx,
		`SELECT user_id, score, streak_days, today_walk_km, today_pt_trips, today_car_km,
		        mood, activity_mode, accessories, coins
		 FROM economy_states WHERE user_id=? LIMIT 1 FOR UPDATE`, userID))
	if err != nil {
		return model.Activity{}, err
	}

	eco.Score += m.XPEarned
	eco.Coins += scoring.CoinAward(m.XPEarned)
	eco.ActivityMode = model.ModeIdle
	if m.XPEarned > 0 {
		eco.Mood = model.MoodHappy
	}
	km := float64(m.DistanceMeters) / 1000.0
	switch a.Type {
	case model.TypeWalk, model.TypeBike:
		eco.TodayWalkKm += km
	case model.TypeTransit, model.TypePool:
		eco.TodayPTTrips++
	case model.TypeDrive:
		eco.TodayCarKm += km
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE economy_states
		 SET score=?, coins=?, mood=?, activity_mode=?, today_walk_km=?, today_pt_trips=?, today_car_km=?
		 WHERE user_id=?`,
		eco.Score, eco.Coins, eco.Mood, eco.ActivityMode,
		eco.TodayWalkKm, eco.TodayPTTrips, eco.TodayCarKm, userID)
	if err != nil {
		return model.Activity{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Activity{}, err
	}

	a.State = model.StateStopped
	a.StopTime = &stop
	a.DurationSeconds = m.DurationSeconds
	a.DistanceMeters = m.DistanceMeters
	a.XPEarned = m.XPEarned
	a.CO2SavedKg = m.CO2SavedKg
	return a, nil
}

// GetByID returns one activity owned by the user. Cross-user lookups
// fail with ErrNotFound rather than leaking existence.
func (r *ActivityRepo) GetByID(ctx context.Context, userID string, id uint64) (model.Activity, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, activity_type, state, start_time, stop_time,
		        duration_seconds, distance_meters, xp_earned, co2_saved_kg, gpx, proofs
		 FROM activities WHERE id=? AND user_id=? LIMIT 1`, id, userID)
	return scanActivity(row)
}

// ListByUser returns the user's activities, most recent start first.
// Each call is a fresh query; there is no server-side cursor.
func (r *ActivityRepo) ListByUser(ctx context.Context, userID string) ([]model.Activity, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, activity_type, state, start_time, stop_time,
		        duration_seconds, distance_meters, xp_earned, co2_saved_kg, gpx, proofs
		 FROM activities WHERE user_id=? ORDER BY start_time DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanActivity(row rowScanner) (model.Activity, error) {
	var (
		a      model.Activity
		typ    string
		stopAt sql.NullTime
		gpx    sql.NullString
		proofs sql.NullString
	)
	err := row.Scan(&a.ID, &a.UserID, &typ, &a.State, &a.StartTime, &stopAt,
		&a.DurationSeconds, &a.DistanceMeters, &a.XPEarned, &a.CO2SavedKg, &gpx, &proofs)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Activity{}, ErrNotFound
	}
	if err != nil {
		return model.Activity{}, err
	}
	a.Type = model.ActivityType(typ)
	if stopAt.Valid {
		t := stopAt.Time
		a.StopTime = &t
	}
	if gpx.Valid {
		v := gpx.String
		a.GPX = &v
	}
	if proofs.Valid {
		_ = json.Unmarshal([]byte(proofs.String), &a.Proofs)
	}
	return a, nil
}

func nullableString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func nullableProofs(proofs []string) interface{} {
	if proofs == nil {
		return nil
	}
	b, err := json.Marshal(proofs)
	if err != nil {
		return nil
	}
	return string(b)
}
