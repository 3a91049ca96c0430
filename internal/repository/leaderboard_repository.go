package repository

import (
	"context"
	"database/sql"
)

// UserTotal is one user's lifetime CO₂ sum over stopped activities.
// Running activities contribute nothing.
type UserTotal struct {
	UserID      string
	DisplayName string
	CO2SavedKg  float64
}

// LeaderboardRepo aggregates lifetime totals for the user ranking.
// Read-only; it may run concurrently with writers and does not need
// to be linearizable with in-flight stops.
type LeaderboardRepo struct{ DB *sql.DB }

func NewLeaderboardRepo(db *sql.DB) *LeaderboardRepo { return &LeaderboardRepo{DB: db} }

// UserTotals returns one row per user with the lifetime CO₂ sum.
// Ordering and dense rank assignment happen in the aggregator, not in
// SQL, so the deterministic tie-break lives in one tested place.
func (r *LeaderboardRepo) UserTotals(ctx context.Context) ([]UserTotal, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT u.id, u.display_name, COALESCE(SUM(CASE WHEN a.state='stopped' THEN a.co2_saved_kg ELSE 0 END), 0)
		 FROM users u
		 LEFT JOIN activities a ON a.user_id = u.id
		 GROUP BY u.id, u.display_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]UserTotal, 0)
	for rows.Next() {
		var t UserTotal
		if err := rows.Scan(&t.UserID, &t.DisplayName, &t.CO2SavedKg); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
