// Package queue defines message payloads exchanged over the message
// broker.
package queue

// ActivityStoppedEvent is published after an activity stop commits.
// It carries enough for downstream consumers to log or notify without
// querying the primary database.
type ActivityStoppedEvent struct {
	ActivityID      uint64  `json:"activity_id"`
	UserID          string  `json:"user_id"`
	ActivityType    string  `json:"activity_type"`
	DurationSeconds int64   `json:"duration_seconds"`
	DistanceMeters  int64   `json:"distance_meters"`
	XPEarned        int64   `json:"xp_earned"`
	CO2SavedKg      float64 `json:"co2_saved_kg"`
	StoppedAt       string  `json:"stopped_at"`
}
