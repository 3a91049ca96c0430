package model

import "time"

// ActivityType enumerates the six recognized mobility modes.
type ActivityType string

const (
	TypeWalk    ActivityType = "walk"
	TypeBike    ActivityType = "bike"
	TypeTransit ActivityType = "transit"
	TypeDrive   ActivityType = "drive"
	TypeWFH     ActivityType = "wfh"
	TypePool    ActivityType = "pool"
)

// ValidActivityType reports whether t is one of the recognized modes.
func ValidActivityType(t ActivityType) bool {
	switch t {
	case TypeWalk, TypeBike, TypeTransit, TypeDrive, TypeWFH, TypePool:
		return true
	}
	return false
}

// Activity lifecycle states. "paused" is reserved but unused by the
// current transitions.
const (
	StateRunning = "running"
	StateStopped = "stopped"
)

// Activity mirrors the `activities` table. An activity is created in
// the running state with all derived fields zero and transitions to
// stopped exactly once, at which point the derived metrics are
// computed and persisted. Re-stopping recomputes from the original
// start time and the newly supplied stop time.
type Activity struct {
	ID              uint64       // activities.id (AUTO_INCREMENT, monotonic)
	UserID          string       // activities.user_id
	Type            ActivityType // activities.activity_type
	State           string       // activities.state
	StartTime       time.Time    // activities.start_time
	StopTime        *time.Time   // activities.stop_time (nil while running)
	DurationSeconds int64        // activities.duration_seconds
	DistanceMeters  int64        // activities.distance_meters
	XPEarned        int64        // activities.xp_earned
	CO2SavedKg      float64      // activities.co2_saved_kg
	GPX             *string      // activities.gpx (opaque point sequence)
	Proofs          []string     // activities.proofs (opaque list, JSON at rest)
}
