package model

// Companion moods.
const (
	MoodSad     = "sad"
	MoodNeutral = "neutral"
	MoodHappy   = "happy"
)

// Companion activity modes.
const (
	ModeSleeping = "sleeping"
	ModeIdle     = "idle"
	ModeWalking  = "walking"
	ModeRiding   = "riding"
)

// DefaultStartingCoins is granted to every freshly registered user so
// the cheapest catalog item is within reach from day one.
const DefaultStartingCoins int64 = 100

// EconomyState is the mutable per-user gameplay snapshot, one row per
// user. Score only ever grows; Coins never drop below zero. The
// Accessories slice holds the ids of owned-and-equipped shop items,
// at most one per shop category (enforced by the shop mutator, not by
// storage).
type EconomyState struct {
	UserID       string   // economy_states.user_id
	Score        int64    // economy_states.score (cumulative XP)
	StreakDays   int      // economy_states.streak_days
	TodayWalkKm  float64  // economy_states.today_walk_km
	TodayPTTrips int      // economy_states.today_pt_trips
	TodayCarKm   float64  // economy_states.today_car_km
	Mood         string   // economy_states.mood
	ActivityMode string   // economy_states.activity_mode
	Accessories  []string // economy_states.accessories (JSON array at rest)
	Coins        int64    // economy_states.coins
}

// DefaultEconomy returns the economy snapshot seeded for a new user.
func DefaultEconomy(userID string) EconomyState {
	return EconomyState{
		UserID:       userID,
		Mood:         MoodNeutral,
		ActivityMode: ModeIdle,
		Accessories:  []string{},
		Coins:        DefaultStartingCoins,
	}
}

// ModeForActivity maps an activity type to the companion mode shown
// while that activity is running.
func ModeForActivity(t ActivityType) string {
	switch t {
	case TypeWalk:
		return ModeWalking
	case TypeWFH:
		return ModeSleeping
	default:
		return ModeRiding
	}
}

// SwapAccessory returns a new equipped set with itemID added and any
// previously equipped item of the same category evicted. categoryOf
// must cover every id in equipped plus itemID; ids without a known
// category are left untouched. The persisted set never contains two
// items of one category after the write completes.
func SwapAccessory(equipped []string, itemID, category string, categoryOf map[string]string) []string {
	out := make([]string, 0, len(equipped)+1)
	for _, id := range equipped {
		if id == itemID {
			continue
		}
		if cat, ok := categoryOf[id]; ok && cat == category {
			continue
		}
		out = append(out, id)
	}
	return append(out, itemID)
}

// RemoveAccessory returns a new equipped set without itemID.
func RemoveAccessory(equipped []string, itemID string) []string {
	out := make([]string, 0, len(equipped))
	for _, id := range equipped {
		if id != itemID {
			out = append(out, id)
		}
	}
	return out
}
