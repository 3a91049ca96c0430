// Package scoring is the pure function set that turns an activity
// interval into derived metrics (duration, distance, CO₂ savings,
// experience points) and XP into a coin award. It touches no storage
// and holds no state; the activity repository calls into it inside
// the stop transaction.
package scoring

import (
	"math"
	"time"

	"github.com/ecomove/ecomove/internal/model"
)

// Assumed speed per activity type in meters per second. Working from
// home never accrues distance.
var speedMS = map[model.ActivityType]float64{
	model.TypeWalk:    1.4,
	model.TypeBike:    4.5,
	model.TypeTransit: 6.0,
	model.TypeDrive:   8.0,
	model.TypeWFH:     0.0,
	model.TypePool:    0.7,
}

// CO₂ savings per kilometer in kg. Driving saves nothing. WFH saves
// against the commute it avoided: its factor is applied to a virtual
// distance at drive pace even though its recorded distance stays
// pinned at 0.
var co2PerKm = map[model.ActivityType]float64{
	model.TypeWalk:    0.20,
	model.TypeBike:    0.18,
	model.TypeTransit: 0.10,
	model.TypeDrive:   0.00,
	model.TypeWFH:     0.12,
	model.TypePool:    0.05,
}

// Metrics holds everything derived from one stopped interval.
type Metrics struct {
	DurationSeconds int64
	DistanceMeters  int64
	CO2SavedKg      float64
	XPEarned        int64
}

// Duration returns whole elapsed seconds between start and stop,
// clamped at zero when stop precedes start.
func Duration(start, stop time.Time) int64 {
	if stop.Before(start) {
		return 0
	}
	return int64(stop.Sub(start) / time.Second)
}

// Compute derives all metrics for one activity interval. Distance is
// speed × duration rounded to whole meters, CO₂ is distance × factor
// rounded to three decimals, and XP is one point per completed minute
// (rounded).
func Compute(t model.ActivityType, start, stop time.Time) Metrics {
	dur := Duration(start, stop)
	dist := int64(math.Round(speedMS[t] * float64(dur)))
	co2Dist := float64(dist)
	if t == model.TypeWFH {
		// Avoided-commute accrual: recorded distance is 0 but the
		// saving is counted against a drive-pace virtual distance.
		co2Dist = math.Round(speedMS[model.TypeDrive] * float64(dur))
	}
	co2 := Round3(co2Dist / 1000.0 * co2PerKm[t])
	xp := int64(math.Round(float64(dur) / 60.0))
	if xp < 0 {
		xp = 0
	}
	return Metrics{
		DurationSeconds: dur,
		DistanceMeters:  dist,
		CO2SavedKg:      co2,
		XPEarned:        xp,
	}
}

// CoinAward is the coin grant for a stop: a fixed half of the XP,
// floored.
func CoinAward(xp int64) int64 {
	return xp / 2
}

// Round3 rounds to three decimal places.
func Round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
