package handler // handler implements the HTTP adapters over the domain operations

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ecomove/ecomove/internal/model"
)

// dbTimeout bounds every database call made from a handler.
const dbTimeout = 5 * time.Second

// userID extracts the authenticated user id injected by the bearer
// middleware. Empty when the route is not protected.
func userID(c echo.Context) string {
	v, _ := c.Get("user_id").(string)
	return v
}

// parseTimestamp parses an ISO-8601 timestamp into UTC.
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// fmtTime renders a timestamp for responses.
func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// economyDTO is the wire shape of the per-user gameplay snapshot,
// shared by the profile, shop and admin endpoints.
type economyDTO struct {
	Score        int64    `json:"score"`
	Coins        int64    `json:"coins"`
	StreakDays   int      `json:"streak_days"`
	TodayWalkKm  float64  `json:"today_walk_km"`
	TodayPTTrips int      `json:"today_pt_trips"`
	TodayCarKm   float64  `json:"today_car_km"`
	Mood         string   `json:"mood"`
	ActivityMode string   `json:"activity_mode"`
	Accessories  []string `json:"accessories"`
}

func economyPart(e model.EconomyState) economyDTO {
	acc := e.Accessories
	if acc == nil {
		acc = []string{}
	}
	return economyDTO{
		Score:        e.Score,
		Coins:        e.Coins,
		StreakDays:   e.StreakDays,
		TodayWalkKm:  e.TodayWalkKm,
		TodayPTTrips: e.TodayPTTrips,
		TodayCarKm:   e.TodayCarKm,
		Mood:         e.Mood,
		ActivityMode: e.ActivityMode,
		Accessories:  acc,
	}
}
