package model

// Quartier is a fixed city-district reference row with an
// administratively assigned CO₂ figure and a precomputed rank. It is
// not derived from user activity and is distinct from the user
// leaderboard.
type Quartier struct {
	ID         uint64  // quartiers.id
	Name       string  // quartiers.name
	CO2SavedKg float64 // quartiers.co2_saved_kg
	Rank       int     // quartiers.rank
}
