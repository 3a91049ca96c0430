package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var testCategories = map[string]string{
	"hat_leaf":    "hat",
	"hat_beanie":  "hat",
	"glasses_sun": "glasses",
	"scarf_wool":  "scarf",
}

// categoriesSeen asserts the invariant: an equipped set never holds
// two items of the same category.
func categoriesSeen(t *testing.T, equipped []string) {
	t.Helper()
	seen := map[string]bool{}
	for _, id := range equipped {
		cat := testCategories[id]
		require.False(t, seen[cat], "two equipped items share category %q", cat)
		seen[cat] = true
	}
}

func TestSwapAccessoryEvictsSameCategory(t *testing.T) {
	equipped := []string{"hat_leaf", "glasses_sun"}
	out := SwapAccessory(equipped, "hat_beanie", "hat", testCategories)
	require.ElementsMatch(t, []string{"glasses_sun", "hat_beanie"}, out)
	categoriesSeen(t, out)
}

func TestSwapAccessoryIdempotent(t *testing.T) {
	equipped := []string{"hat_leaf"}
	out := SwapAccessory(equipped, "hat_leaf", "hat", testCategories)
	require.Equal(t, []string{"hat_leaf"}, out)
}

func TestSwapAccessoryNeverDuplicatesCategory(t *testing.T) {
	// Equip every item in every order; the invariant must hold after
	// each write.
	items := []string{"hat_leaf", "hat_beanie", "glasses_sun", "scarf_wool", "hat_leaf"}
	equipped := []string{}
	for _, id := range items {
		equipped = SwapAccessory(equipped, id, testCategories[id], testCategories)
		categoriesSeen(t, equipped)
	}
	require.ElementsMatch(t, []string{"hat_leaf", "glasses_sun", "scarf_wool"}, equipped)
}

func TestRemoveAccessory(t *testing.T) {
	equipped := []string{"hat_leaf", "glasses_sun"}
	require.Equal(t, []string{"glasses_sun"}, RemoveAccessory(equipped, "hat_leaf"))
	require.Equal(t, equipped, RemoveAccessory(equipped, "scarf_wool"))
}

func TestDefaultEconomy(t *testing.T) {
	e := DefaultEconomy("u1")
	require.Equal(t, "u1", e.UserID)
	require.Equal(t, MoodNeutral, e.Mood)
	require.Equal(t, ModeIdle, e.ActivityMode)
	require.Empty(t, e.Accessories)
	require.Equal(t, DefaultStartingCoins, e.Coins)
	require.Zero(t, e.Score)
}

func TestModeForActivity(t *testing.T) {
	require.Equal(t, ModeWalking, ModeForActivity(TypeWalk))
	require.Equal(t, ModeSleeping, ModeForActivity(TypeWFH))
	require.Equal(t, ModeRiding, ModeForActivity(TypeBike))
	require.Equal(t, ModeRiding, ModeForActivity(TypeDrive))
}
