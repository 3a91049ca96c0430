package handler

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ecomove/ecomove/internal/model"
	"github.com/ecomove/ecomove/internal/repository"
)

// TotalsStore aggregates lifetime CO₂ sums per user.
type TotalsStore interface {
	UserTotals(ctx context.Context) ([]repository.UserTotal, error)
}

// QuartierStore reads the fixed district reference rows.
type QuartierStore interface {
	List(ctx context.Context) ([]model.Quartier, error)
}

// FriendStore manages the directed friend relation.
type FriendStore interface {
	Add(ctx context.Context, userID, friendID string) error
	ListIDs(ctx context.Context, userID string) ([]string, error)
}

// LeaderboardHandler serves the district board, the user ranking and
// its friends-only variant.
type LeaderboardHandler struct {
	Totals      TotalsStore
	Quartiers   QuartierStore
	FriendStore FriendStore
}

func NewLeaderboardHandler(t TotalsStore, q QuartierStore, f FriendStore) *LeaderboardHandler {
	return &LeaderboardHandler{Totals: t, Quartiers: q, FriendStore: f}
}

// ----- DTOs -----

type rankedUser struct {
	Rank        int     `json:"rank"`
	UserID      string  `json:"user_id"`
	DisplayName string  `json:"display_name"`
	CO2SavedKg  float64 `json:"co2_saved_kg"`
	IsMe        bool    `json:"is_me"`
}

type quartierDTO struct {
	ID         uint64  `json:"id"`
	Name       string  `json:"name"`
	CO2SavedKg float64 `json:"co2_saved_kg"`
	Rank       int     `json:"rank"`
}

type addFriendReq struct {
	FriendID string `json:"friend_id"`
}

// rankUsers orders totals by CO₂ descending with display name
// ascending as the deterministic tie-break, then assigns dense ranks
// 1..N. Equal sums still get distinct consecutive ranks, so the result
// is always a permutation with no gaps.
func rankUsers(totals []repository.UserTotal, callerID string) []rankedUser {
	sorted := make([]repository.UserTotal, len(totals))
	copy(sorted, totals)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CO2SavedKg != sorted[j].CO2SavedKg {
			return sorted[i].CO2SavedKg > sorted[j].CO2SavedKg
		}
		return strings.Compare(sorted[i].DisplayName, sorted[j].DisplayName) < 0
	})
	out := make([]rankedUser, 0, len(sorted))
	for i, t := range sorted {
		out = append(out, rankedUser{
			Rank:        i + 1,
			UserID:      t.UserID,
			DisplayName: t.DisplayName,
			CO2SavedKg:  t.CO2SavedKg,
			IsMe:        t.UserID == callerID,
		})
	}
	return out
}

// Get returns the global board: districts by stored rank plus all
// users ranked by lifetime CO₂.
func (h *LeaderboardHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	quartiers, err := h.Quartiers.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	totals, err := h.Totals.UserTotals(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"quartiers": quartierParts(quartiers),
		"users":     rankUsers(totals, userID(c)),
	})
}

// Friends returns the board filtered to the caller plus the users they
// added as friends. Ranks are dense within the filtered set.
func (h *LeaderboardHandler) Friends(c echo.Context) error {
	uid := userID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	friendIDs, err := h.FriendStore.ListIDs(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	include := map[string]bool{uid: true}
	for _, id := range friendIDs {
		include[id] = true
	}

	totals, err := h.Totals.UserTotals(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	filtered := make([]repository.UserTotal, 0, len(include))
	for _, t := range totals {
		if include[t.UserID] {
			filtered = append(filtered, t)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"users": rankUsers(filtered, uid)})
}

// AddFriend records a directed friend edge. Adding the same friend
// twice is a no-op success.
func (h *LeaderboardHandler) AddFriend(c echo.Context) error {
	var req addFriendReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.FriendID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "friend_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.FriendStore.Add(ctx, userID(c), req.FriendID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not add friend"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func quartierParts(quartiers []model.Quartier) []quartierDTO {
	out := make([]quartierDTO, 0, len(quartiers))
	for _, q := range quartiers {
		out = append(out, quartierDTO{ID: q.ID, Name: q.Name, CO2SavedKg: q.CO2SavedKg, Rank: q.Rank})
	}
	return out
}
