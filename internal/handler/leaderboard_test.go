package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ecomove/ecomove/internal/model"
	"github.com/ecomove/ecomove/internal/repository"
)

type fakeTotals struct {
	totals []repository.UserTotal
}

func (f *fakeTotals) UserTotals(_ context.Context) ([]repository.UserTotal, error) {
	return f.totals, nil
}

type fakeQuartiers struct {
	quartiers []model.Quartier
}

func (f *fakeQuartiers) List(_ context.Context) ([]model.Quartier, error) {
	return f.quartiers, nil
}

type fakeFriends struct {
	users map[string]bool
	edges map[string][]string
}

func newFakeFriends(knownUsers ...string) *fakeFriends {
	f := &fakeFriends{users: map[string]bool{}, edges: map[string][]string{}}
	for _, u := range knownUsers {
		f.users[u] = true
	}
	return f
}

func (f *fakeFriends) Add(_ context.Context, userID, friendID string) error {
	if !f.users[friendID] {
		return repository.ErrNotFound
	}
	for _, id := range f.edges[userID] {
		if id == friendID {
			return nil
		}
	}
	f.edges[userID] = append(f.edges[userID], friendID)
	return nil
}

func (f *fakeFriends) ListIDs(_ context.Context, userID string) ([]string, error) {
	return f.edges[userID], nil
}

func TestRankUsersBreaksTiesByName(t *testing.T) {
	ranked := rankUsers([]repository.UserTotal{
		{UserID: "u-mina", DisplayName: "Mina", CO2SavedKg: 5.0},
		{UserID: "u-ada", DisplayName: "Ada", CO2SavedKg: 5.0},
	}, "u-ada")

	require.Len(t, ranked, 2)
	require.Equal(t, 1, ranked[0].Rank)
	require.Equal(t, "Ada", ranked[0].DisplayName)
	require.True(t, ranked[0].IsMe)
	require.Equal(t, 2, ranked[1].Rank)
	require.Equal(t, "Mina", ranked[1].DisplayName)
	require.False(t, ranked[1].IsMe)
}

func TestRankUsersIsDensePermutation(t *testing.T) {
	totals := []repository.UserTotal{
		{UserID: "a", DisplayName: "Ada", CO2SavedKg: 3.2},
		{UserID: "b", DisplayName: "Bo", CO2SavedKg: 3.2},
		{UserID: "c", DisplayName: "Cleo", CO2SavedKg: 0},
		{UserID: "d", DisplayName: "Dara", CO2SavedKg: 11.5},
		{UserID: "e", DisplayName: "Eli", CO2SavedKg: 0},
	}
	ranked := rankUsers(totals, "c")

	seen := map[int]bool{}
	for i, r := range ranked {
		require.Equal(t, i+1, r.Rank) // 1..N, no gaps even under ties
		require.False(t, seen[r.Rank])
		seen[r.Rank] = true
		if i > 0 {
			require.GreaterOrEqual(t, ranked[i-1].CO2SavedKg, r.CO2SavedKg)
		}
	}
	require.Equal(t, "Dara", ranked[0].DisplayName)
}

func TestLeaderboardGet(t *testing.T) {
	h := NewLeaderboardHandler(
		&fakeTotals{totals: []repository.UserTotal{
			{UserID: "u1", DisplayName: "Ada", CO2SavedKg: 5},
			{UserID: "u2", DisplayName: "Mina", CO2SavedKg: 9},
		}},
		&fakeQuartiers{quartiers: []model.Quartier{
			{ID: 1, Name: "Altstadt", CO2SavedKg: 1420.5, Rank: 1},
			{ID: 2, Name: "Länggasse", CO2SavedKg: 1180.0, Rank: 2},
		}},
		newFakeFriends(),
	)

	rec, _ := doJSON(t, h.Get, http.MethodGet, "/v1/leaderboard", "", "u1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Quartiers []quartierDTO `json:"quartiers"`
		Users     []rankedUser  `json:"users"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Quartiers, 2)
	require.Equal(t, "Altstadt", resp.Quartiers[0].Name)
	require.Len(t, resp.Users, 2)
	require.Equal(t, "Mina", resp.Users[0].DisplayName)
	require.Equal(t, 1, resp.Users[0].Rank)
	require.True(t, resp.Users[1].IsMe)
}

func TestFriendsBoardFiltersToCallerPlusFriends(t *testing.T) {
	friends := newFakeFriends("u1", "u2", "u3")
	require.NoError(t, friends.Add(context.Background(), "u1", "u3"))

	h := NewLeaderboardHandler(
		&fakeTotals{totals: []repository.UserTotal{
			{UserID: "u1", DisplayName: "Ada", CO2SavedKg: 5},
			{UserID: "u2", DisplayName: "Mina", CO2SavedKg: 9},
			{UserID: "u3", DisplayName: "Noor", CO2SavedKg: 7},
		}},
		&fakeQuartiers{},
		friends,
	)

	rec, _ := doJSON(t, h.Friends, http.MethodGet, "/v1/leaderboard/friends", "", "u1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Users []rankedUser `json:"users"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Users, 2) // u2 was never added as a friend
	require.Equal(t, "Noor", resp.Users[0].DisplayName)
	require.Equal(t, 1, resp.Users[0].Rank)
	require.Equal(t, "Ada", resp.Users[1].DisplayName)
	require.Equal(t, 2, resp.Users[1].Rank)
}

func TestAddFriend(t *testing.T) {
	friends := newFakeFriends("u2")
	h := NewLeaderboardHandler(&fakeTotals{}, &fakeQuartiers{}, friends)

	rec, _ := doJSON(t, h.AddFriend, http.MethodPost, "/v1/friends", `{"friend_id":"u2"}`, "u1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"u2"}, friends.edges["u1"])

	// Re-adding is a no-op success.
	rec, _ = doJSON(t, h.AddFriend, http.MethodPost, "/v1/friends", `{"friend_id":"u2"}`, "u1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, friends.edges["u1"], 1)

	rec, _ = doJSON(t, h.AddFriend, http.MethodPost, "/v1/friends", `{"friend_id":"ghost"}`, "u1")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
