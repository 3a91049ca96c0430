package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ecomove/ecomove/internal/database"
	"github.com/ecomove/ecomove/internal/model"
	"github.com/ecomove/ecomove/internal/utils"
)

type fakeCatalog struct {
	items map[string]model.ShopItem
}

func newFakeCatalog() *fakeCatalog { return &fakeCatalog{items: map[string]model.ShopItem{}} }

func (f *fakeCatalog) ReplaceCatalog(_ context.Context, items []model.ShopItem) error {
	f.items = map[string]model.ShopItem{}
	for _, it := range items {
		f.items[it.ID] = it
	}
	return nil
}

func (f *fakeCatalog) UpsertItems(_ context.Context, items []model.ShopItem) error {
	for _, it := range items {
		f.items[it.ID] = it
	}
	return nil
}

type fakeQuartierAdmin struct {
	rows map[uint64]model.Quartier
}

func newFakeQuartierAdmin() *fakeQuartierAdmin {
	return &fakeQuartierAdmin{rows: map[uint64]model.Quartier{}}
}

func (f *fakeQuartierAdmin) ReplaceAll(_ context.Context, quartiers []model.Quartier) error {
	f.rows = map[uint64]model.Quartier{}
	return f.Upsert(context.Background(), quartiers)
}

func (f *fakeQuartierAdmin) Upsert(_ context.Context, quartiers []model.Quartier) error {
	for _, q := range quartiers {
		f.rows[q.ID] = q
	}
	return nil
}

func doAdmin(t *testing.T, h echo.HandlerFunc, body, key string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/admin", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set("X-Admin-Key", key)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func newAdminFixture(t *testing.T) (*AdminHandler, *fakeCatalog, *fakeQuartierAdmin, *fakeEconomy, *fakeUsers) {
	t.Helper()
	hash, err := utils.HashAdminKey("letmein", bcrypt.MinCost)
	require.NoError(t, err)
	catalog := newFakeCatalog()
	quartiers := newFakeQuartierAdmin()
	economy := newFakeEconomy()
	users := newFakeUsers()
	return NewAdminHandler(hash, catalog, quartiers, economy, users), catalog, quartiers, economy, users
}

func TestAdminRejectsBadKey(t *testing.T) {
	h, _, _, _, _ := newAdminFixture(t)

	rec := doAdmin(t, h.Reset, "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doAdmin(t, h.Reset, "", "wrong")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRejectsWhenNoHashConfigured(t *testing.T) {
	h := NewAdminHandler("", newFakeCatalog(), newFakeQuartierAdmin(), newFakeEconomy(), newFakeUsers())
	rec := doAdmin(t, h.Reset, "", "anything")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminResetRestoresDefaults(t *testing.T) {
	h, catalog, quartiers, economy, _ := newAdminFixture(t)
	require.NoError(t, economy.CreateDefault(context.Background(), "user-1"))
	eco := economy.states["user-1"]
	eco.Score = 500
	eco.Coins = 9
	economy.states["user-1"] = eco

	rec := doAdmin(t, h.Reset, "", "letmein")
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, catalog.items, len(database.DefaultShopItems))
	require.Len(t, quartiers.rows, len(database.DefaultQuartiers))
	require.Equal(t, int64(0), economy.states["user-1"].Score)
	require.Equal(t, model.DefaultStartingCoins, economy.states["user-1"].Coins)
}

func TestAdminSeedUpsertsSections(t *testing.T) {
	h, catalog, quartiers, economy, users := newAdminFixture(t)

	body := `{
		"users":[{"id":"u-seed","display_name":"Seed User"}],
		"shop_items":[{"id":"hat_test","name":"Test Hat","price_coins":10,"category":"hat","asset_path":"/a.png"}],
		"quartiers":[{"id":9,"name":"Testquartier","co2_saved_kg":1.5,"rank":9}]
	}`
	rec := doAdmin(t, h.Seed, body, "letmein")
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := users.GetByID(context.Background(), "u-seed")
	require.NoError(t, err)
	require.Equal(t, model.DefaultStartingCoins, economy.states["u-seed"].Coins)
	require.Contains(t, catalog.items, "hat_test")
	require.Equal(t, "Testquartier", quartiers.rows[9].Name)
}

func TestAdminSeedToleratesMissingSections(t *testing.T) {
	h, catalog, _, _, _ := newAdminFixture(t)
	rec := doAdmin(t, h.Seed, `{}`, "letmein")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, catalog.items)
}

func TestAdminSeedValidatesRows(t *testing.T) {
	h, _, _, _, _ := newAdminFixture(t)

	rec := doAdmin(t, h.Seed, `{"shop_items":[{"id":"x","price_coins":0}]}`, "letmein")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doAdmin(t, h.Seed, `{"users":[{"id":"","display_name":"No ID"}]}`, "letmein")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
