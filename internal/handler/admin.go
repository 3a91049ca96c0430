package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ecomove/ecomove/internal/database"
	"github.com/ecomove/ecomove/internal/model"
	"github.com/ecomove/ecomove/internal/utils"
)

// CatalogAdmin covers the wholesale shop catalog mutations.
type CatalogAdmin interface {
	ReplaceCatalog(ctx context.Context, items []model.ShopItem) error
	UpsertItems(ctx context.Context, items []model.ShopItem) error
}

// QuartierAdmin covers the wholesale district mutations.
type QuartierAdmin interface {
	ReplaceAll(ctx context.Context, quartiers []model.Quartier) error
	Upsert(ctx context.Context, quartiers []model.Quartier) error
}

// EconomyAdmin covers the bulk economy resets used by the admin
// operations.
type EconomyAdmin interface {
	ResetAll(ctx context.Context) error
	EnsureDefault(ctx context.Context, userID string) error
}

// UserAdmin covers the bulk user upsert used by the seed operation.
type UserAdmin interface {
	Upsert(ctx context.Context, id, displayName string) error
}

// AdminHandler serves the operator-only reference-data endpoints,
// guarded by a bcrypt-hashed admin key header.
type AdminHandler struct {
	KeyHash   string
	Shop      CatalogAdmin
	Quartiers QuartierAdmin
	Economy   EconomyAdmin
	Users     UserAdmin
}

func NewAdminHandler(keyHash string, s CatalogAdmin, q QuartierAdmin, e EconomyAdmin, u UserAdmin) *AdminHandler {
	return &AdminHandler{KeyHash: keyHash, Shop: s, Quartiers: q, Economy: e, Users: u}
}

// ----- DTOs -----

type seedUserReq struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}
type seedItemReq struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCoins int64  `json:"price_coins"`
	Category   string `json:"category"`
	AssetPath  string `json:"asset_path"`
}
type seedQuartierReq struct {
	ID         uint64  `json:"id"`
	Name       string  `json:"name"`
	CO2SavedKg float64 `json:"co2_saved_kg"`
	Rank       int     `json:"rank"`
}
type seedReq struct {
	Users     []seedUserReq     `json:"users"`
	ShopItems []seedItemReq     `json:"shop_items"`
	Quartiers []seedQuartierReq `json:"quartiers"`
}

func (h *AdminHandler) authorized(c echo.Context) bool {
	key := strings.TrimSpace(c.Request().Header.Get("X-Admin-Key"))
	if key == "" || h.KeyHash == "" {
		return false
	}
	return utils.VerifyAdminKey(h.KeyHash, key)
}

// Reset restores the stock catalog and district board and resets every
// user's economy snapshot to the defaults. Users, tokens and the
// activity ledger stay untouched.
func (h *AdminHandler) Reset(c echo.Context) error {
	if !h.authorized(c) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid admin key"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Shop.ReplaceCatalog(ctx, database.DefaultShopItems); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "catalog reset failed"})
	}
	if err := h.Quartiers.ReplaceAll(ctx, database.DefaultQuartiers); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "quartier reset failed"})
	}
	if err := h.Economy.ResetAll(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "economy reset failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "reset"})
}

// Seed upserts reference data supplied in the body. Every section is
// optional; existing rows are updated, missing ones created. Seeded
// users get a default economy row only when they have none, so
// existing progress is never clobbered.
func (h *AdminHandler) Seed(c echo.Context) error {
	if !h.authorized(c) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid admin key"})
	}
	var req seedReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	for _, u := range req.Users {
		if u.ID == "" || strings.TrimSpace(u.DisplayName) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seed user needs id and display_name"})
		}
		if err := h.Users.Upsert(ctx, u.ID, u.DisplayName); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "user seed failed"})
		}
		if err := h.Economy.EnsureDefault(ctx, u.ID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "economy seed failed"})
		}
	}

	if len(req.ShopItems) > 0 {
		items := make([]model.ShopItem, 0, len(req.ShopItems))
		for _, it := range req.ShopItems {
			if it.ID == "" || it.PriceCoins <= 0 {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "seed item needs id and positive price_coins"})
			}
			items = append(items, model.ShopItem{
				ID: it.ID, Name: it.Name, PriceCoins: it.PriceCoins,
				Category: it.Category, AssetPath: it.AssetPath,
			})
		}
		if err := h.Shop.UpsertItems(ctx, items); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "catalog seed failed"})
		}
	}

	if len(req.Quartiers) > 0 {
		quartiers := make([]model.Quartier, 0, len(req.Quartiers))
		for _, q := range req.Quartiers {
			if q.ID == 0 || strings.TrimSpace(q.Name) == "" {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "seed quartier needs id and name"})
			}
			quartiers = append(quartiers, model.Quartier{
				ID: q.ID, Name: q.Name, CO2SavedKg: q.CO2SavedKg, Rank: q.Rank,
			})
		}
		if err := h.Quartiers.Upsert(ctx, quartiers); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "quartier seed failed"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "seeded"})
}
