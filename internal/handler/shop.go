package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecomove/ecomove/internal/model"
	"github.com/ecomove/ecomove/internal/observability"
	"github.com/ecomove/ecomove/internal/repository"
)

// ShopStore is the slice of the shop repository the handlers need.
type ShopStore interface {
	ListWithOwnership(ctx context.Context, userID string) ([]model.ShopItem, map[string]bool, error)
	Purchase(ctx context.Context, userID, itemID string) (model.EconomyState, error)
	Equip(ctx context.Context, userID, itemID string) (model.EconomyState, error)
	Unequip(ctx context.Context, userID, itemID string) (model.EconomyState, error)
}

// ShopHandler serves the catalog read and the purchase/equip
// mutations.
type ShopHandler struct {
	Shop ShopStore
}

func NewShopHandler(s ShopStore) *ShopHandler { return &ShopHandler{Shop: s} }

// ----- DTOs -----

type shopItemDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCoins int64  `json:"price_coins"`
	Category   string `json:"category"`
	AssetPath  string `json:"asset_path"`
	Owned      bool   `json:"owned"`
}

type equipReq struct {
	ItemID string `json:"item_id"`
}

// List returns the catalog with per-caller owned flags.
func (h *ShopHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, owned, err := h.Shop.ListWithOwnership(ctx, userID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	out := make([]shopItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, shopItemDTO{
			ID:         it.ID,
			Name:       it.Name,
			PriceCoins: it.PriceCoins,
			Category:   it.Category,
			AssetPath:  it.AssetPath,
			Owned:      owned[it.ID],
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Purchase buys and equips an item. Repurchasing an owned item never
// charges a second time.
func (h *ShopHandler) Purchase(c echo.Context) error {
	itemID := c.Param("id")
	if itemID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "item id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	eco, err := h.Shop.Purchase(ctx, userID(c), itemID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		case errors.Is(err, repository.ErrInsufficientFunds):
			return c.JSON(http.StatusConflict, echo.Map{"error": "insufficient funds"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "purchase failed"})
		}
	}
	observability.RecordPurchase()
	return c.JSON(http.StatusOK, echo.Map{"economy": economyPart(eco)})
}

// Equip equips an owned item, evicting the previously equipped item of
// the same category.
func (h *ShopHandler) Equip(c echo.Context) error {
	var req equipReq
	if err := c.Bind(&req); err != nil || req.ItemID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "item_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	eco, err := h.Shop.Equip(ctx, userID(c), req.ItemID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		case errors.Is(err, repository.ErrNotOwned):
			return c.JSON(http.StatusConflict, echo.Map{"error": "item not owned"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "equip failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"economy": economyPart(eco)})
}

// Unequip removes an item from the equipped set. Unequipping an item
// that is not equipped succeeds without change.
func (h *ShopHandler) Unequip(c echo.Context) error {
	var req equipReq
	if err := c.Bind(&req); err != nil || req.ItemID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "item_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	eco, err := h.Shop.Unequip(ctx, userID(c), req.ItemID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "unequip failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"economy": economyPart(eco)})
}
