package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/ecomove/ecomove/internal/model"
)

// ShopRepo is the shop/economy mutator: catalog reads with per-caller
// ownership flags, and the transactional purchase/equip mutations.
type ShopRepo struct{ DB *sql.DB }

func NewShopRepo(db *sql.DB) *ShopRepo { return &ShopRepo{DB: db} }

// ListWithOwnership returns the whole catalog plus the set of item
// ids the caller owns. Same catalog for everyone, different owned
// flags per user.
func (r *ShopRepo) ListWithOwnership(ctx context.Context, userID string) ([]model.ShopItem, map[string]bool, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT s.id, s.name, s.price_coins, s.category, s.asset_path, o.user_id
		 FROM shop_items s
		 LEFT JOIN ownerships o ON o.item_id = s.id AND o.user_id = ?
		 ORDER BY s.category, s.price_coins, s.id`, userID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	items := make([]model.ShopItem, 0)
	owned := make(map[string]bool)
	for rows.Next() {
		var (
			it    model.ShopItem
			owner sql.NullString
		)
		if err := rows.Scan(&it.ID, &it.Name, &it.PriceCoins, &it.Category, &it.AssetPath, &owner); err != nil {
			return nil, nil, err
		}
		items = append(items, it)
		if owner.Valid {
			owned[it.ID] = true
		}
	}
	return items, owned, rows.Err()
}

// Purchase grants ownership of an item and debits the price in one
// transaction. The balance check runs against the row re-read under
// FOR UPDATE, never a cached value. Buying an already-owned item is
// an idempotent success: no second charge, but the item is equipped
// if it is not. A fresh purchase equips the item, evicting any
// previously equipped item of the same category.
func (r *ShopRepo) Purchase(ctx context.Context, userID, itemID string) (model.EconomyState, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.EconomyState{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var item model.ShopItem
	err = tx.QueryRowContext(ctx,
		"SELECT id, name, price_coins, category, asset_path FROM shop_items WHERE id=? LIMIT 1",
		itemID).Scan(&item.ID, &item.Name, &item.PriceCoins, &item.Category, &item.AssetPath)
	if errors.Is(err, sql.ErrNoRows) {
		return model.EconomyState{}, ErrNotFound
	}
	if err != nil {
		return model.EconomyState{}, err
	}

	eco, err := scanEconomy(tx.QueryRowContext(ctx,
		`SELECT user_id, score, streak_days, today_walk_km, today_pt_trips, today_car_km,
		        mood, activity_mode, accessories, coins
		 FROM economy_states WHERE user_id=? LIMIT 1 FOR UPDATE`, userID))
	if err != nil {
		return model.EconomyState{}, err
	}

	var one int
	alreadyOwned := true
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM ownerships WHERE user_id=? AND item_id=? LIMIT 1", userID, itemID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		alreadyOwned = false
	} else if err != nil {
		return model.EconomyState{}, err
	}

	if !alreadyOwned {
		if eco.Coins < item.PriceCoins {
			return model.EconomyState{}, ErrInsufficientFunds
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO ownerships (user_id, item_id) VALUES (?,?)", userID, itemID); err != nil {
			return model.EconomyState{}, err
		}
		eco.Coins -= item.PriceCoins
		if eco.Coins < 0 {
			eco.Coins = 0
		}
	}

	categoryOf, err := equippedCategories(ctx, tx, eco.Accessories)
	if err != nil {
		return model.EconomyState{}, err
	}
	categoryOf[item.ID] = item.Category
	eco.Accessories = model.SwapAccessory(eco.Accessories, item.ID, item.Category, categoryOf)

	if _, err := tx.ExecContext(ctx,
		"UPDATE economy_states SET coins=?, accessories=? WHERE user_id=?",
		eco.Coins, marshalAccessories(eco.Accessories), userID); err != nil {
		return model.EconomyState{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.EconomyState{}, err
	}
	return eco, nil
}

// Equip adds an owned item to the equipped set, evicting the
// previously equipped item of the same category in the same write.
func (r *ShopRepo) Equip(ctx context.Context, userID, itemID string) (model.EconomyState, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.EconomyState{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var category string
	err = tx.QueryRowContext(ctx,
		"SELECT category FROM shop_items WHERE id=? LIMIT 1", itemID).Scan(&category)
	if errors.Is(err, sql.ErrNoRows) {
		return model.EconomyState{}, ErrNotFound
	}
	if err != nil {
		return model.EconomyState{}, err
	}

	var one int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM ownerships WHERE user_id=? AND item_id=? LIMIT 1", userID, itemID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return model.EconomyState{}, ErrNotOwned
	}
	if err != nil {
		return model.EconomyState{}, err
	}

	eco, err := scanEconomy(tx.QueryRowContext(ctx,
		`SELECT user_id, score, streak_days, today_walk_km, today_pt_trips, today_car_km,
		        mood, activity_mode, accessories, coins
		 FROM economy_states WHERE user_id=? LIMIT 1 FOR UPDATE`, userID))
	if err != nil {
		return model.EconomyState{}, err
	}

	categoryOf, err := equippedCategories(ctx, tx, eco.Accessories)
	if err != nil {
		return model.EconomyState{}, err
	}
	categoryOf[itemID] = category
	eco.Accessories = model.SwapAccessory(eco.Accessories, itemID, category, categoryOf)

	if _, err := tx.ExecContext(ctx,
		"UPDATE economy_states SET accessories=? WHERE user_id=?",
		marshalAccessories(eco.Accessories), userID); err != nil {
		return model.EconomyState{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.EconomyState{}, err
	}
	return eco, nil
}

// Unequip removes an item from the equipped set. Unequipping an item
// that is not equipped is a no-op success.
func (r *ShopRepo) Unequip(ctx context.Context, userID, itemID string) (model.EconomyState, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.EconomyState{}, err
	}
	defer func() { _ = tx.Rollback() }()

	eco, err := scanEconomy(tx.QueryRowContext(ctx,
		`SELECT user_id, score, streak_days, today_walk_km, today_pt_trips, today_car_km,
		        mood, activity_mode, accessories, coins
		 FROM economy_states WHERE user_id=? LIMIT 1 FOR UPDATE`, userID))
	if err != nil {
		return model.EconomyState{}, err
	}

	eco.Accessories = model.RemoveAccessory(eco.Accessories, itemID)
	if _, err := tx.ExecContext(ctx,
		"UPDATE economy_states SET accessories=? WHERE user_id=?",
		marshalAccessories(eco.Accessories), userID); err != nil {
		return model.EconomyState{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.EconomyState{}, err
	}
	return eco, nil
}

// ReplaceCatalog wipes the catalog and installs the given items.
// Ownership rows referencing removed items are dropped with them.
func (r *ShopRepo) ReplaceCatalog(ctx context.Context, items []model.ShopItem) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM ownerships"); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM shop_items"); err != nil {
		return err
	}
	if err := upsertItemsTx(ctx, tx, items); err != nil {
		return err
	}
	return tx.Commit()
}

// UpsertItems inserts or updates catalog rows. Used by the bulk seed.
func (r *ShopRepo) UpsertItems(ctx context.Context, items []model.ShopItem) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := upsertItemsTx(ctx, tx, items); err != nil {
		return err
	}
	return tx.Commit()
}

func upsertItemsTx(ctx context.Context, tx *sql.Tx, items []model.ShopItem) error {
	for _, it := range items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO shop_items (id, name, price_coins, category, asset_path) VALUES (?,?,?,?,?)
			 ON DUPLICATE KEY UPDATE name=VALUES(name), price_coins=VALUES(price_coins),
			 category=VALUES(category), asset_path=VALUES(asset_path)`,
			it.ID, it.Name, it.PriceCoins, it.Category, it.AssetPath); err != nil {
			return err
		}
	}
	return nil
}

// equippedCategories loads the category of every currently equipped
// item so the swap helper can enforce category exclusivity.
func equippedCategories(ctx context.Context, tx *sql.Tx, equipped []string) (map[string]string, error) {
	out := make(map[string]string, len(equipped))
	if len(equipped) == 0 {
		return out, nil
	}
	placeholders := make([]string, 0, len(equipped))
	args := make([]interface{}, 0, len(equipped))
	for _, id := range equipped {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	rows, err := tx.QueryContext(ctx,
		"SELECT id, category FROM shop_items WHERE id IN ("+strings.Join(placeholders, ",")+")", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id, cat string
		if err := rows.Scan(&id, &cat); err != nil {
			return nil, err
		}
		out[id] = cat
	}
	return out, rows.Err()
}
