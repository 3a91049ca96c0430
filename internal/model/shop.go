package model

// ShopItem is a catalog row. The catalog is reference data: immutable
// during normal operation and replaceable wholesale by the admin
// reset/seed operations.
type ShopItem struct {
	ID         string // shop_items.id
	Name       string // shop_items.name
	PriceCoins int64  // shop_items.price_coins (> 0)
	Category   string // shop_items.category
	AssetPath  string // shop_items.asset_path
}

// Ownership is the (user, item) purchase relation. Its mere existence
// is the "owned" predicate; equip state lives on EconomyState.
type Ownership struct {
	UserID string // ownerships.user_id
	ItemID string // ownerships.item_id
}
