package database

import "github.com/ecomove/ecomove/internal/model"

// DefaultShopItems is the stock cosmetic catalog installed on first
// boot and restored by the admin reference-data reset.
var DefaultShopItems = []model.ShopItem{
	{ID: "hat_leaf", Name: "Leaf Cap", PriceCoins: 50, Category: "hat", AssetPath: "/assets/shop/hat_leaf.png"},
	{ID: "hat_beanie", Name: "Winter Beanie", PriceCoins: 120, Category: "hat", AssetPath: "/assets/shop/hat_beanie.png"},
	{ID: "glasses_sun", Name: "Sunglasses", PriceCoins: 80, Category: "glasses", AssetPath: "/assets/shop/glasses_sun.png"},
	{ID: "glasses_round", Name: "Round Glasses", PriceCoins: 150, Category: "glasses", AssetPath: "/assets/shop/glasses_round.png"},
	{ID: "scarf_wool", Name: "Wool Scarf", PriceCoins: 100, Category: "scarf", AssetPath: "/assets/shop/scarf_wool.png"},
	{ID: "scarf_silk", Name: "Silk Scarf", PriceCoins: 200, Category: "scarf", AssetPath: "/assets/shop/scarf_silk.png"},
	{ID: "shoes_sneaker", Name: "Green Sneakers", PriceCoins: 180, Category: "shoes", AssetPath: "/assets/shop/shoes_sneaker.png"},
}

// DefaultQuartiers is the fixed city-district board. The CO₂ figures
// are administrative seed values, not derived from user activity.
var DefaultQuartiers = []model.Quartier{
	{ID: 1, Name: "Altstadt", CO2SavedKg: 1420.5, Rank: 1},
	{ID: 2, Name: "Länggasse", CO2SavedKg: 1180.0, Rank: 2},
	{ID: 3, Name: "Breitenrain", CO2SavedKg: 975.25, Rank: 3},
	{ID: 4, Name: "Kirchenfeld", CO2SavedKg: 890.75, Rank: 4},
	{ID: 5, Name: "Mattenhof", CO2SavedKg: 640.0, Rank: 5},
	{ID: 6, Name: "Bümpliz", CO2SavedKg: 410.5, Rank: 6},
}
