package domain

// ItemType is the item's combat or utility role.
type ItemType string

const (
	ItemDamage ItemType = "DAMAGE"
	ItemGuard  ItemType = "GUARD"
	ItemHeal   ItemType = "HEAL"
)

// Item is an item prototype from world content.
type Item struct {
	ID     int64    `json:"id"`
	Type   ItemType `json:"type"`
	Title  string   `json:"title"`
	Value  int      `json:"value"`
	Usages int      `json:"usages"`
	Price  int      `json:"price"`
}

// ItemInstance is a concrete owned copy of an item. Destroyed when sold
// or when UsagesLeft hits zero.
type ItemInstance struct {
	ID         int64  `json:"id"`
	ItemID     int64  `json:"item_id"`
	HeroID     string `json:"hero_id"`
	UsagesLeft int    `json:"usages_left"`
}

// OwnedItem is an inventory listing entry: an item prototype joined with
// the count of instances the hero owns.
type OwnedItem struct {
	Item  Item `json:"item"`
	Count int  `json:"count"`
}

// ShopSlot is available-for-purchase stock of one item type at one shop
// location. Deleted when a buy empties it; a sell recreates it at count 1.
type ShopSlot struct {
	LocationID int64 `json:"location_id"`
	ItemID     int64 `json:"item_id"`
	Count      int   `json:"count"`
	Price      int   `json:"price"`
}
