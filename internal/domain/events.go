package domain

// Event type constants for the in-process bus.
const (
	EventTypeHeroRegistered = "hero.registered"
	EventTypeFightStarted   = "fight.started"
	EventTypeMobKilled      = "fight.mob_killed"
	EventTypeHeroDied       = "fight.hero_died"
	EventTypeHeroRespawned  = "hero.respawned"
	EventTypeHeroHealed     = "hero.healed"
	EventTypeItemBought     = "item.bought"
	EventTypeItemSold       = "item.sold"
)

// FightPayload describes a combat lifecycle event.
type FightPayload struct {
	HeroID     string `json:"hero_id"`
	MobID      int64  `json:"mob_id"`
	LocationID int64  `json:"location_id"`
	XPAwarded  int    `json:"xp_awarded,omitempty"`
}

// TradePayload describes a completed buy or sell.
type TradePayload struct {
	HeroID     string `json:"hero_id"`
	ItemID     int64  `json:"item_id"`
	LocationID int64  `json:"location_id"`
	Price      int    `json:"price"`
}

// HeroPayload describes a hero lifecycle event.
type HeroPayload struct {
	HeroID     string `json:"hero_id"`
	Name       string `json:"name,omitempty"`
	LocationID int64  `json:"location_id"`
}
