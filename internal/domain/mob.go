package domain

// Mob is a monster species prototype. Damage and Critical are precomputed
// stat fields, not derived at resolution time.
type Mob struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	HPBase         int     `json:"hp_base"`
	Damage         int     `json:"damage"`
	Critical       int     `json:"critical"`
	CriticalChance float64 `json:"critical_chance"`
}

// MobDwell weights a mob species' spawn chance at a fight location.
type MobDwell struct {
	LocationID int64   `json:"location_id"`
	MobID      int64   `json:"mob_id"`
	Chance     float64 `json:"chance"`
}

// MobDrop is one independent loot roll configured on a mob species.
type MobDrop struct {
	MobID  int64   `json:"mob_id"`
	ItemID int64   `json:"item_id"`
	Chance float64 `json:"chance"`
}

// MobInstance is a live spawn scoped to a single fight. It is owned by at
// most one hero and destroyed on kill or flee.
type MobInstance struct {
	ID      int64 `json:"id"`
	MobID   int64 `json:"mob_id"`
	HPValue int   `json:"hp_value"`
}
