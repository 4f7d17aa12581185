package domain

import "time"

// HeroState is the hero's current logical state. It gates which commands
// are valid; a pending activity pre-empts all of them.
type HeroState string

const (
	HeroStateIdle     HeroState = "IDLE"
	HeroStateTravel   HeroState = "TRAVEL"
	HeroStateFight    HeroState = "FIGHT"
	HeroStateShopping HeroState = "SHOPPING"
	HeroStateHealing  HeroState = "HEALING"
)

// XPPerLevel is the experience required per hero level.
const XPPerLevel = 1000

// KillXP is the experience awarded for killing a mob.
const KillXP = 100

// DefaultHPBase is the starting max HP for a newly registered hero.
const DefaultHPBase = 100

// Hero is a player's persistent in-world character.
// Invariants: AttackedBy is non-nil iff State == FIGHT;
// HPValue is always within [0, HPBase].
type Hero struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ChatID     int64     `json:"chat_id"`
	LocationID int64     `json:"location_id"`
	State      HeroState `json:"state"`
	ActivityID *string   `json:"activity_id,omitempty"`
	AttackedBy *int64    `json:"attacked_by,omitempty"`
	Gold       int       `json:"gold"`
	XP         int       `json:"xp"`
	HPBase     int       `json:"hp_base"`
	HPValue    int       `json:"hp_value"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Level derives the hero's level from accumulated experience.
func (h *Hero) Level() int {
	return h.XP/XPPerLevel + 1
}

// HealingDuration is how long a full recovery takes from the current HP.
func (h *Hero) HealingDuration() time.Duration {
	missing := h.HPBase - h.HPValue
	if missing < 0 {
		missing = 0
	}
	return time.Duration(15*missing/5) * time.Second
}

// RespawnDuration is how long the hero stays dead before respawning.
func (h *Hero) RespawnDuration() time.Duration {
	return time.Duration(5+5*h.Level()) * time.Second
}

// ApplyDamage reduces HPValue by dmg, clamped at zero. It reports whether
// the hit was lethal so the caller can transition at the boundary instead
// of persisting a negative value.
func (h *Hero) ApplyDamage(dmg int) (dead bool) {
	if h.HPValue-dmg <= 0 {
		h.HPValue = 0
		return true
	}
	h.HPValue -= dmg
	return false
}
