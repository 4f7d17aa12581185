// Package combat resolves fight exchanges as pure computation: given hero
// level, mob stats, and a random source, the outcome is fully determined.
package combat

import "github.com/PixVoxGames/0pg/internal/domain"

// DamagePerLevel is the hero's flat attack damage per level.
const DamagePerLevel = 10

// GuardMitigationPerLevel is how much incoming damage a guarding hero
// absorbs per level. A balance tunable, not a frozen contract.
const GuardMitigationPerLevel = 10

// Action is the hero's choice for one combat exchange.
type Action string

const (
	ActionAttack Action = "Attack"
	ActionGuard  Action = "Guard"
	ActionFlee   Action = "Run away"
)

// OutcomeKind classifies how an exchange ended.
type OutcomeKind int

const (
	// OutcomeContinue means both sides survive and the fight goes on.
	OutcomeContinue OutcomeKind = iota
	// OutcomeKill means the mob died. Kills short-circuit: the mob never
	// gets a retaliation roll.
	OutcomeKill
	// OutcomeDeath means the hero died.
	OutcomeDeath
	// OutcomeFled means the hero ran. Always succeeds, no damage either way.
	OutcomeFled
)

// Outcome is the resolved result of one combat exchange.
type Outcome struct {
	Kind       OutcomeKind
	HeroDamage int // dealt to the mob
	MobDamage  int // dealt to the hero
	HeroHP     int // hero HP after the exchange, clamped at 0
	MobHP      int // mob HP after the exchange, clamped at 0
}

// HeroDamage is the hero's flat attack damage. No RNG.
func HeroDamage(level int) int {
	return level * DamagePerLevel
}

// MobDamage rolls the mob's damage for one exchange: critical damage with
// probability CriticalChance, base damage otherwise.
func MobDamage(mob domain.Mob, rnd func() float64) int {
	if rnd() < mob.CriticalChance {
		return mob.Critical
	}
	return mob.Damage
}

// Resolve computes the outcome of one exchange. heroHP and mobHP are the
// current values; mob carries the species stats. rnd is consumed only for
// the mob's damage roll, so a fixed sequence replays identically.
func Resolve(action Action, level, heroHP, mobHP int, mob domain.Mob, rnd func() float64) Outcome {
	switch action {
	case ActionAttack:
		dealt := HeroDamage(level)
		if mobHP-dealt <= 0 {
			return Outcome{Kind: OutcomeKill, HeroDamage: dealt, HeroHP: heroHP, MobHP: 0}
		}
		mobHP -= dealt

		taken := MobDamage(mob, rnd)
		if heroHP-taken <= 0 {
			return Outcome{Kind: OutcomeDeath, HeroDamage: dealt, MobDamage: taken, HeroHP: 0, MobHP: mobHP}
		}
		return Outcome{Kind: OutcomeContinue, HeroDamage: dealt, MobDamage: taken, HeroHP: heroHP - taken, MobHP: mobHP}

	case ActionGuard:
		taken := MobDamage(mob, rnd) - level*GuardMitigationPerLevel
		if taken < 0 {
			taken = 0
		}
		if heroHP-taken <= 0 {
			return Outcome{Kind: OutcomeDeath, MobDamage: taken, HeroHP: 0, MobHP: mobHP}
		}
		return Outcome{Kind: OutcomeContinue, MobDamage: taken, HeroHP: heroHP - taken, MobHP: mobHP}

	case ActionFlee:
		return Outcome{Kind: OutcomeFled, HeroHP: heroHP, MobHP: mobHP}
	}

	return Outcome{Kind: OutcomeContinue, HeroHP: heroHP, MobHP: mobHP}
}

// RollDrops rolls each configured drop entry independently against its own
// chance. Entries are not mutually exclusive: zero, one, or many items may
// drop from a single kill.
func RollDrops(drops []domain.MobDrop, rnd func() float64) []int64 {
	var itemIDs []int64
	for _, drop := range drops {
		if rnd() < drop.Chance {
			itemIDs = append(itemIDs, drop.ItemID)
		}
	}
	return itemIDs
}
