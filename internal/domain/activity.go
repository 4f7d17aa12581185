package domain

import "time"

// ActivityKind is the deferred action an activity resolves to.
type ActivityKind string

const (
	// ActivityHealing restores the hero to full HP when it fires.
	ActivityHealing ActivityKind = "HEALING"
	// ActivityRespawn revives a dead hero at a random start location.
	ActivityRespawn ActivityKind = "RESPAWN"
	// ActivityFightStart spawns a mob and opens a fight. Unlike the other
	// kinds it is not referenced from the hero row and does not pre-empt
	// commands; its fire handler re-checks location and state instead.
	ActivityFightStart ActivityKind = "FIGHT_START"
)

// FightStartDelay is the gap between arriving at a fight location and the
// mob encounter. Scheduled rather than called inline so the travel
// transaction commits before the fight opens.
const FightStartDelay = 100 * time.Millisecond

// FightRestartDelay is the breather between killing a mob and the next
// encounter at the same location.
const FightRestartDelay = 5 * time.Second

// Activity is a durable scheduled-task entry: "hero is busy until
// StartTime+Duration". At most one is outstanding per hero.
type Activity struct {
	ID        string        `json:"id"`
	HeroID    string        `json:"hero_id"`
	Kind      ActivityKind  `json:"kind"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
}

// FireAt is the instant the activity becomes due.
func (a Activity) FireAt() time.Time {
	return a.StartTime.Add(a.Duration)
}

// Remaining is the time left until the activity fires, floored at zero.
func (a Activity) Remaining(now time.Time) time.Duration {
	r := a.FireAt().Sub(now)
	if r < 0 {
		return 0
	}
	return r
}

// Blocking reports whether the activity pre-empts inbound commands.
func (a Activity) Blocking() bool {
	return a.Kind == ActivityHealing || a.Kind == ActivityRespawn
}
