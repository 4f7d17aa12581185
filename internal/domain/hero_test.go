package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHero_Level(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{xp: 0, want: 1},
		{xp: 999, want: 1},
		{xp: 1000, want: 2},
		{xp: 2500, want: 3},
	}

	for _, tt := range tests {
		h := Hero{XP: tt.xp}
		assert.Equal(t, tt.want, h.Level(), "xp=%d", tt.xp)
	}
}

func TestHero_HealingDuration(t *testing.T) {
	t.Run("Scales With Missing HP", func(t *testing.T) {
		h := Hero{HPBase: 100, HPValue: 40}
		assert.Equal(t, 180*time.Second, h.HealingDuration())
	})

	t.Run("Full Health", func(t *testing.T) {
		h := Hero{HPBase: 100, HPValue: 100}
		assert.Zero(t, h.HealingDuration())
	})

	t.Run("Overhealed Clamps To Zero", func(t *testing.T) {
		h := Hero{HPBase: 100, HPValue: 120}
		assert.Zero(t, h.HealingDuration())
	})
}

func TestHero_RespawnDuration(t *testing.T) {
	fresh := Hero{XP: 0}
	veteran := Hero{XP: 2000}
	assert.Equal(t, 10*time.Second, fresh.RespawnDuration())
	assert.Equal(t, 20*time.Second, veteran.RespawnDuration())
}

func TestHero_ApplyDamage(t *testing.T) {
	t.Run("Survives", func(t *testing.T) {
		h := Hero{HPBase: 100, HPValue: 50}
		assert.False(t, h.ApplyDamage(20))
		assert.Equal(t, 30, h.HPValue)
	})

	t.Run("Exact Kill", func(t *testing.T) {
		h := Hero{HPBase: 100, HPValue: 20}
		assert.True(t, h.ApplyDamage(20))
		assert.Equal(t, 0, h.HPValue)
	})

	t.Run("Never Negative", func(t *testing.T) {
		h := Hero{HPBase: 100, HPValue: 5}
		assert.True(t, h.ApplyDamage(999))
		assert.Equal(t, 0, h.HPValue)
	})
}

func TestActivity_Timing(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	act := Activity{StartTime: start, Duration: time.Minute}

	assert.Equal(t, start.Add(time.Minute), act.FireAt())
	assert.Equal(t, 30*time.Second, act.Remaining(start.Add(30*time.Second)))
	assert.Zero(t, act.Remaining(start.Add(2*time.Minute)), "overdue floors at zero")
}

func TestActivity_Blocking(t *testing.T) {
	assert.True(t, Activity{Kind: ActivityHealing}.Blocking())
	assert.True(t, Activity{Kind: ActivityRespawn}.Blocking())
	assert.False(t, Activity{Kind: ActivityFightStart}.Blocking())
}
