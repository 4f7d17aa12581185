package hero

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/PixVoxGames/0pg/internal/domain"
)

func pendingActivity(id string, kind domain.ActivityKind) domain.Activity {
	return domain.Activity{
		ID:        id,
		HeroID:    testHeroID,
		Kind:      kind,
		StartTime: time.Now(),
		Duration:  time.Second,
	}
}

func (f *fixture) expectFire(h *domain.Hero) {
	f.repo.On("BeginTx", mock.Anything).Return(nil, nil)
	f.tx.On("GetHeroForUpdate", mock.Anything, testHeroID).Return(h, nil)
	f.tx.On("Commit", mock.Anything).Return(nil).Maybe()
	f.tx.On("Rollback", mock.Anything).Return(nil).Maybe()
}

func TestFireHealing_RestoresFullHP(t *testing.T) {
	f := newFixture(t)
	actID := "act-heal"
	h := idleHero(templeID)
	h.State = domain.HeroStateHealing
	h.HPValue = 40
	h.ActivityID = &actID
	f.expectFire(h)
	f.tx.On("DeleteActivity", mock.Anything, actID).Return(nil)
	f.tx.On("UpdateHero", mock.Anything, mock.MatchedBy(func(h *domain.Hero) bool {
		return h.HPValue == 100 && h.State == domain.HeroStateIdle && h.ActivityID == nil
	})).Return(nil)

	err := f.svc.FireActivity(context.Background(), pendingActivity(actID, domain.ActivityHealing))

	require.NoError(t, err)
	require.Len(t, f.notifier.replies, 1)
	assert.Equal(t, testChatID, f.notifier.chatIDs[0])
	assert.Contains(t, f.notifier.replies[0].Text, MsgRecovered)
}

func TestFireHealing_StaleActivityIsNoop(t *testing.T) {
	f := newFixture(t)
	h := idleHero(templeID)
	// The hero cancelled; the row is gone and the reference cleared
	f.expectFire(h)

	err := f.svc.FireActivity(context.Background(), pendingActivity("act-gone", domain.ActivityHealing))

	require.NoError(t, err)
	f.tx.AssertNotCalled(t, "DeleteActivity", mock.Anything, mock.Anything)
	f.tx.AssertNotCalled(t, "UpdateHero", mock.Anything, mock.Anything)
	assert.Empty(t, f.notifier.replies)
}

func TestFireRespawn_MovesHeroToStart(t *testing.T) {
	f := newFixture(t)
	actID := "act-respawn"
	h := idleHero(forestID)
	h.HPValue = 0
	h.ActivityID = &actID
	f.expectFire(h)
	f.tx.On("DeleteActivity", mock.Anything, actID).Return(nil)
	f.tx.On("UpdateHero", mock.Anything, mock.MatchedBy(func(h *domain.Hero) bool {
		return h.LocationID == villageID && h.HPValue == 100 &&
			h.State == domain.HeroStateIdle && h.ActivityID == nil
	})).Return(nil)

	err := f.svc.FireActivity(context.Background(), pendingActivity(actID, domain.ActivityRespawn))

	require.NoError(t, err)
	require.Len(t, f.notifier.replies, 1)
	assert.Contains(t, f.notifier.replies[0].Text, "You respawned in Village!")
}

func TestFireFightStart_SpawnsMob(t *testing.T) {
	f := newFixture(t)
	actID := "act-fight"
	h := idleHero(forestID)
	f.expectFire(h)
	f.svc.rnd = seq(0.5) // within the goblin's dwell range
	f.tx.On("DeleteActivity", mock.Anything, actID).Return(nil)
	f.tx.On("CreateMobInstance", mock.Anything, mock.MatchedBy(func(mi *domain.MobInstance) bool {
		return mi.MobID == goblinID && mi.HPValue == 20
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.MobInstance).ID = mobInstanceID
	}).Return(nil)
	f.tx.On("UpdateHero", mock.Anything, mock.MatchedBy(func(h *domain.Hero) bool {
		return h.State == domain.HeroStateFight && h.AttackedBy != nil && *h.AttackedBy == mobInstanceID
	})).Return(nil)

	err := f.svc.FireActivity(context.Background(), pendingActivity(actID, domain.ActivityFightStart))

	require.NoError(t, err)
	require.Len(t, f.notifier.replies, 1)
	assert.Contains(t, f.notifier.replies[0].Text, "You have encountered Goblin")
	assert.Equal(t, [][]string{{"Attack", "Guard", "Run away"}}, f.notifier.replies[0].Choices)
}

func TestFireFightStart_HeroMovedAway(t *testing.T) {
	f := newFixture(t)
	actID := "act-fight"
	h := idleHero(villageID)
	f.expectFire(h)
	f.tx.On("DeleteActivity", mock.Anything, actID).Return(nil)

	err := f.svc.FireActivity(context.Background(), pendingActivity(actID, domain.ActivityFightStart))

	require.NoError(t, err)
	// The row is consumed but no encounter opens
	f.tx.AssertCalled(t, "DeleteActivity", mock.Anything, actID)
	f.tx.AssertNotCalled(t, "CreateMobInstance", mock.Anything, mock.Anything)
	assert.Empty(t, f.notifier.replies)
}

func TestFireFightStart_HeroBusyHealing(t *testing.T) {
	f := newFixture(t)
	actID := "act-fight"
	healID := "act-heal"
	h := idleHero(forestID)
	h.ActivityID = &healID
	f.expectFire(h)
	f.tx.On("DeleteActivity", mock.Anything, actID).Return(nil)

	err := f.svc.FireActivity(context.Background(), pendingActivity(actID, domain.ActivityFightStart))

	require.NoError(t, err)
	f.tx.AssertNotCalled(t, "CreateMobInstance", mock.Anything, mock.Anything)
}

func TestFireFightStart_QuietArea(t *testing.T) {
	f := newFixture(t)
	actID := "act-fight"
	h := idleHero(forestID)
	f.expectFire(h)
	// Draw past the dwell table's total chance
	f.svc.snap = sparseWorld(t)
	f.svc.rnd = seq(0.9)
	f.tx.On("DeleteActivity", mock.Anything, actID).Return(nil)

	err := f.svc.FireActivity(context.Background(), pendingActivity(actID, domain.ActivityFightStart))

	require.NoError(t, err)
	require.Len(t, f.notifier.replies, 1)
	assert.Contains(t, f.notifier.replies[0].Text, MsgQuietArea)
	f.tx.AssertNotCalled(t, "CreateMobInstance", mock.Anything, mock.Anything)
}

func TestFireActivity_UnknownKind(t *testing.T) {
	f := newFixture(t)

	err := f.svc.FireActivity(context.Background(), pendingActivity("act-x", domain.ActivityKind("NAP")))

	assert.Error(t, err)
}
