package hero

import (
	"context"
	"testing"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/PixVoxGames/0pg/internal/domain"
	"github.com/PixVoxGames/0pg/internal/economy"
	"github.com/PixVoxGames/0pg/internal/event"
	"github.com/PixVoxGames/0pg/internal/world"
	"github.com/PixVoxGames/0pg/internal/world/worldtest"
)

const (
	testHeroID = "5a2f0f3e-7b1f-4a57-9b6e-1de1a1b3c001"
	testChatID = int64(4242)

	villageID = int64(1)
	forestID  = int64(2)
	templeID  = int64(3)
	marketID  = int64(4)

	goblinID = int64(7)
	swordID  = int64(10)
	potionID = int64(11)
)

func testWorld(t *testing.T) *world.Snapshot {
	return worldtest.Snapshot(t, worldtest.Content{
		Locations: []domain.Location{
			{ID: villageID, Type: domain.LocationStart, Name: "Village", Enabled: true},
			{ID: forestID, Type: domain.LocationFight, Name: "Dark Forest", Enabled: true},
			{ID: templeID, Type: domain.LocationHealing, Name: "Temple", Enabled: true},
			{ID: marketID, Type: domain.LocationShop, Name: "Market", Enabled: true},
		},
		Gateways: []domain.Gateway{
			{FromID: villageID, ToID: forestID},
			{FromID: villageID, ToID: templeID},
			{FromID: villageID, ToID: marketID},
			{FromID: forestID, ToID: villageID},
			{FromID: templeID, ToID: villageID},
			{FromID: marketID, ToID: villageID},
		},
		Mobs: []domain.Mob{
			{ID: goblinID, Name: "Goblin", HPBase: 20, Damage: 10, Critical: 30, CriticalChance: 0.3},
		},
		Dwells: []domain.MobDwell{
			{LocationID: forestID, MobID: goblinID, Chance: 1.0},
		},
		Drops: []domain.MobDrop{
			{MobID: goblinID, ItemID: swordID, Chance: 0.5},
		},
		Items: []domain.Item{
			{ID: swordID, Type: domain.ItemDamage, Title: "Rusty Sword", Value: 5, Usages: 20, Price: 30},
			{ID: potionID, Type: domain.ItemHeal, Title: "Potion", Value: 25, Usages: 1, Price: 10},
		},
		Actions: map[domain.LocationType][]string{
			domain.LocationStart:   {ActionTravel},
			domain.LocationEmpty:   {ActionTravel},
			domain.LocationFight:   {ActionLeave},
			domain.LocationHealing: {ActionHeal, ActionTravel},
			domain.LocationShop:    {ActionShop, ActionTravel},
		},
	})
}

// sparseWorld has a forest where the goblin dwells only half the time.
func sparseWorld(t *testing.T) *world.Snapshot {
	return worldtest.Snapshot(t, worldtest.Content{
		Locations: []domain.Location{
			{ID: villageID, Type: domain.LocationStart, Name: "Village", Enabled: true},
			{ID: forestID, Type: domain.LocationFight, Name: "Dark Forest", Enabled: true},
		},
		Gateways: []domain.Gateway{
			{FromID: villageID, ToID: forestID},
			{FromID: forestID, ToID: villageID},
		},
		Mobs: []domain.Mob{
			{ID: goblinID, Name: "Goblin", HPBase: 20, Damage: 10, Critical: 30, CriticalChance: 0.3},
		},
		Dwells: []domain.MobDwell{
			{LocationID: forestID, MobID: goblinID, Chance: 0.5},
		},
	})
}

// seq returns an rnd that replays the given values, then repeats the last.
func seq(vals ...float64) func() float64 {
	i := 0
	return func() float64 {
		v := vals[i]
		if i < len(vals)-1 {
			i++
		}
		return v
	}
}

type fixture struct {
	repo     *MockHeroRepo
	tx       *MockHeroTx
	econ     *stubEconomy
	sched    *stubScheduler
	notifier *stubNotifier
	svc      *service
}

func newFixture(t *testing.T) *fixture {
	tx := &MockHeroTx{}
	repo := &MockHeroRepo{tx: tx}
	econ := &stubEconomy{}
	sched := &stubScheduler{}
	notifier := &stubNotifier{}

	svc := &service{
		repo:     repo,
		econ:     econ,
		snap:     testWorld(t),
		sched:    sched,
		notifier: notifier,
		bus:      event.NewMemoryBus(),
		chats:    expirable.NewLRU[int64, string](CacheSize, nil, time.Hour),
		rnd:      seq(0.99),
		now:      time.Now,
	}
	return &fixture{repo: repo, tx: tx, econ: econ, sched: sched, notifier: notifier, svc: svc}
}

func idleHero(locationID int64) *domain.Hero {
	return &domain.Hero{
		ID:         testHeroID,
		Name:       "Conan",
		ChatID:     testChatID,
		LocationID: locationID,
		State:      domain.HeroStateIdle,
		HPBase:     100,
		HPValue:    100,
	}
}

func (f *fixture) expectCommand(h *domain.Hero) {
	f.repo.On("GetByChatID", mock.Anything, testChatID).Return(h, nil)
	f.repo.On("BeginTx", mock.Anything).Return(nil, nil)
	f.tx.On("GetHeroForUpdate", mock.Anything, testHeroID).Return(h, nil)
	f.tx.On("Commit", mock.Anything).Return(nil).Maybe()
	f.tx.On("Rollback", mock.Anything).Return(nil).Maybe()
}

func TestRegister_Success(t *testing.T) {
	f := newFixture(t)
	f.repo.On("Create", mock.Anything, mock.MatchedBy(func(h *domain.Hero) bool {
		return h.Name == "Conan" && h.ChatID == testChatID &&
			h.State == domain.HeroStateIdle &&
			h.HPBase == domain.DefaultHPBase && h.HPValue == domain.DefaultHPBase &&
			h.LocationID == villageID
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Hero).ID = testHeroID
	}).Return(nil)

	reply, err := f.svc.Register(context.Background(), testChatID, "Conan")

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Welcome, Conan")
	assert.Equal(t, [][]string{{ActionTravel}}, reply.Choices)
}

func TestRegister_NameTaken(t *testing.T) {
	f := newFixture(t)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrNameTaken)

	_, err := f.svc.Register(context.Background(), testChatID, "Conan")

	assert.ErrorIs(t, err, domain.ErrNameTaken)
}

func TestHandleCommand_BlockedByHealing(t *testing.T) {
	f := newFixture(t)
	actID := "act-heal"
	h := idleHero(templeID)
	h.State = domain.HeroStateHealing
	h.ActivityID = &actID
	f.expectCommand(h)
	f.repo.On("GetActivity", mock.Anything, actID).Return(&domain.Activity{
		ID:        actID,
		HeroID:    testHeroID,
		Kind:      domain.ActivityHealing,
		StartTime: time.Now(),
		Duration:  3 * time.Minute,
	}, nil)

	reply, err := f.svc.HandleCommand(context.Background(), testChatID, ActionTravel)

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "recovering")
	f.tx.AssertNotCalled(t, "UpdateHero", mock.Anything, mock.Anything)
}

func TestHandleCommand_BlockedByRespawn(t *testing.T) {
	f := newFixture(t)
	actID := "act-respawn"
	h := idleHero(villageID)
	h.HPValue = 0
	h.ActivityID = &actID
	f.expectCommand(h)
	f.repo.On("GetActivity", mock.Anything, actID).Return(&domain.Activity{
		ID:        actID,
		HeroID:    testHeroID,
		Kind:      domain.ActivityRespawn,
		StartTime: time.Now(),
		Duration:  10 * time.Second,
	}, nil)

	reply, err := f.svc.HandleCommand(context.Background(), testChatID, ActionTravel)

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "dead")
}

func TestHandleCommand_IdleTravelPrompt(t *testing.T) {
	f := newFixture(t)
	h := idleHero(villageID)
	f.expectCommand(h)
	f.tx.On("UpdateHero", mock.Anything, mock.MatchedBy(func(h *domain.Hero) bool {
		return h.State == domain.HeroStateTravel
	})).Return(nil)

	reply, err := f.svc.HandleCommand(context.Background(), testChatID, ActionTravel)

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Where do you want to go?")
	require.Len(t, reply.Choices, 1)
	assert.ElementsMatch(t, []string{"Dark Forest", "Temple", "Market"}, reply.Choices[0])
}

func TestHandleCommand_IdleInvalidAction(t *testing.T) {
	f := newFixture(t)
	h := idleHero(villageID)
	f.expectCommand(h)

	reply, err := f.svc.HandleCommand(context.Background(), testChatID, "Fly")

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "You can't do Fly from here")
	f.tx.AssertNotCalled(t, "UpdateHero", mock.Anything, mock.Anything)
}

func TestHandleCommand_TravelToFightLocationSchedulesEncounter(t *testing.T) {
	f := newFixture(t)
	h := idleHero(villageID)
	h.State = domain.HeroStateTravel
	f.expectCommand(h)
	f.tx.On("UpdateHero", mock.Anything, mock.MatchedBy(func(h *domain.Hero) bool {
		return h.LocationID == forestID && h.State == domain.HeroStateIdle
	})).Return(nil)
	f.tx.On("DeletePendingFightStarts", mock.Anything, testHeroID).Return(nil)
	f.tx.On("CreateActivity", mock.Anything, mock.MatchedBy(func(act *domain.Activity) bool {
		return act.Kind == domain.ActivityFightStart && act.Duration == domain.FightStartDelay
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Activity).ID = "act-fight"
	}).Return(nil)

	reply, err := f.svc.HandleCommand(context.Background(), testChatID, "Dark Forest")

	require.NoError(t, err)
	assert.Equal(t, [][]string{{ActionLeave}}, reply.Choices)
	require.Len(t, f.sched.scheduled, 1)
	assert.Equal(t, "act-fight", f.sched.scheduled[0].ID)
	assert.Equal(t, domain.ActivityFightStart, f.sched.scheduled[0].Kind)
}

func TestHandleCommand_TravelUnknownDestination(t *testing.T) {
	f := newFixture(t)
	h := idleHero(villageID)
	h.State = domain.HeroStateTravel
	f.expectCommand(h)

	reply, err := f.svc.HandleCommand(context.Background(), testChatID, "Atlantis")

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "You can't travel to Atlantis from here")
	assert.Empty(t, f.sched.scheduled)
}

func TestHandleCommand_HealSchedulesRecovery(t *testing.T) {
	f := newFixture(t)
	h := idleHero(templeID)
	h.HPValue = 40
	f.expectCommand(h)
	f.tx.On("DeletePendingFightStarts", mock.Anything, testHeroID).Return(nil)
	f.tx.On("CreateActivity", mock.Anything, mock.MatchedBy(func(act *domain.Activity) bool {
		// 15*(100-40)/5 = 180 seconds
		return act.Kind == domain.ActivityHealing && act.Duration == 180*time.Second
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Activity).ID = "act-heal"
	}).Return(nil)
	f.tx.On("UpdateHero", mock.Anything, mock.MatchedBy(func(h *domain.Hero) bool {
		return h.State == domain.HeroStateHealing && h.ActivityID != nil && *h.ActivityID == "act-heal"
	})).Return(nil)

	reply, err := f.svc.HandleCommand(context.Background(), testChatID, ActionHeal)

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "180 seconds")
	require.Len(t, f.sched.scheduled, 1)
	assert.Equal(t, domain.ActivityHealing, f.sched.scheduled[0].Kind)
}

func TestHandleCommand_HealAtFullHealth(t *testing.T) {
	f := newFixture(t)
	h := idleHero(templeID)
	f.expectCommand(h)

	reply, err := f.svc.HandleCommand(context.Background(), testChatID, ActionHeal)

	require.NoError(t, err)
	assert.Equal(t, MsgFullHealth, reply.Text)
	assert.Empty(t, f.sched.scheduled)
}

func TestHandleCommand_ShoppingLeave(t *testing.T) {
	f := newFixture(t)
	h := idleHero(marketID)
	h.State = domain.HeroStateShopping
	f.expectCommand(h)
	f.tx.On("UpdateHero", mock.Anything, mock.MatchedBy(func(h *domain.Hero) bool {
		return h.State == domain.HeroStateIdle
	})).Return(nil)

	reply, err := f.svc.HandleCommand(context.Background(), testChatID, ActionLeave)

	require.NoError(t, err)
	assert.Equal(t, [][]string{{ActionShop, ActionTravel}}, reply.Choices)
}

func TestHandleCommand_BuyDelegatesWithoutCommandLock(t *testing.T) {
	f := newFixture(t)
	h := idleHero(marketID)
	h.State = domain.HeroStateShopping
	h.Gold = 70
	f.repo.On("GetByChatID", mock.Anything, testChatID).Return(h, nil)
	f.repo.On("GetByID", mock.Anything, testHeroID).Return(h, nil)

	var boughtTitle string
	f.econ.buy = func(ctx context.Context, heroID string, locationID int64, itemTitle string) (*domain.Item, error) {
		boughtTitle = itemTitle
		assert.Equal(t, testHeroID, heroID)
		assert.Equal(t, marketID, locationID)
		return &domain.Item{ID: swordID, Title: "Rusty Sword"}, nil
	}

	reply, err := f.svc.HandleCommand(context.Background(), testChatID, "Buy 'Rusty Sword'")

	require.NoError(t, err)
	assert.Equal(t, "Rusty Sword", boughtTitle)
	assert.Contains(t, reply.Text, "You bought 'Rusty Sword'")
	// Trades must not open the command transaction
	f.repo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestHandleCommand_BuyOutOfStockInBandReply(t *testing.T) {
	f := newFixture(t)
	h := idleHero(marketID)
	h.State = domain.HeroStateShopping
	f.repo.On("GetByChatID", mock.Anything, testChatID).Return(h, nil)

	f.econ.buy = func(ctx context.Context, heroID string, locationID int64, itemTitle string) (*domain.Item, error) {
		return nil, domain.ErrOutOfStock
	}

	reply, err := f.svc.HandleCommand(context.Background(), testChatID, "Buy 'Rusty Sword'")

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Shop has no item 'Rusty Sword'")
}

func TestCancel_Healing(t *testing.T) {
	f := newFixture(t)
	actID := "act-heal"
	h := idleHero(templeID)
	h.State = domain.HeroStateHealing
	h.HPValue = 40
	h.ActivityID = &actID
	f.repo.On("GetByChatID", mock.Anything, testChatID).Return(h, nil)
	f.repo.On("BeginTx", mock.Anything).Return(nil, nil)
	f.tx.On("GetHeroForUpdate", mock.Anything, testHeroID).Return(h, nil)
	f.tx.On("DeleteActivity", mock.Anything, actID).Return(nil)
	f.tx.On("UpdateHero", mock.Anything, mock.MatchedBy(func(h *domain.Hero) bool {
		// cancelling keeps current HP
		return h.State == domain.HeroStateIdle && h.ActivityID == nil && h.HPValue == 40
	})).Return(nil)
	f.tx.On("Commit", mock.Anything).Return(nil)
	f.tx.On("Rollback", mock.Anything).Return(nil).Maybe()

	reply, err := f.svc.Cancel(context.Background(), testChatID)

	require.NoError(t, err)
	assert.Contains(t, reply.Text, MsgStoppedResting)
	assert.Equal(t, []string{testHeroID}, f.sched.cancelled)
}

func TestCancel_Fight(t *testing.T) {
	f := newFixture(t)
	mobInstID := int64(55)
	h := idleHero(forestID)
	h.State = domain.HeroStateFight
	h.AttackedBy = &mobInstID
	f.repo.On("GetByChatID", mock.Anything, testChatID).Return(h, nil)
	f.repo.On("BeginTx", mock.Anything).Return(nil, nil)
	f.tx.On("GetHeroForUpdate", mock.Anything, testHeroID).Return(h, nil)
	f.tx.On("Rollback", mock.Anything).Return(nil).Maybe()

	reply, err := f.svc.Cancel(context.Background(), testChatID)

	require.NoError(t, err)
	assert.Equal(t, MsgCantCancelFight, reply.Text)
	f.tx.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestStatus_Busy(t *testing.T) {
	f := newFixture(t)
	actID := "act-heal"
	h := idleHero(templeID)
	h.State = domain.HeroStateHealing
	h.HPValue = 40
	h.ActivityID = &actID
	f.repo.On("GetByChatID", mock.Anything, testChatID).Return(h, nil)
	f.repo.On("GetActivity", mock.Anything, actID).Return(&domain.Activity{
		ID:        actID,
		HeroID:    testHeroID,
		Kind:      domain.ActivityHealing,
		StartTime: time.Now(),
		Duration:  time.Minute,
	}, nil)

	view, err := f.svc.Status(context.Background(), testChatID)

	require.NoError(t, err)
	assert.Equal(t, "Temple", view.Location.Name)
	require.NotNil(t, view.Busy)
	assert.Equal(t, domain.ActivityHealing, view.Busy.Kind)
	assert.LessOrEqual(t, view.Busy.RemainingSeconds, 60)
}

// Guard against interface drift between the stub and the real service.
var _ economy.Service = (*stubEconomy)(nil)
