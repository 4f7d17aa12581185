package hero

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/PixVoxGames/0pg/internal/domain"
	"github.com/PixVoxGames/0pg/internal/economy"
	"github.com/PixVoxGames/0pg/internal/repository"
)

// MockHeroRepo implements repository.Hero for testing
type MockHeroRepo struct {
	mock.Mock
	tx *MockHeroTx
}

func (m *MockHeroRepo) Create(ctx context.Context, hero *domain.Hero) error {
	return m.Called(ctx, hero).Error(0)
}

func (m *MockHeroRepo) GetByID(ctx context.Context, id string) (*domain.Hero, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hero), args.Error(1)
}

func (m *MockHeroRepo) GetByChatID(ctx context.Context, chatID int64) (*domain.Hero, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hero), args.Error(1)
}

func (m *MockHeroRepo) GetActivity(ctx context.Context, id string) (*domain.Activity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Activity), args.Error(1)
}

func (m *MockHeroRepo) GetMobInstance(ctx context.Context, id int64) (*domain.MobInstance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MobInstance), args.Error(1)
}

func (m *MockHeroRepo) ListOwnedItems(ctx context.Context, heroID string) ([]domain.OwnedItem, error) {
	args := m.Called(ctx, heroID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OwnedItem), args.Error(1)
}

func (m *MockHeroRepo) BeginTx(ctx context.Context) (repository.HeroTx, error) {
	args := m.Called(ctx)
	if m.tx != nil {
		return m.tx, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockHeroTx implements repository.HeroTx for testing
type MockHeroTx struct {
	mock.Mock
}

func (m *MockHeroTx) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockHeroTx) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockHeroTx) GetHeroForUpdate(ctx context.Context, id string) (*domain.Hero, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hero), args.Error(1)
}

func (m *MockHeroTx) UpdateHero(ctx context.Context, hero *domain.Hero) error {
	return m.Called(ctx, hero).Error(0)
}

func (m *MockHeroTx) CreateMobInstance(ctx context.Context, inst *domain.MobInstance) error {
	return m.Called(ctx, inst).Error(0)
}

func (m *MockHeroTx) GetMobInstance(ctx context.Context, id int64) (*domain.MobInstance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MobInstance), args.Error(1)
}

func (m *MockHeroTx) UpdateMobInstanceHP(ctx context.Context, id int64, hpValue int) error {
	return m.Called(ctx, id, hpValue).Error(0)
}

func (m *MockHeroTx) DeleteMobInstance(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockHeroTx) CreateItemInstance(ctx context.Context, inst *domain.ItemInstance) error {
	return m.Called(ctx, inst).Error(0)
}

func (m *MockHeroTx) CreateActivity(ctx context.Context, act *domain.Activity) error {
	return m.Called(ctx, act).Error(0)
}

func (m *MockHeroTx) DeleteActivity(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockHeroTx) DeletePendingFightStarts(ctx context.Context, heroID string) error {
	return m.Called(ctx, heroID).Error(0)
}

// stubEconomy implements economy.Service with function fields
type stubEconomy struct {
	buy    func(ctx context.Context, heroID string, locationID int64, itemTitle string) (*domain.Item, error)
	sell   func(ctx context.Context, heroID string, locationID int64, itemTitle string) (*domain.Item, int, error)
	prices []economy.PriceEntry
	owned  []domain.OwnedItem
}

func (e *stubEconomy) Buy(ctx context.Context, heroID string, locationID int64, itemTitle string) (*domain.Item, error) {
	return e.buy(ctx, heroID, locationID, itemTitle)
}

func (e *stubEconomy) Sell(ctx context.Context, heroID string, locationID int64, itemTitle string) (*domain.Item, int, error) {
	return e.sell(ctx, heroID, locationID, itemTitle)
}

func (e *stubEconomy) ListPrices(ctx context.Context, locationID int64) ([]economy.PriceEntry, error) {
	return e.prices, nil
}

func (e *stubEconomy) ListInventory(ctx context.Context, heroID string) ([]domain.OwnedItem, error) {
	return e.owned, nil
}

// stubScheduler records scheduled and cancelled activities
type stubScheduler struct {
	mu        sync.Mutex
	scheduled []domain.Activity
	cancelled []string
}

func (s *stubScheduler) Schedule(act domain.Activity) {
	s.mu.Lock()
	s.scheduled = append(s.scheduled, act)
	s.mu.Unlock()
}

func (s *stubScheduler) Cancel(heroID string) {
	s.mu.Lock()
	s.cancelled = append(s.cancelled, heroID)
	s.mu.Unlock()
}

// stubNotifier records pushed replies
type stubNotifier struct {
	mu      sync.Mutex
	chatIDs []int64
	replies []domain.Reply
}

func (n *stubNotifier) Notify(ctx context.Context, chatID int64, reply domain.Reply) {
	n.mu.Lock()
	n.chatIDs = append(n.chatIDs, chatID)
	n.replies = append(n.replies, reply)
	n.mu.Unlock()
}
