package economy

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/PixVoxGames/0pg/internal/domain"
	"github.com/PixVoxGames/0pg/internal/repository"
)

// MockShopRepo implements repository.Shop for testing
type MockShopRepo struct {
	mock.Mock
	tx *MockShopTx
}

func (m *MockShopRepo) ListSlots(ctx context.Context, locationID int64) ([]domain.ShopSlot, error) {
	args := m.Called(ctx, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShopSlot), args.Error(1)
}

func (m *MockShopRepo) ListOwnedItems(ctx context.Context, heroID string) ([]domain.OwnedItem, error) {
	args := m.Called(ctx, heroID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OwnedItem), args.Error(1)
}

func (m *MockShopRepo) BeginTx(ctx context.Context) (repository.ShopTx, error) {
	args := m.Called(ctx)
	if m.tx != nil {
		return m.tx, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockShopTx implements repository.ShopTx for testing
type MockShopTx struct {
	mock.Mock
}

func (m *MockShopTx) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockShopTx) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockShopTx) GetHeroForUpdate(ctx context.Context, id string) (*domain.Hero, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hero), args.Error(1)
}

func (m *MockShopTx) DecrementSlot(ctx context.Context, locationID, itemID int64) (*domain.ShopSlot, error) {
	args := m.Called(ctx, locationID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShopSlot), args.Error(1)
}

func (m *MockShopTx) DeleteSlotIfEmpty(ctx context.Context, locationID, itemID int64) error {
	return m.Called(ctx, locationID, itemID).Error(0)
}

func (m *MockShopTx) UpsertSlot(ctx context.Context, locationID, itemID int64, price int) error {
	return m.Called(ctx, locationID, itemID, price).Error(0)
}

func (m *MockShopTx) DebitGold(ctx context.Context, heroID string, amount int) (bool, error) {
	args := m.Called(ctx, heroID, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockShopTx) CreditGold(ctx context.Context, heroID string, amount int) error {
	return m.Called(ctx, heroID, amount).Error(0)
}

func (m *MockShopTx) CreateItemInstance(ctx context.Context, inst *domain.ItemInstance) error {
	return m.Called(ctx, inst).Error(0)
}

func (m *MockShopTx) FindItemInstance(ctx context.Context, heroID string, itemID int64) (*domain.ItemInstance, error) {
	args := m.Called(ctx, heroID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ItemInstance), args.Error(1)
}

func (m *MockShopTx) DeleteItemInstance(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
