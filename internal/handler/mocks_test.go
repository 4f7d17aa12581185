package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/PixVoxGames/0pg/internal/domain"
	"github.com/PixVoxGames/0pg/internal/hero"
)

// MockHeroService implements hero.Service for testing
type MockHeroService struct {
	mock.Mock
}

func (m *MockHeroService) Register(ctx context.Context, chatID int64, name string) (domain.Reply, error) {
	args := m.Called(ctx, chatID, name)
	return args.Get(0).(domain.Reply), args.Error(1)
}

func (m *MockHeroService) HandleCommand(ctx context.Context, chatID int64, text string) (domain.Reply, error) {
	args := m.Called(ctx, chatID, text)
	return args.Get(0).(domain.Reply), args.Error(1)
}

func (m *MockHeroService) Cancel(ctx context.Context, chatID int64) (domain.Reply, error) {
	args := m.Called(ctx, chatID)
	return args.Get(0).(domain.Reply), args.Error(1)
}

func (m *MockHeroService) Status(ctx context.Context, chatID int64) (*hero.StatusView, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hero.StatusView), args.Error(1)
}

func (m *MockHeroService) Inventory(ctx context.Context, chatID int64) ([]domain.OwnedItem, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OwnedItem), args.Error(1)
}

func (m *MockHeroService) FireActivity(ctx context.Context, act domain.Activity) error {
	return m.Called(ctx, act).Error(0)
}
