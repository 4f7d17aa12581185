// Package economy implements shop trading: buying stock into a hero's
// inventory and selling owned items back to the shop floor.
package economy

import (
	"context"

	"github.com/PixVoxGames/0pg/internal/domain"
	"github.com/PixVoxGames/0pg/internal/event"
	"github.com/PixVoxGames/0pg/internal/logger"
	"github.com/PixVoxGames/0pg/internal/repository"
	"github.com/PixVoxGames/0pg/internal/world"
)

// PriceEntry is one line of a shop's offer, the prototype joined with
// current stock.
type PriceEntry struct {
	Item  domain.Item `json:"item"`
	Count int         `json:"count"`
	Price int         `json:"price"`
}

// Service defines the interface for shop operations. Buy and Sell open
// their own transaction and lock the hero row; callers must not hold a
// lock on the same hero.
type Service interface {
	Buy(ctx context.Context, heroID string, locationID int64, itemTitle string) (*domain.Item, error)
	Sell(ctx context.Context, heroID string, locationID int64, itemTitle string) (*domain.Item, int, error)
	ListPrices(ctx context.Context, locationID int64) ([]PriceEntry, error)
	ListInventory(ctx context.Context, heroID string) ([]domain.OwnedItem, error)
}

type service struct {
	repo repository.Shop
	snap *world.Snapshot
	bus  event.Bus
}

// NewService creates a new economy service
func NewService(repo repository.Shop, snap *world.Snapshot, bus event.Bus) Service {
	return &service{
		repo: repo,
		snap: snap,
		bus:  bus,
	}
}

// ListPrices returns the in-stock offer at a shop location
func (s *service) ListPrices(ctx context.Context, locationID int64) ([]PriceEntry, error) {
	slots, err := s.repo.ListSlots(ctx, locationID)
	if err != nil {
		return nil, err
	}

	entries := make([]PriceEntry, 0, len(slots))
	for _, slot := range slots {
		item, err := s.snap.Item(slot.ItemID)
		if err != nil {
			logger.FromContext(ctx).Warn("Shop slot references unknown item", "itemID", slot.ItemID, "locationID", locationID)
			continue
		}
		entries = append(entries, PriceEntry{Item: item, Count: slot.Count, Price: slot.Price})
	}
	return entries, nil
}

// ListInventory returns the hero's owned items grouped by prototype
func (s *service) ListInventory(ctx context.Context, heroID string) ([]domain.OwnedItem, error) {
	return s.repo.ListOwnedItems(ctx, heroID)
}
