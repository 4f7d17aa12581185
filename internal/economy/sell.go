package economy

import (
	"context"
	"fmt"

	"github.com/PixVoxGames/0pg/internal/domain"
	"github.com/PixVoxGames/0pg/internal/event"
	"github.com/PixVoxGames/0pg/internal/logger"
	"github.com/PixVoxGames/0pg/internal/metrics"
	"github.com/PixVoxGames/0pg/internal/repository"
)

// Sell destroys one owned instance of the item and credits the hero with the
// prototype price. The unit returns to the shop floor: an existing slot gains
// a unit of stock, otherwise a fresh slot appears at the prototype price.
func (s *service) Sell(ctx context.Context, heroID string, locationID int64, itemTitle string) (*domain.Item, int, error) {
	log := logger.FromContext(ctx)
	log.Info("Sell called", "heroID", heroID, "locationID", locationID, "item", itemTitle)

	item, ok := s.snap.ItemByTitle(itemTitle)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", domain.ErrUnknownItem, itemTitle)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	hero, err := tx.GetHeroForUpdate(ctx, heroID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to lock hero: %w", err)
	}
	if hero.State != domain.HeroStateShopping || hero.LocationID != locationID {
		return nil, 0, domain.ErrInvalidAction
	}

	inst, err := tx.FindItemInstance(ctx, heroID, item.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find item instance: %w", err)
	}
	if inst == nil {
		return nil, 0, fmt.Errorf("%w: %s", domain.ErrItemNotOwned, itemTitle)
	}

	if err := tx.DeleteItemInstance(ctx, inst.ID); err != nil {
		return nil, 0, fmt.Errorf("failed to delete item instance: %w", err)
	}

	if err := tx.UpsertSlot(ctx, locationID, item.ID, item.Price); err != nil {
		return nil, 0, fmt.Errorf("failed to restock slot: %w", err)
	}

	if err := tx.CreditGold(ctx, heroID, item.Price); err != nil {
		return nil, 0, fmt.Errorf("failed to credit gold: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	metrics.ItemsSold.WithLabelValues(item.Title).Inc()
	metrics.GoldEarned.Add(float64(item.Price))
	if err := s.bus.Publish(ctx, event.NewItemSoldEvent(heroID, item.ID, locationID, item.Price)); err != nil {
		log.Warn("Failed to publish sale event", "error", err)
	}

	log.Info("Item sold", "heroID", heroID, "item", item.Title, "price", item.Price)
	return &item, item.Price, nil
}
