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

// Buy moves one unit of stock into the hero's inventory for its slot price.
// Stock and gold checks are conditional updates inside one transaction, so a
// failed gold debit rolls back the stock decrement and two heroes racing for
// the last unit serialize on the slot row.
func (s *service) Buy(ctx context.Context, heroID string, locationID int64, itemTitle string) (*domain.Item, error) {
	log := logger.FromContext(ctx)
	log.Info("Buy called", "heroID", heroID, "locationID", locationID, "item", itemTitle)

	item, ok := s.snap.ItemByTitle(itemTitle)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownItem, itemTitle)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	hero, err := tx.GetHeroForUpdate(ctx, heroID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock hero: %w", err)
	}
	if hero.State != domain.HeroStateShopping || hero.LocationID != locationID {
		return nil, domain.ErrInvalidAction
	}

	slot, err := tx.DecrementSlot(ctx, locationID, item.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to take stock: %w", err)
	}
	if slot == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrOutOfStock, itemTitle)
	}

	debited, err := tx.DebitGold(ctx, heroID, slot.Price)
	if err != nil {
		return nil, fmt.Errorf("failed to debit gold: %w", err)
	}
	if !debited {
		// Rollback restores the decremented stock
		return nil, fmt.Errorf("%w: need %d", domain.ErrInsufficientGold, slot.Price)
	}

	inst := domain.ItemInstance{
		ItemID:     item.ID,
		HeroID:     heroID,
		UsagesLeft: item.Usages,
	}
	if err := tx.CreateItemInstance(ctx, &inst); err != nil {
		return nil, fmt.Errorf("failed to create item instance: %w", err)
	}

	if err := tx.DeleteSlotIfEmpty(ctx, locationID, item.ID); err != nil {
		return nil, fmt.Errorf("failed to clean empty slot: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	metrics.ItemsBought.WithLabelValues(item.Title).Inc()
	metrics.GoldSpent.Add(float64(slot.Price))
	if err := s.bus.Publish(ctx, event.NewItemBoughtEvent(heroID, item.ID, locationID, slot.Price)); err != nil {
		log.Warn("Failed to publish purchase event", "error", err)
	}

	log.Info("Item purchased", "heroID", heroID, "item", item.Title, "price", slot.Price)
	return &item, nil
}
