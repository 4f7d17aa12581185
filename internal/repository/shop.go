package repository

import (
	"context"

	"github.com/PixVoxGames/0pg/internal/domain"
)

// Shop defines the data access interface for the economy engine.
type Shop interface {
	ListSlots(ctx context.Context, locationID int64) ([]domain.ShopSlot, error)
	ListOwnedItems(ctx context.Context, heroID string) ([]domain.OwnedItem, error)
	BeginTx(ctx context.Context) (ShopTx, error)
}

// ShopTx is the all-or-nothing unit for buy/sell. Stock and gold moves are
// conditional updates checked by affected-row count; a failed gold debit
// rolls the whole unit back, which restores any stock already decremented.
type ShopTx interface {
	Tx
	GetHeroForUpdate(ctx context.Context, id string) (*domain.Hero, error)

	// DecrementSlot takes one unit of stock where count > 0 and returns the
	// slot after the decrement. Returns (nil, nil) when no row qualified.
	DecrementSlot(ctx context.Context, locationID, itemID int64) (*domain.ShopSlot, error)
	DeleteSlotIfEmpty(ctx context.Context, locationID, itemID int64) error
	// UpsertSlot creates the slot with count 1 at the given price, or
	// increments the count of an existing slot (keeping its price).
	UpsertSlot(ctx context.Context, locationID, itemID int64, price int) error

	// DebitGold subtracts amount where the hero still has at least that
	// much, reporting whether the debit applied.
	DebitGold(ctx context.Context, heroID string, amount int) (bool, error)
	CreditGold(ctx context.Context, heroID string, amount int) error

	CreateItemInstance(ctx context.Context, inst *domain.ItemInstance) error
	// FindItemInstance returns any one instance of the item owned by the
	// hero, or (nil, nil) when none exists.
	FindItemInstance(ctx context.Context, heroID string, itemID int64) (*domain.ItemInstance, error)
	DeleteItemInstance(ctx context.Context, id int64) error
}
