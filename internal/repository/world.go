package repository

import (
	"context"

	"github.com/PixVoxGames/0pg/internal/domain"
)

// World defines the data access interface for world content. Upserts are
// used once at boot to sync JSON config into storage; the List methods
// feed the in-memory snapshot that serves all runtime reads.
type World interface {
	UpsertLocation(ctx context.Context, loc *domain.Location) error
	UpsertGateway(ctx context.Context, fromID, toID int64) error
	UpsertMob(ctx context.Context, mob *domain.Mob) error
	UpsertItem(ctx context.Context, item *domain.Item) error
	ReplaceMobDwells(ctx context.Context, locationID int64, dwells []domain.MobDwell) error
	ReplaceMobDrops(ctx context.Context, mobID int64, drops []domain.MobDrop) error
	// SeedShopSlot inserts initial stock only when the slot does not exist,
	// so restarts never clobber live counts.
	SeedShopSlot(ctx context.Context, slot *domain.ShopSlot) error

	ListLocations(ctx context.Context) ([]domain.Location, error)
	ListGateways(ctx context.Context) ([]domain.Gateway, error)
	ListMobs(ctx context.Context) ([]domain.Mob, error)
	ListMobDwells(ctx context.Context) ([]domain.MobDwell, error)
	ListMobDrops(ctx context.Context) ([]domain.MobDrop, error)
	ListItems(ctx context.Context) ([]domain.Item, error)
}
