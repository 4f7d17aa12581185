// Package worldtest builds in-memory world snapshots for tests.
package worldtest

import (
	"context"
	"testing"

	"github.com/PixVoxGames/0pg/internal/domain"
	"github.com/PixVoxGames/0pg/internal/world"
)

// Content is the world definition a test wants to run against.
type Content struct {
	Locations []domain.Location
	Gateways  []domain.Gateway
	Mobs      []domain.Mob
	Dwells    []domain.MobDwell
	Drops     []domain.MobDrop
	Items     []domain.Item
	Actions   map[domain.LocationType][]string
}

type stubRepo struct {
	c Content
}

func (r *stubRepo) UpsertLocation(ctx context.Context, loc *domain.Location) error { return nil }
func (r *stubRepo) UpsertGateway(ctx context.Context, fromID, toID int64) error    { return nil }
func (r *stubRepo) UpsertMob(ctx context.Context, mob *domain.Mob) error           { return nil }
func (r *stubRepo) UpsertItem(ctx context.Context, item *domain.Item) error        { return nil }
func (r *stubRepo) ReplaceMobDwells(ctx context.Context, locationID int64, dwells []domain.MobDwell) error {
	return nil
}
func (r *stubRepo) ReplaceMobDrops(ctx context.Context, mobID int64, drops []domain.MobDrop) error {
	return nil
}
func (r *stubRepo) SeedShopSlot(ctx context.Context, slot *domain.ShopSlot) error { return nil }

func (r *stubRepo) ListLocations(ctx context.Context) ([]domain.Location, error) {
	return r.c.Locations, nil
}
func (r *stubRepo) ListGateways(ctx context.Context) ([]domain.Gateway, error) {
	return r.c.Gateways, nil
}
func (r *stubRepo) ListMobs(ctx context.Context) ([]domain.Mob, error) { return r.c.Mobs, nil }
func (r *stubRepo) ListMobDwells(ctx context.Context) ([]domain.MobDwell, error) {
	return r.c.Dwells, nil
}
func (r *stubRepo) ListMobDrops(ctx context.Context) ([]domain.MobDrop, error) {
	return r.c.Drops, nil
}
func (r *stubRepo) ListItems(ctx context.Context) ([]domain.Item, error) { return r.c.Items, nil }

// Snapshot builds a world snapshot from in-memory content. The content
// must include at least one START location.
func Snapshot(tb testing.TB, c Content) *world.Snapshot {
	tb.Helper()

	if c.Actions == nil {
		c.Actions = map[domain.LocationType][]string{
			domain.LocationStart:   {"Travel"},
			domain.LocationEmpty:   {"Travel"},
			domain.LocationFight:   {"Travel"},
			domain.LocationHealing: {"Heal", "Travel"},
			domain.LocationShop:    {"Shop", "Travel"},
		}
	}

	snap, err := world.BuildSnapshot(context.Background(), &stubRepo{c: c}, c.Actions)
	if err != nil {
		tb.Fatalf("failed to build snapshot: %v", err)
	}
	return snap
}
