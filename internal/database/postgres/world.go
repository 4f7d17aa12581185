package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PixVoxGames/0pg/internal/domain"
)

// WorldRepository implements the world content repository for PostgreSQL
type WorldRepository struct {
	db *pgxpool.Pool
}

// NewWorldRepository creates a new WorldRepository
func NewWorldRepository(db *pgxpool.Pool) *WorldRepository {
	return &WorldRepository{db: db}
}

// UpsertLocation inserts or updates a location keyed by its unique name,
// assigning loc.ID either way
func (r *WorldRepository) UpsertLocation(ctx context.Context, loc *domain.Location) error {
	query := `
		INSERT INTO locations (location_type, location_name, description, group_id, enabled)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (location_name) DO UPDATE
		SET location_type = EXCLUDED.location_type,
			description = EXCLUDED.description,
			group_id = EXCLUDED.group_id,
			enabled = EXCLUDED.enabled
		RETURNING location_id
	`

	err := r.db.QueryRow(ctx, query, loc.Type, loc.Name, loc.Description, loc.GroupID, loc.Enabled).
		Scan(&loc.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert location %q: %w", loc.Name, err)
	}
	return nil
}

// UpsertGateway inserts a directed edge if it does not already exist
func (r *WorldRepository) UpsertGateway(ctx context.Context, fromID, toID int64) error {
	query := `
		INSERT INTO gateways (from_location, to_location)
		VALUES ($1, $2)
		ON CONFLICT (from_location, to_location) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, fromID, toID); err != nil {
		return fmt.Errorf("failed to upsert gateway %d->%d: %w", fromID, toID, err)
	}
	return nil
}

// UpsertMob inserts or updates a mob species keyed by name, assigning mob.ID
func (r *WorldRepository) UpsertMob(ctx context.Context, mob *domain.Mob) error {
	query := `
		INSERT INTO mobs (mob_name, hp_base, damage, critical, critical_chance)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (mob_name) DO UPDATE
		SET hp_base = EXCLUDED.hp_base,
			damage = EXCLUDED.damage,
			critical = EXCLUDED.critical,
			critical_chance = EXCLUDED.critical_chance
		RETURNING mob_id
	`

	err := r.db.QueryRow(ctx, query, mob.Name, mob.HPBase, mob.Damage, mob.Critical, mob.CriticalChance).
		Scan(&mob.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert mob %q: %w", mob.Name, err)
	}
	return nil
}

// UpsertItem inserts or updates an item prototype keyed by title, assigning item.ID
func (r *WorldRepository) UpsertItem(ctx context.Context, item *domain.Item) error {
	query := `
		INSERT INTO items (item_type, title, item_value, usages, price)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (title) DO UPDATE
		SET item_type = EXCLUDED.item_type,
			item_value = EXCLUDED.item_value,
			usages = EXCLUDED.usages,
			price = EXCLUDED.price
		RETURNING item_id
	`

	err := r.db.QueryRow(ctx, query, item.Type, item.Title, item.Value, item.Usages, item.Price).
		Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert item %q: %w", item.Title, err)
	}
	return nil
}

// ReplaceMobDwells swaps out the full dwell table for a location
func (r *WorldRepository) ReplaceMobDwells(ctx context.Context, locationID int64, dwells []domain.MobDwell) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM mob_dwells WHERE location_id = $1`, locationID); err != nil {
		return fmt.Errorf("failed to clear mob dwells: %w", err)
	}
	for _, d := range dwells {
		_, err := tx.Exec(ctx,
			`INSERT INTO mob_dwells (location_id, mob_id, chance) VALUES ($1, $2, $3)`,
			locationID, d.MobID, d.Chance)
		if err != nil {
			return fmt.Errorf("failed to insert mob dwell: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// ReplaceMobDrops swaps out the full drop table for a mob species
func (r *WorldRepository) ReplaceMobDrops(ctx context.Context, mobID int64, drops []domain.MobDrop) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM mob_drops WHERE mob_id = $1`, mobID); err != nil {
		return fmt.Errorf("failed to clear mob drops: %w", err)
	}
	for _, d := range drops {
		_, err := tx.Exec(ctx,
			`INSERT INTO mob_drops (mob_id, item_id, chance) VALUES ($1, $2, $3)`,
			mobID, d.ItemID, d.Chance)
		if err != nil {
			return fmt.Errorf("failed to insert mob drop: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// SeedShopSlot inserts initial stock only when the slot does not exist yet,
// so a restart never resets live stock counts
func (r *WorldRepository) SeedShopSlot(ctx context.Context, slot *domain.ShopSlot) error {
	query := `
		INSERT INTO shop_slots (location_id, item_id, count, price)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (location_id, item_id) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, slot.LocationID, slot.ItemID, slot.Count, slot.Price); err != nil {
		return fmt.Errorf("failed to seed shop slot: %w", err)
	}
	return nil
}

// ListLocations returns all enabled locations
func (r *WorldRepository) ListLocations(ctx context.Context) ([]domain.Location, error) {
	query := `
		SELECT location_id, location_type, location_name, description, group_id, enabled
		FROM locations
		WHERE enabled
		ORDER BY location_id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	var locs []domain.Location
	for rows.Next() {
		var l domain.Location
		if err := rows.Scan(&l.ID, &l.Type, &l.Name, &l.Description, &l.GroupID, &l.Enabled); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locs = append(locs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return locs, nil
}

// ListGateways returns all directed edges
func (r *WorldRepository) ListGateways(ctx context.Context) ([]domain.Gateway, error) {
	rows, err := r.db.Query(ctx, `SELECT from_location, to_location, condition FROM gateways`)
	if err != nil {
		return nil, fmt.Errorf("failed to query gateways: %w", err)
	}
	defer rows.Close()

	var gws []domain.Gateway
	for rows.Next() {
		var g domain.Gateway
		if err := rows.Scan(&g.FromID, &g.ToID, &g.Condition); err != nil {
			return nil, fmt.Errorf("failed to scan gateway: %w", err)
		}
		gws = append(gws, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return gws, nil
}

// ListMobs returns all mob species
func (r *WorldRepository) ListMobs(ctx context.Context) ([]domain.Mob, error) {
	rows, err := r.db.Query(ctx,
		`SELECT mob_id, mob_name, hp_base, damage, critical, critical_chance FROM mobs ORDER BY mob_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query mobs: %w", err)
	}
	defer rows.Close()

	var mobs []domain.Mob
	for rows.Next() {
		var m domain.Mob
		if err := rows.Scan(&m.ID, &m.Name, &m.HPBase, &m.Damage, &m.Critical, &m.CriticalChance); err != nil {
			return nil, fmt.Errorf("failed to scan mob: %w", err)
		}
		mobs = append(mobs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return mobs, nil
}

// ListMobDwells returns the full dwell table
func (r *WorldRepository) ListMobDwells(ctx context.Context) ([]domain.MobDwell, error) {
	rows, err := r.db.Query(ctx, `SELECT location_id, mob_id, chance FROM mob_dwells`)
	if err != nil {
		return nil, fmt.Errorf("failed to query mob dwells: %w", err)
	}
	defer rows.Close()

	var dwells []domain.MobDwell
	for rows.Next() {
		var d domain.MobDwell
		if err := rows.Scan(&d.LocationID, &d.MobID, &d.Chance); err != nil {
			return nil, fmt.Errorf("failed to scan mob dwell: %w", err)
		}
		dwells = append(dwells, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return dwells, nil
}

// ListMobDrops returns the full drop table
func (r *WorldRepository) ListMobDrops(ctx context.Context) ([]domain.MobDrop, error) {
	rows, err := r.db.Query(ctx, `SELECT mob_id, item_id, chance FROM mob_drops`)
	if err != nil {
		return nil, fmt.Errorf("failed to query mob drops: %w", err)
	}
	defer rows.Close()

	var drops []domain.MobDrop
	for rows.Next() {
		var d domain.MobDrop
		if err := rows.Scan(&d.MobID, &d.ItemID, &d.Chance); err != nil {
			return nil, fmt.Errorf("failed to scan mob drop: %w", err)
		}
		drops = append(drops, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return drops, nil
}

// ListItems returns all item prototypes
func (r *WorldRepository) ListItems(ctx context.Context) ([]domain.Item, error) {
	rows, err := r.db.Query(ctx,
		`SELECT item_id, item_type, title, item_value, usages, price FROM items ORDER BY item_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var i domain.Item
		if err := rows.Scan(&i.ID, &i.Type, &i.Title, &i.Value, &i.Usages, &i.Price); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}
