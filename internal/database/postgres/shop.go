package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PixVoxGames/0pg/internal/domain"
	"github.com/PixVoxGames/0pg/internal/repository"
)

// ShopRepository implements the economy repository for PostgreSQL
type ShopRepository struct {
	db *pgxpool.Pool
}

// NewShopRepository creates a new ShopRepository
func NewShopRepository(db *pgxpool.Pool) *ShopRepository {
	return &ShopRepository{db: db}
}

// ShopTx implements repository.ShopTx
type ShopTx struct {
	tx pgx.Tx
}

// BeginTx starts a new transaction
func (r *ShopRepository) BeginTx(ctx context.Context) (repository.ShopTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &ShopTx{tx: tx}, nil
}

// Commit commits the transaction
func (t *ShopTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction
func (t *ShopTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// ListSlots returns the available stock at a shop location
func (r *ShopRepository) ListSlots(ctx context.Context, locationID int64) ([]domain.ShopSlot, error) {
	query := `
		SELECT location_id, item_id, count, price
		FROM shop_slots
		WHERE location_id = $1 AND count > 0
		ORDER BY item_id
	`

	rows, err := r.db.Query(ctx, query, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shop slots: %w", err)
	}
	defer rows.Close()

	var slots []domain.ShopSlot
	for rows.Next() {
		var s domain.ShopSlot
		if err := rows.Scan(&s.LocationID, &s.ItemID, &s.Count, &s.Price); err != nil {
			return nil, fmt.Errorf("failed to scan shop slot: %w", err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return slots, nil
}

// ListOwnedItems returns the hero's inventory grouped by item prototype
func (r *ShopRepository) ListOwnedItems(ctx context.Context, heroID string) ([]domain.OwnedItem, error) {
	return listOwnedItems(ctx, r.db, heroID)
}

// GetHeroForUpdate locks the hero row for the duration of the trade
func (t *ShopTx) GetHeroForUpdate(ctx context.Context, id string) (*domain.Hero, error) {
	hero, err := scanHero(t.tx.QueryRow(ctx,
		`SELECT `+heroColumns+` FROM heroes WHERE hero_id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHeroNotFound
		}
		return nil, fmt.Errorf("failed to lock hero: %w", err)
	}
	return hero, nil
}

// DecrementSlot conditionally takes one unit of stock. The WHERE count > 0
// plus the affected-row check is what prevents lost updates when two
// heroes race for the last unit.
func (t *ShopTx) DecrementSlot(ctx context.Context, locationID, itemID int64) (*domain.ShopSlot, error) {
	query := `
		UPDATE shop_slots
		SET count = count - 1
		WHERE location_id = $1 AND item_id = $2 AND count > 0
		RETURNING location_id, item_id, count, price
	`

	var s domain.ShopSlot
	err := t.tx.QueryRow(ctx, query, locationID, itemID).Scan(&s.LocationID, &s.ItemID, &s.Count, &s.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decrement shop slot: %w", err)
	}
	return &s, nil
}

// DeleteSlotIfEmpty removes a slot whose stock reached zero
func (t *ShopTx) DeleteSlotIfEmpty(ctx context.Context, locationID, itemID int64) error {
	_, err := t.tx.Exec(ctx,
		`DELETE FROM shop_slots WHERE location_id = $1 AND item_id = $2 AND count = 0`,
		locationID, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete empty shop slot: %w", err)
	}
	return nil
}

// UpsertSlot restocks one unit, creating the slot at the given price when absent
func (t *ShopTx) UpsertSlot(ctx context.Context, locationID, itemID int64, price int) error {
	query := `
		INSERT INTO shop_slots (location_id, item_id, count, price)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (location_id, item_id) DO UPDATE SET count = shop_slots.count + 1
	`

	if _, err := t.tx.Exec(ctx, query, locationID, itemID, price); err != nil {
		return fmt.Errorf("failed to upsert shop slot: %w", err)
	}
	return nil
}

// DebitGold conditionally subtracts gold, reporting whether it applied
func (t *ShopTx) DebitGold(ctx context.Context, heroID string, amount int) (bool, error) {
	tag, err := t.tx.Exec(ctx,
		`UPDATE heroes SET gold = gold - $2, updated_at = NOW() WHERE hero_id = $1 AND gold >= $2`,
		heroID, amount)
	if err != nil {
		return false, fmt.Errorf("failed to debit gold: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// CreditGold adds gold to the hero
func (t *ShopTx) CreditGold(ctx context.Context, heroID string, amount int) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE heroes SET gold = gold + $2, updated_at = NOW() WHERE hero_id = $1`,
		heroID, amount)
	if err != nil {
		return fmt.Errorf("failed to credit gold: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrHeroNotFound
	}
	return nil
}

// CreateItemInstance adds a bought item to the hero's inventory
func (t *ShopTx) CreateItemInstance(ctx context.Context, inst *domain.ItemInstance) error {
	return createItemInstance(ctx, t.tx, inst)
}

// FindItemInstance returns one owned instance of the item, or (nil, nil)
func (t *ShopTx) FindItemInstance(ctx context.Context, heroID string, itemID int64) (*domain.ItemInstance, error) {
	query := `
		SELECT item_instance_id, item_id, hero_id, usages_left
		FROM item_instances
		WHERE hero_id = $1 AND item_id = $2
		ORDER BY item_instance_id
		LIMIT 1
	`

	var inst domain.ItemInstance
	err := t.tx.QueryRow(ctx, query, heroID, itemID).
		Scan(&inst.ID, &inst.ItemID, &inst.HeroID, &inst.UsagesLeft)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find item instance: %w", err)
	}
	return &inst, nil
}

// DeleteItemInstance destroys a sold item instance
func (t *ShopTx) DeleteItemInstance(ctx context.Context, id int64) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM item_instances WHERE item_instance_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete item instance: %w", err)
	}
	return nil
}
