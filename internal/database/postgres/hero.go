package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PixVoxGames/0pg/internal/domain"
	"github.com/PixVoxGames/0pg/internal/repository"
)

// HeroRepository implements the hero repository for PostgreSQL
type HeroRepository struct {
	db *pgxpool.Pool
}

// NewHeroRepository creates a new HeroRepository
func NewHeroRepository(db *pgxpool.Pool) *HeroRepository {
	return &HeroRepository{db: db}
}

// HeroTx implements repository.HeroTx
type HeroTx struct {
	tx pgx.Tx
}

// BeginTx starts a new transaction
func (r *HeroRepository) BeginTx(ctx context.Context) (repository.HeroTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &HeroTx{tx: tx}, nil
}

// Commit commits the transaction
func (t *HeroTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction
func (t *HeroTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

const heroColumns = `hero_id, hero_name, chat_id, location_id, state, activity_id, attacked_by,
		gold, xp, hp_base, hp_value, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHero(row rowScanner) (*domain.Hero, error) {
	var h domain.Hero
	err := row.Scan(
		&h.ID,
		&h.Name,
		&h.ChatID,
		&h.LocationID,
		&h.State,
		&h.ActivityID,
		&h.AttackedBy,
		&h.Gold,
		&h.XP,
		&h.HPBase,
		&h.HPValue,
		&h.CreatedAt,
		&h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// Create inserts a new hero, assigning its ID. Unique violations map to
// the registration errors the state machine surfaces to the player.
func (r *HeroRepository) Create(ctx context.Context, hero *domain.Hero) error {
	query := `
		INSERT INTO heroes (hero_name, chat_id, location_id, state, gold, xp, hp_base, hp_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING hero_id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		hero.Name, hero.ChatID, hero.LocationID, hero.State,
		hero.Gold, hero.XP, hero.HPBase, hero.HPValue,
	).Scan(&hero.ID, &hero.CreatedAt, &hero.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "heroes_hero_name_key") {
			return domain.ErrNameTaken
		}
		if isUniqueViolation(err, "heroes_chat_id_key") {
			return domain.ErrAlreadyRegistered
		}
		return fmt.Errorf("failed to create hero: %w", err)
	}
	return nil
}

// GetByID retrieves a hero by its ID
func (r *HeroRepository) GetByID(ctx context.Context, id string) (*domain.Hero, error) {
	query := `SELECT ` + heroColumns + ` FROM heroes WHERE hero_id = $1`

	hero, err := scanHero(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHeroNotFound
		}
		return nil, fmt.Errorf("failed to get hero: %w", err)
	}
	return hero, nil
}

// GetByChatID retrieves a hero by its chat identity
func (r *HeroRepository) GetByChatID(ctx context.Context, chatID int64) (*domain.Hero, error) {
	query := `SELECT ` + heroColumns + ` FROM heroes WHERE chat_id = $1`

	hero, err := scanHero(r.db.QueryRow(ctx, query, chatID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHeroNotFound
		}
		return nil, fmt.Errorf("failed to get hero by chat id: %w", err)
	}
	return hero, nil
}

// GetActivity retrieves an activity by ID
func (r *HeroRepository) GetActivity(ctx context.Context, id string) (*domain.Activity, error) {
	return getActivity(ctx, r.db, id)
}

// GetMobInstance retrieves a mob instance by ID
func (r *HeroRepository) GetMobInstance(ctx context.Context, id int64) (*domain.MobInstance, error) {
	return getMobInstance(ctx, r.db, id)
}

// ListOwnedItems returns the hero's inventory grouped by item prototype
func (r *HeroRepository) ListOwnedItems(ctx context.Context, heroID string) ([]domain.OwnedItem, error) {
	return listOwnedItems(ctx, r.db, heroID)
}

// GetHeroForUpdate locks and returns the latest persisted hero row. Every
// mutation re-reads through this before applying effects.
func (t *HeroTx) GetHeroForUpdate(ctx context.Context, id string) (*domain.Hero, error) {
	query := `SELECT ` + heroColumns + ` FROM heroes WHERE hero_id = $1 FOR UPDATE`

	hero, err := scanHero(t.tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHeroNotFound
		}
		return nil, fmt.Errorf("failed to lock hero: %w", err)
	}
	return hero, nil
}

// UpdateHero persists all mutable hero fields
func (t *HeroTx) UpdateHero(ctx context.Context, hero *domain.Hero) error {
	query := `
		UPDATE heroes
		SET location_id = $2, state = $3, activity_id = $4, attacked_by = $5,
			gold = $6, xp = $7, hp_base = $8, hp_value = $9, updated_at = NOW()
		WHERE hero_id = $1
	`

	tag, err := t.tx.Exec(ctx, query,
		hero.ID, hero.LocationID, hero.State, hero.ActivityID, hero.AttackedBy,
		hero.Gold, hero.XP, hero.HPBase, hero.HPValue,
	)
	if err != nil {
		return fmt.Errorf("failed to update hero: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrHeroNotFound
	}
	return nil
}

// CreateMobInstance spawns a mob instance, assigning its ID
func (t *HeroTx) CreateMobInstance(ctx context.Context, inst *domain.MobInstance) error {
	query := `INSERT INTO mob_instances (mob_id, hp_value) VALUES ($1, $2) RETURNING mob_instance_id`

	if err := t.tx.QueryRow(ctx, query, inst.MobID, inst.HPValue).Scan(&inst.ID); err != nil {
		return fmt.Errorf("failed to create mob instance: %w", err)
	}
	return nil
}

// GetMobInstance retrieves a mob instance within the transaction
func (t *HeroTx) GetMobInstance(ctx context.Context, id int64) (*domain.MobInstance, error) {
	return getMobInstance(ctx, t.tx, id)
}

// UpdateMobInstanceHP persists a mob instance's remaining HP
func (t *HeroTx) UpdateMobInstanceHP(ctx context.Context, id int64, hpValue int) error {
	tag, err := t.tx.Exec(ctx, `UPDATE mob_instances SET hp_value = $2 WHERE mob_instance_id = $1`, id, hpValue)
	if err != nil {
		return fmt.Errorf("failed to update mob instance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMobNotFound
	}
	return nil
}

// DeleteMobInstance destroys a mob instance (kill or flee)
func (t *HeroTx) DeleteMobInstance(ctx context.Context, id int64) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM mob_instances WHERE mob_instance_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete mob instance: %w", err)
	}
	return nil
}

// CreateItemInstance adds a dropped item to the hero's inventory
func (t *HeroTx) CreateItemInstance(ctx context.Context, inst *domain.ItemInstance) error {
	return createItemInstance(ctx, t.tx, inst)
}

// CreateActivity persists a scheduled activity, assigning its ID when unset
func (t *HeroTx) CreateActivity(ctx context.Context, act *domain.Activity) error {
	if act.ID == "" {
		act.ID = uuid.NewString()
	}
	query := `
		INSERT INTO activities (activity_id, hero_id, kind, start_time, duration_seconds)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := t.tx.Exec(ctx, query, act.ID, act.HeroID, act.Kind, act.StartTime, act.Duration.Seconds())
	if err != nil {
		if isUniqueViolation(err, "activities_hero_idx") {
			return domain.ErrActivityPending
		}
		return fmt.Errorf("failed to create activity: %w", err)
	}
	return nil
}

// DeleteActivity removes a fired or cancelled activity row
func (t *HeroTx) DeleteActivity(ctx context.Context, id string) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM activities WHERE activity_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return nil
}

// DeletePendingFightStarts clears queued encounters when the hero moves on
func (t *HeroTx) DeletePendingFightStarts(ctx context.Context, heroID string) error {
	_, err := t.tx.Exec(ctx,
		`DELETE FROM activities WHERE hero_id = $1 AND kind = $2`, heroID, domain.ActivityFightStart)
	if err != nil {
		return fmt.Errorf("failed to delete pending fight starts: %w", err)
	}
	return nil
}

func getMobInstance(ctx context.Context, q interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}, id int64) (*domain.MobInstance, error) {
	var inst domain.MobInstance
	err := q.QueryRow(ctx,
		`SELECT mob_instance_id, mob_id, hp_value FROM mob_instances WHERE mob_instance_id = $1`, id).
		Scan(&inst.ID, &inst.MobID, &inst.HPValue)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMobNotFound
		}
		return nil, fmt.Errorf("failed to get mob instance: %w", err)
	}
	return &inst, nil
}

func getActivity(ctx context.Context, q interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}, id string) (*domain.Activity, error) {
	var act domain.Activity
	var seconds float64
	err := q.QueryRow(ctx,
		`SELECT activity_id, hero_id, kind, start_time, duration_seconds FROM activities WHERE activity_id = $1`, id).
		Scan(&act.ID, &act.HeroID, &act.Kind, &act.StartTime, &seconds)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStaleActivity
		}
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	act.Duration = time.Duration(seconds * float64(time.Second))
	return &act, nil
}

func listOwnedItems(ctx context.Context, q interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}, heroID string) ([]domain.OwnedItem, error) {
	query := `
		SELECT i.item_id, i.item_type, i.title, i.item_value, i.usages, i.price, COUNT(*)
		FROM item_instances inst
		JOIN items i ON i.item_id = inst.item_id
		WHERE inst.hero_id = $1
		GROUP BY i.item_id, i.item_type, i.title, i.item_value, i.usages, i.price
		ORDER BY i.title
	`

	rows, err := q.Query(ctx, query, heroID)
	if err != nil {
		return nil, fmt.Errorf("failed to query owned items: %w", err)
	}
	defer rows.Close()

	var owned []domain.OwnedItem
	for rows.Next() {
		var o domain.OwnedItem
		if err := rows.Scan(&o.Item.ID, &o.Item.Type, &o.Item.Title, &o.Item.Value,
			&o.Item.Usages, &o.Item.Price, &o.Count); err != nil {
			return nil, fmt.Errorf("failed to scan owned item: %w", err)
		}
		owned = append(owned, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return owned, nil
}

func createItemInstance(ctx context.Context, q interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}, inst *domain.ItemInstance) error {
	query := `
		INSERT INTO item_instances (item_id, hero_id, usages_left)
		VALUES ($1, $2, $3)
		RETURNING item_instance_id
	`

	if err := q.QueryRow(ctx, query, inst.ItemID, inst.HeroID, inst.UsagesLeft).Scan(&inst.ID); err != nil {
		return fmt.Errorf("failed to create item instance: %w", err)
	}
	return nil
}
