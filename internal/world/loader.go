package world

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/PixVoxGames/0pg/internal/domain"
	"github.com/PixVoxGames/0pg/internal/logger"
	"github.com/PixVoxGames/0pg/internal/repository"
)

// Config represents the world content JSON configuration
type Config struct {
	Actions   map[domain.LocationType][]string `json:"actions" validate:"required,min=1"`
	Locations []LocationDef                    `json:"locations" validate:"required,min=1,dive"`
	Gateways  []GatewayDef                     `json:"gateways" validate:"dive"`
	Items     []ItemDef                        `json:"items" validate:"dive"`
	Mobs      []MobDef                         `json:"mobs" validate:"dive"`
	Dwells    []DwellDef                       `json:"dwells" validate:"dive"`
	Shops     []ShopDef                        `json:"shops" validate:"dive"`
}

// LocationDef is a single location definition
type LocationDef struct {
	Name        string              `json:"name" validate:"required"`
	Type        domain.LocationType `json:"type" validate:"required,oneof=START EMPTY FIGHT HEALING SHOP"`
	Description string              `json:"description"`
	Enabled     *bool               `json:"enabled,omitempty"`
}

// GatewayDef is a directed edge between two location names
type GatewayDef struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

// ItemDef is a single item prototype definition
type ItemDef struct {
	Title  string          `json:"title" validate:"required"`
	Type   domain.ItemType `json:"type" validate:"required,oneof=DAMAGE GUARD HEAL"`
	Value  int             `json:"value" validate:"gte=0"`
	Usages int             `json:"usages" validate:"gt=0"`
	Price  int             `json:"price" validate:"gt=0"`
}

// MobDef is a single mob species definition
type MobDef struct {
	Name           string    `json:"name" validate:"required"`
	HPBase         int       `json:"hp_base" validate:"gt=0"`
	Damage         int       `json:"damage" validate:"gte=0"`
	Critical       int       `json:"critical" validate:"gte=0"`
	CriticalChance float64   `json:"critical_chance" validate:"gte=0,lte=1"`
	Drops          []DropDef `json:"drops" validate:"dive"`
}

// DropDef is one independent loot roll on a mob
type DropDef struct {
	Item   string  `json:"item" validate:"required"`
	Chance float64 `json:"chance" validate:"gt=0,lte=1"`
}

// DwellDef weights which mobs spawn at a fight location
type DwellDef struct {
	Location string     `json:"location" validate:"required"`
	Spawns   []SpawnDef `json:"spawns" validate:"required,min=1,dive"`
}

// SpawnDef is a single weighted spawn entry
type SpawnDef struct {
	Mob    string  `json:"mob" validate:"required"`
	Chance float64 `json:"chance" validate:"gt=0,lte=1"`
}

// ShopDef seeds initial stock at a shop location
type ShopDef struct {
	Location string     `json:"location" validate:"required"`
	Stock    []StockDef `json:"stock" validate:"required,min=1,dive"`
}

// StockDef is a single seeded shop slot
type StockDef struct {
	Item  string `json:"item" validate:"required"`
	Count int    `json:"count" validate:"gt=0"`
	Price int    `json:"price" validate:"gt=0"`
}

// WorldConfigFile is the expected file name inside the config directory
const WorldConfigFile = "world.json"

// Loader handles loading, validating, and syncing world content
type Loader interface {
	Load(dir string) (*Config, error)
	Validate(config *Config) error
	SyncToDatabase(ctx context.Context, config *Config, repo repository.World) error
}

type loader struct {
	validate *validator.Validate
}

// NewLoader creates a new Loader instance
func NewLoader() Loader {
	return &loader{validate: validator.New()}
}

// Load reads and parses the world content JSON file
func (l *loader) Load(dir string) (*Config, error) {
	path := filepath.Join(dir, WorldConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read world config: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse world config: %w", err)
	}
	return &config, nil
}

// Validate checks structural constraints and referential integrity
func (l *loader) Validate(config *Config) error {
	if err := l.validate.Struct(config); err != nil {
		return fmt.Errorf("invalid world config: %w", err)
	}

	locations := make(map[string]domain.LocationType, len(config.Locations))
	for _, loc := range config.Locations {
		if _, dup := locations[loc.Name]; dup {
			return fmt.Errorf("duplicate location %q", loc.Name)
		}
		locations[loc.Name] = loc.Type
	}

	hasStart := false
	for _, t := range locations {
		if t == domain.LocationStart {
			hasStart = true
			break
		}
	}
	if !hasStart {
		return fmt.Errorf("world config needs at least one START location")
	}

	items := make(map[string]struct{}, len(config.Items))
	for _, item := range config.Items {
		if _, dup := items[item.Title]; dup {
			return fmt.Errorf("duplicate item %q", item.Title)
		}
		items[item.Title] = struct{}{}
	}

	mobs := make(map[string]struct{}, len(config.Mobs))
	for _, mob := range config.Mobs {
		if _, dup := mobs[mob.Name]; dup {
			return fmt.Errorf("duplicate mob %q", mob.Name)
		}
		mobs[mob.Name] = struct{}{}
		for _, drop := range mob.Drops {
			if _, ok := items[drop.Item]; !ok {
				return fmt.Errorf("mob %q drops unknown item %q", mob.Name, drop.Item)
			}
		}
	}

	for _, gw := range config.Gateways {
		if _, ok := locations[gw.From]; !ok {
			return fmt.Errorf("gateway from unknown location %q", gw.From)
		}
		if _, ok := locations[gw.To]; !ok {
			return fmt.Errorf("gateway to unknown location %q", gw.To)
		}
		if gw.From == gw.To {
			return fmt.Errorf("gateway %q loops onto itself", gw.From)
		}
	}

	for _, dwell := range config.Dwells {
		locType, ok := locations[dwell.Location]
		if !ok {
			return fmt.Errorf("dwell references unknown location %q", dwell.Location)
		}
		if locType != domain.LocationFight {
			return fmt.Errorf("dwell location %q is not a FIGHT location", dwell.Location)
		}
		total := 0.0
		for _, spawn := range dwell.Spawns {
			if _, ok := mobs[spawn.Mob]; !ok {
				return fmt.Errorf("dwell at %q references unknown mob %q", dwell.Location, spawn.Mob)
			}
			total += spawn.Chance
		}
		if total > 1.0+1e-9 {
			return fmt.Errorf("dwell chances at %q sum to %.3f, must not exceed 1", dwell.Location, total)
		}
	}

	for _, shop := range config.Shops {
		locType, ok := locations[shop.Location]
		if !ok {
			return fmt.Errorf("shop references unknown location %q", shop.Location)
		}
		if locType != domain.LocationShop {
			return fmt.Errorf("shop location %q is not a SHOP location", shop.Location)
		}
		for _, stock := range shop.Stock {
			if _, ok := items[stock.Item]; !ok {
				return fmt.Errorf("shop at %q stocks unknown item %q", shop.Location, stock.Item)
			}
		}
	}

	return nil
}

// SyncToDatabase upserts the config into storage. Location, mob, and item
// rows update in place on changed definitions; shop stock is only seeded
// for slots that do not exist yet.
func (l *loader) SyncToDatabase(ctx context.Context, config *Config, repo repository.World) error {
	log := logger.FromContext(ctx)

	locIDs := make(map[string]int64, len(config.Locations))
	for _, def := range config.Locations {
		enabled := true
		if def.Enabled != nil {
			enabled = *def.Enabled
		}
		loc := domain.Location{
			Type:        def.Type,
			Name:        def.Name,
			Description: def.Description,
			Enabled:     enabled,
		}
		if err := repo.UpsertLocation(ctx, &loc); err != nil {
			return err
		}
		locIDs[def.Name] = loc.ID
	}

	for _, def := range config.Gateways {
		if err := repo.UpsertGateway(ctx, locIDs[def.From], locIDs[def.To]); err != nil {
			return err
		}
	}

	itemIDs := make(map[string]int64, len(config.Items))
	for _, def := range config.Items {
		item := domain.Item{
			Type:   def.Type,
			Title:  def.Title,
			Value:  def.Value,
			Usages: def.Usages,
			Price:  def.Price,
		}
		if err := repo.UpsertItem(ctx, &item); err != nil {
			return err
		}
		itemIDs[def.Title] = item.ID
	}

	mobIDs := make(map[string]int64, len(config.Mobs))
	for _, def := range config.Mobs {
		mob := domain.Mob{
			Name:           def.Name,
			HPBase:         def.HPBase,
			Damage:         def.Damage,
			Critical:       def.Critical,
			CriticalChance: def.CriticalChance,
		}
		if err := repo.UpsertMob(ctx, &mob); err != nil {
			return err
		}
		mobIDs[def.Name] = mob.ID

		drops := make([]domain.MobDrop, 0, len(def.Drops))
		for _, drop := range def.Drops {
			drops = append(drops, domain.MobDrop{
				MobID:  mob.ID,
				ItemID: itemIDs[drop.Item],
				Chance: drop.Chance,
			})
		}
		if err := repo.ReplaceMobDrops(ctx, mob.ID, drops); err != nil {
			return err
		}
	}

	for _, def := range config.Dwells {
		dwells := make([]domain.MobDwell, 0, len(def.Spawns))
		for _, spawn := range def.Spawns {
			dwells = append(dwells, domain.MobDwell{
				LocationID: locIDs[def.Location],
				MobID:      mobIDs[spawn.Mob],
				Chance:     spawn.Chance,
			})
		}
		if err := repo.ReplaceMobDwells(ctx, locIDs[def.Location], dwells); err != nil {
			return err
		}
	}

	for _, shop := range config.Shops {
		for _, stock := range shop.Stock {
			slot := domain.ShopSlot{
				LocationID: locIDs[shop.Location],
				ItemID:     itemIDs[stock.Item],
				Count:      stock.Count,
				Price:      stock.Price,
			}
			if err := repo.SeedShopSlot(ctx, &slot); err != nil {
				return err
			}
		}
	}

	log.Info("World content synced",
		"locations", len(config.Locations),
		"gateways", len(config.Gateways),
		"items", len(config.Items),
		"mobs", len(config.Mobs))
	return nil
}
