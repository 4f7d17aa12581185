package world

import (
	"context"
	"fmt"

	"github.com/PixVoxGames/0pg/internal/domain"
	"github.com/PixVoxGames/0pg/internal/repository"
)

// Snapshot is an immutable in-memory view of world content, built once at
// process start. All runtime reads go through it; admin edits in storage
// are stale until the next restart.
type Snapshot struct {
	locations   map[int64]domain.Location
	locationIDs map[string]int64
	exits       map[int64][]domain.Location
	starts      []domain.Location
	items       map[int64]domain.Item
	itemIDs     map[string]int64
	mobs        map[int64]domain.Mob
	dwells      map[int64][]domain.MobDwell
	drops       map[int64][]domain.MobDrop
	actions     map[domain.LocationType][]string
}

// BuildSnapshot loads all world content from storage into a Snapshot.
// actions is the per-location-type action-set configuration.
func BuildSnapshot(ctx context.Context, repo repository.World, actions map[domain.LocationType][]string) (*Snapshot, error) {
	s := &Snapshot{
		locations:   make(map[int64]domain.Location),
		locationIDs: make(map[string]int64),
		exits:       make(map[int64][]domain.Location),
		items:       make(map[int64]domain.Item),
		itemIDs:     make(map[string]int64),
		mobs:        make(map[int64]domain.Mob),
		dwells:      make(map[int64][]domain.MobDwell),
		drops:       make(map[int64][]domain.MobDrop),
		actions:     actions,
	}

	locations, err := repo.ListLocations(ctx)
	if err != nil {
		return nil, err
	}
	for _, loc := range locations {
		s.locations[loc.ID] = loc
		s.locationIDs[loc.Name] = loc.ID
		if loc.Type == domain.LocationStart {
			s.starts = append(s.starts, loc)
		}
	}
	if len(s.starts) == 0 {
		return nil, fmt.Errorf("world has no START location")
	}

	gateways, err := repo.ListGateways(ctx)
	if err != nil {
		return nil, err
	}
	for _, gw := range gateways {
		to, ok := s.locations[gw.ToID]
		if !ok {
			// disabled destination: the edge exists but leads nowhere
			continue
		}
		s.exits[gw.FromID] = append(s.exits[gw.FromID], to)
	}

	items, err := repo.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		s.items[item.ID] = item
		s.itemIDs[item.Title] = item.ID
	}

	mobs, err := repo.ListMobs(ctx)
	if err != nil {
		return nil, err
	}
	for _, mob := range mobs {
		s.mobs[mob.ID] = mob
	}

	dwells, err := repo.ListMobDwells(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range dwells {
		s.dwells[d.LocationID] = append(s.dwells[d.LocationID], d)
	}

	drops, err := repo.ListMobDrops(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range drops {
		s.drops[d.MobID] = append(s.drops[d.MobID], d)
	}

	return s, nil
}

// Location returns a location by ID
func (s *Snapshot) Location(id int64) (domain.Location, error) {
	loc, ok := s.locations[id]
	if !ok {
		return domain.Location{}, fmt.Errorf("%w: id %d", domain.ErrLocationNotFound, id)
	}
	return loc, nil
}

// LocationByName returns a location by its unique name
func (s *Snapshot) LocationByName(name string) (domain.Location, bool) {
	id, ok := s.locationIDs[name]
	if !ok {
		return domain.Location{}, false
	}
	return s.locations[id], true
}

// ExitsFrom returns the destinations reachable from a location. Travel is
// directional; the reverse edge may not exist.
func (s *Snapshot) ExitsFrom(id int64) []domain.Location {
	return s.exits[id]
}

// RandomStart picks a START-type location using the supplied random draw
func (s *Snapshot) RandomStart(rnd func() float64) domain.Location {
	return s.starts[int(rnd()*float64(len(s.starts)))%len(s.starts)]
}

// Item returns an item prototype by ID
func (s *Snapshot) Item(id int64) (domain.Item, error) {
	item, ok := s.items[id]
	if !ok {
		return domain.Item{}, fmt.Errorf("%w: id %d", domain.ErrUnknownItem, id)
	}
	return item, nil
}

// ItemByTitle returns an item prototype by its unique title
func (s *Snapshot) ItemByTitle(title string) (domain.Item, bool) {
	id, ok := s.itemIDs[title]
	if !ok {
		return domain.Item{}, false
	}
	return s.items[id], true
}

// Mob returns a mob species by ID
func (s *Snapshot) Mob(id int64) (domain.Mob, error) {
	mob, ok := s.mobs[id]
	if !ok {
		return domain.Mob{}, fmt.Errorf("%w: mob id %d", domain.ErrMobNotFound, id)
	}
	return mob, nil
}

// RollMob draws a mob species from the location's dwell table. The dwell
// chances partition [0,1); a draw past the configured total means no
// spawn and returns false.
func (s *Snapshot) RollMob(locationID int64, rnd func() float64) (domain.Mob, bool) {
	dwells := s.dwells[locationID]
	if len(dwells) == 0 {
		return domain.Mob{}, false
	}

	draw := rnd()
	start := 0.0
	for _, dwell := range dwells {
		end := start + dwell.Chance
		if draw >= start && draw < end {
			return s.mobs[dwell.MobID], true
		}
		start = end
	}
	return domain.Mob{}, false
}

// DropsFor returns the configured loot rolls for a mob species
func (s *Snapshot) DropsFor(mobID int64) []domain.MobDrop {
	return s.drops[mobID]
}

// ActionsFor returns the action set offered at a location type
func (s *Snapshot) ActionsFor(t domain.LocationType) []string {
	return s.actions[t]
}
