package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PixVoxGames/0pg/internal/domain"
)

// EventSchemaVersion is the current event schema version.
const EventSchemaVersion = "1.0"

// Type represents the type of an event
type Type string

// Event types emitted by the game engine
const (
	HeroRegistered Type = Type(domain.EventTypeHeroRegistered)
	FightStarted   Type = Type(domain.EventTypeFightStarted)
	MobKilled      Type = Type(domain.EventTypeMobKilled)
	HeroDied       Type = Type(domain.EventTypeHeroDied)
	HeroRespawned  Type = Type(domain.EventTypeHeroRespawned)
	HeroHealed     Type = Type(domain.EventTypeHeroHealed)
	ItemBought     Type = Type(domain.EventTypeItemBought)
	ItemSold       Type = Type(domain.EventTypeItemSold)
)

// Event represents a generic event in the system
type Event struct {
	Version   string      `json:"version"`
	Type      Type        `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp int64       `json:"timestamp"`
}

// Type-safe event constructors

// NewHeroRegisteredEvent creates a hero registration event
func NewHeroRegisteredEvent(heroID, name string, locationID int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    HeroRegistered,
		Payload: domain.HeroPayload{
			HeroID:     heroID,
			Name:       name,
			LocationID: locationID,
		},
		Timestamp: time.Now().Unix(),
	}
}

// NewFightStartedEvent creates a fight start event
func NewFightStartedEvent(heroID string, mobID, locationID int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    FightStarted,
		Payload: domain.FightPayload{
			HeroID:     heroID,
			MobID:      mobID,
			LocationID: locationID,
		},
		Timestamp: time.Now().Unix(),
	}
}

// NewMobKilledEvent creates a mob kill event
func NewMobKilledEvent(heroID string, mobID, locationID int64, xpAwarded int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    MobKilled,
		Payload: domain.FightPayload{
			HeroID:     heroID,
			MobID:      mobID,
			LocationID: locationID,
			XPAwarded:  xpAwarded,
		},
		Timestamp: time.Now().Unix(),
	}
}

// NewHeroDiedEvent creates a hero death event
func NewHeroDiedEvent(heroID string, mobID, locationID int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    HeroDied,
		Payload: domain.FightPayload{
			HeroID:     heroID,
			MobID:      mobID,
			LocationID: locationID,
		},
		Timestamp: time.Now().Unix(),
	}
}

// NewHeroRespawnedEvent creates a respawn event
func NewHeroRespawnedEvent(heroID string, locationID int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    HeroRespawned,
		Payload: domain.HeroPayload{
			HeroID:     heroID,
			LocationID: locationID,
		},
		Timestamp: time.Now().Unix(),
	}
}

// NewHeroHealedEvent creates a healing completion event
func NewHeroHealedEvent(heroID string, locationID int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    HeroHealed,
		Payload: domain.HeroPayload{
			HeroID:     heroID,
			LocationID: locationID,
		},
		Timestamp: time.Now().Unix(),
	}
}

// NewItemBoughtEvent creates a purchase event
func NewItemBoughtEvent(heroID string, itemID, locationID int64, price int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ItemBought,
		Payload: domain.TradePayload{
			HeroID:     heroID,
			ItemID:     itemID,
			LocationID: locationID,
			Price:      price,
		},
		Timestamp: time.Now().Unix(),
	}
}

// NewItemSoldEvent creates a sale event
func NewItemSoldEvent(heroID string, itemID, locationID int64, price int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ItemSold,
		Payload: domain.TradePayload{
			HeroID:     heroID,
			ItemID:     itemID,
			LocationID: locationID,
			Price:      price,
		},
		Timestamp: time.Now().Unix(),
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers. Handlers run synchronously;
// handler errors are collected and returned, publishing continues past them.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("encountered %d errors while handling event %s: %v", len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
