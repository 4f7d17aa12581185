// Package hero implements the hero state machine: command dispatch by
// state, timed activities, combat rounds and the transitions between
// them. All mutations for one hero serialize on the hero row lock.
package hero

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/PixVoxGames/0pg/internal/domain"
	"github.com/PixVoxGames/0pg/internal/economy"
	"github.com/PixVoxGames/0pg/internal/event"
	"github.com/PixVoxGames/0pg/internal/logger"
	"github.com/PixVoxGames/0pg/internal/metrics"
	"github.com/PixVoxGames/0pg/internal/notify"
	"github.com/PixVoxGames/0pg/internal/repository"
	"github.com/PixVoxGames/0pg/internal/world"
)

// Scheduler arms and cancels activity timers. Satisfied by
// activity.Scheduler.
type Scheduler interface {
	Schedule(act domain.Activity)
	Cancel(heroID string)
}

// StatusView is the hero summary returned by Status.
type StatusView struct {
	Hero     domain.Hero     `json:"hero"`
	Level    int             `json:"level"`
	Location domain.Location `json:"location"`
	Busy     *BusyInfo       `json:"busy,omitempty"`
}

// BusyInfo describes a pending blocking activity.
type BusyInfo struct {
	Kind             domain.ActivityKind `json:"kind"`
	RemainingSeconds int                 `json:"remaining_seconds"`
}

// Service defines the interface for hero operations
type Service interface {
	Register(ctx context.Context, chatID int64, name string) (domain.Reply, error)
	HandleCommand(ctx context.Context, chatID int64, text string) (domain.Reply, error)
	Cancel(ctx context.Context, chatID int64) (domain.Reply, error)
	Status(ctx context.Context, chatID int64) (*StatusView, error)
	Inventory(ctx context.Context, chatID int64) ([]domain.OwnedItem, error)

	// FireActivity executes a due activity from the scheduler.
	FireActivity(ctx context.Context, act domain.Activity) error
}

type service struct {
	repo     repository.Hero
	econ     economy.Service
	snap     *world.Snapshot
	sched    Scheduler
	notifier notify.Notifier
	bus      event.Bus
	chats    *expirable.LRU[int64, string]
	rnd      func() float64
	now      func() time.Time
}

// NewService creates a new hero service
func NewService(repo repository.Hero, econ economy.Service, snap *world.Snapshot, sched Scheduler, notifier notify.Notifier, bus event.Bus) Service {
	return &service{
		repo:     repo,
		econ:     econ,
		snap:     snap,
		sched:    sched,
		notifier: notifier,
		bus:      bus,
		chats:    expirable.NewLRU[int64, string](CacheSize, nil, time.Hour),
		rnd:      rand.Float64,
		now:      time.Now,
	}
}

// Register creates a hero for a chat and drops it at a random start
// location.
func (s *service) Register(ctx context.Context, chatID int64, name string) (domain.Reply, error) {
	log := logger.FromContext(ctx)
	log.Info("Register called", "chatID", chatID, "name", name)

	start := s.snap.RandomStart(s.rnd)
	h := &domain.Hero{
		Name:       name,
		ChatID:     chatID,
		LocationID: start.ID,
		State:      domain.HeroStateIdle,
		HPBase:     domain.DefaultHPBase,
		HPValue:    domain.DefaultHPBase,
	}

	if err := s.repo.Create(ctx, h); err != nil {
		return domain.Reply{}, err
	}
	s.chats.Add(chatID, h.ID)

	metrics.HeroesRegistered.Inc()
	if err := s.bus.Publish(ctx, event.NewHeroRegisteredEvent(h.ID, h.Name, h.LocationID)); err != nil {
		log.Warn("Failed to publish registration event", "error", err)
	}

	log.Info("Hero registered", "heroID", h.ID, "name", name, "locationID", start.ID)
	reply := s.actionsReply(start)
	reply.Text = fmt.Sprintf(MsgWelcome, name) + "\n" + reply.Text
	return reply, nil
}

// Status returns a summary of the hero's current situation.
func (s *service) Status(ctx context.Context, chatID int64) (*StatusView, error) {
	h, err := s.resolveHero(ctx, chatID)
	if err != nil {
		return nil, err
	}

	loc, err := s.snap.Location(h.LocationID)
	if err != nil {
		return nil, err
	}

	view := &StatusView{Hero: *h, Level: h.Level(), Location: loc}
	if h.ActivityID != nil {
		act, err := s.repo.GetActivity(ctx, *h.ActivityID)
		if err == nil {
			view.Busy = &BusyInfo{
				Kind:             act.Kind,
				RemainingSeconds: int(act.Remaining(s.now()).Seconds()),
			}
		}
	}
	return view, nil
}

// Inventory lists the hero's owned items grouped by prototype.
func (s *service) Inventory(ctx context.Context, chatID int64) ([]domain.OwnedItem, error) {
	h, err := s.resolveHero(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListOwnedItems(ctx, h.ID)
}

// Cancel aborts a cancellable engagement: choosing a destination or
// resting. Fights and respawns run their course.
func (s *service) Cancel(ctx context.Context, chatID int64) (domain.Reply, error) {
	log := logger.FromContext(ctx)

	h, err := s.resolveHero(ctx, chatID)
	if err != nil {
		return domain.Reply{}, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return domain.Reply{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	h, err = tx.GetHeroForUpdate(ctx, h.ID)
	if err != nil {
		return domain.Reply{}, err
	}

	switch h.State {
	case domain.HeroStateFight:
		return domain.NewReply(MsgCantCancelFight), nil

	case domain.HeroStateTravel, domain.HeroStateShopping:
		h.State = domain.HeroStateIdle
		if err := tx.UpdateHero(ctx, h); err != nil {
			return domain.Reply{}, err
		}
		if err := tx.Commit(ctx); err != nil {
			return domain.Reply{}, fmt.Errorf("failed to commit transaction: %w", err)
		}
		loc, err := s.snap.Location(h.LocationID)
		if err != nil {
			return domain.Reply{}, err
		}
		return s.actionsReply(loc), nil

	case domain.HeroStateHealing:
		if h.ActivityID == nil {
			return domain.NewReply(MsgNothingToCancel), nil
		}
		// Rest grants HP only at completion; cancelling keeps current HP
		if err := tx.DeleteActivity(ctx, *h.ActivityID); err != nil {
			return domain.Reply{}, err
		}
		h.ActivityID = nil
		h.State = domain.HeroStateIdle
		if err := tx.UpdateHero(ctx, h); err != nil {
			return domain.Reply{}, err
		}
		if err := tx.Commit(ctx); err != nil {
			return domain.Reply{}, fmt.Errorf("failed to commit transaction: %w", err)
		}
		s.sched.Cancel(h.ID)
		log.Info("Healing cancelled", "heroID", h.ID)

		loc, err := s.snap.Location(h.LocationID)
		if err != nil {
			return domain.Reply{}, err
		}
		reply := s.actionsReply(loc)
		reply.Text = MsgStoppedResting + "\n" + reply.Text
		return reply, nil

	default:
		return domain.NewReply(MsgNothingToCancel), nil
	}
}

// resolveHero maps a chat to its hero. The chat-to-hero mapping is
// immutable, so it is safe to cache; hero state is always re-read.
func (s *service) resolveHero(ctx context.Context, chatID int64) (*domain.Hero, error) {
	if heroID, ok := s.chats.Get(chatID); ok {
		h, err := s.repo.GetByID(ctx, heroID)
		if err == nil {
			return h, nil
		}
		s.chats.Remove(chatID)
	}

	h, err := s.repo.GetByChatID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	s.chats.Add(chatID, h.ID)
	return h, nil
}
