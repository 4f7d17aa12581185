// Package activity arms in-memory timers for durable deferred actions.
// Rows in the activities table are the source of truth; timers are a
// volatile mirror rebuilt from the table on startup.
package activity

import (
	"context"
	"sync"
	"time"

	"github.com/PixVoxGames/0pg/internal/domain"
	"github.com/PixVoxGames/0pg/internal/logger"
	"github.com/PixVoxGames/0pg/internal/repository"
	"github.com/PixVoxGames/0pg/internal/worker"
)

// Firer executes a due activity. The firer is responsible for re-checking
// hero state and deleting the backing row; the scheduler only tracks time.
type Firer interface {
	FireActivity(ctx context.Context, act domain.Activity) error
}

// Scheduler owns one timer per hero. The activities table enforces a single
// pending activity per hero, so the hero ID is a sufficient timer key.
// Firings run on the shared worker pool, which bounds how many activity
// handlers hit the database at once.
type Scheduler struct {
	repo  repository.Activity
	pool  *worker.Pool
	firer Firer

	mu       sync.Mutex
	timers   map[string]*time.Timer
	shutdown chan struct{}
}

// NewScheduler creates a scheduler. The firer is injected after construction
// because the hero service both schedules activities and executes them.
func NewScheduler(repo repository.Activity, pool *worker.Pool) *Scheduler {
	return &Scheduler{
		repo:     repo,
		pool:     pool,
		timers:   make(map[string]*time.Timer),
		shutdown: make(chan struct{}),
	}
}

// SetFirer wires the execution callback. Must be called before Schedule or Recover.
func (s *Scheduler) SetFirer(f Firer) {
	s.firer = f
}

// Schedule arms a timer for an already-persisted activity. An existing timer
// for the same hero is replaced; the caller has already replaced the row.
func (s *Scheduler) Schedule(act domain.Activity) {
	remaining := act.Remaining(time.Now())

	log := logger.FromContext(context.Background())
	log.Info("Scheduling activity", "activityID", act.ID, "heroID", act.HeroID, "kind", act.Kind, "remaining", remaining)

	if remaining <= 0 {
		s.execute(act)
		return
	}

	s.mu.Lock()
	if existing, ok := s.timers[act.HeroID]; ok {
		existing.Stop()
		delete(s.timers, act.HeroID)
	}

	timer := time.AfterFunc(remaining, func() {
		select {
		case <-s.shutdown:
			return
		default:
		}

		s.execute(act)

		s.mu.Lock()
		delete(s.timers, act.HeroID)
		s.mu.Unlock()
	})

	s.timers[act.HeroID] = timer
	s.mu.Unlock()
}

// Cancel stops the timer for a hero, if any. The caller deletes the row.
func (s *Scheduler) Cancel(heroID string) {
	s.mu.Lock()
	if timer, ok := s.timers[heroID]; ok {
		timer.Stop()
		delete(s.timers, heroID)
	}
	s.mu.Unlock()
}

// Recover re-arms timers for every pending activity row. Overdue activities
// fire immediately. Called once at startup before the server accepts commands.
func (s *Scheduler) Recover(ctx context.Context) error {
	log := logger.FromContext(ctx)

	pending, err := s.repo.ListPending(ctx)
	if err != nil {
		return err
	}

	for _, act := range pending {
		s.Schedule(act)
	}

	log.Info("Recovered pending activities", "count", len(pending))
	return nil
}

// fireJob adapts a due activity to the worker pool's job interface.
type fireJob struct {
	act   domain.Activity
	firer Firer
}

func (j fireJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info("Executing scheduled activity", "activityID", j.act.ID, "heroID", j.act.HeroID, "kind", j.act.Kind)
	return j.firer.FireActivity(ctx, j.act)
}

func (s *Scheduler) execute(act domain.Activity) {
	s.pool.Enqueue(fireJob{act: act, firer: s.firer})
}

// Shutdown stops all timers. In-flight firings drain with the worker pool.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info("Shutting down activity scheduler")

	close(s.shutdown)

	s.mu.Lock()
	for heroID, timer := range s.timers {
		timer.Stop()
		log.Info("Cancelled pending activity timer", "heroID", heroID)
	}
	s.timers = make(map[string]*time.Timer)
	s.mu.Unlock()

	log.Info("Activity scheduler shutdown complete")
	return nil
}
