package hero

import (
	"context"
	"fmt"

	"github.com/PixVoxGames/0pg/internal/domain"
	"github.com/PixVoxGames/0pg/internal/event"
	"github.com/PixVoxGames/0pg/internal/logger"
	"github.com/PixVoxGames/0pg/internal/metrics"
	"github.com/PixVoxGames/0pg/internal/repository"
)

// FireActivity executes a due activity. Every branch re-reads hero state
// under the row lock and verifies the activity is still current, so a
// duplicate firing or a firing that lost a race is a no-op.
func (s *service) FireActivity(ctx context.Context, act domain.Activity) error {
	metrics.ActivitiesFired.WithLabelValues(string(act.Kind)).Inc()

	switch act.Kind {
	case domain.ActivityHealing:
		return s.fireHealing(ctx, act)
	case domain.ActivityRespawn:
		return s.fireRespawn(ctx, act)
	case domain.ActivityFightStart:
		return s.fireFightStart(ctx, act)
	default:
		return fmt.Errorf("unknown activity kind %q", act.Kind)
	}
}

func (s *service) fireHealing(ctx context.Context, act domain.Activity) error {
	log := logger.FromContext(ctx)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	h, err := tx.GetHeroForUpdate(ctx, act.HeroID)
	if err != nil {
		return err
	}
	if h.ActivityID == nil || *h.ActivityID != act.ID {
		log.Info("Stale healing activity, skipping", "activityID", act.ID, "heroID", act.HeroID)
		return nil
	}

	if err := tx.DeleteActivity(ctx, act.ID); err != nil {
		return err
	}
	h.HPValue = h.HPBase
	h.State = domain.HeroStateIdle
	h.ActivityID = nil
	if err := tx.UpdateHero(ctx, h); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info("Hero recovered", "heroID", h.ID)
	if err := s.bus.Publish(ctx, event.NewHeroHealedEvent(h.ID, h.LocationID)); err != nil {
		log.Warn("Failed to publish heal event", "error", err)
	}

	loc, err := s.snap.Location(h.LocationID)
	if err != nil {
		return err
	}
	reply := s.actionsReply(loc)
	reply.Text = MsgRecovered + "\n" + reply.Text
	s.notifier.Notify(ctx, h.ChatID, reply)
	return nil
}

func (s *service) fireRespawn(ctx context.Context, act domain.Activity) error {
	log := logger.FromContext(ctx)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	h, err := tx.GetHeroForUpdate(ctx, act.HeroID)
	if err != nil {
		return err
	}
	if h.ActivityID == nil || *h.ActivityID != act.ID {
		log.Info("Stale respawn activity, skipping", "activityID", act.ID, "heroID", act.HeroID)
		return nil
	}

	if err := tx.DeleteActivity(ctx, act.ID); err != nil {
		return err
	}
	start := s.snap.RandomStart(s.rnd)
	h.HPValue = h.HPBase
	h.LocationID = start.ID
	h.State = domain.HeroStateIdle
	h.ActivityID = nil
	if err := tx.UpdateHero(ctx, h); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info("Hero respawned", "heroID", h.ID, "locationID", start.ID)
	if err := s.bus.Publish(ctx, event.NewHeroRespawnedEvent(h.ID, start.ID)); err != nil {
		log.Warn("Failed to publish respawn event", "error", err)
	}

	reply := s.actionsReply(start)
	reply.Text = fmt.Sprintf(MsgRespawned, start.Name) + "\n" + reply.Text
	s.notifier.Notify(ctx, h.ChatID, reply)
	return nil
}

// fireFightStart opens an encounter if the hero is still idle at a fight
// location. The activity row is consumed either way; a hero who moved on
// or got busy simply doesn't get ambushed.
func (s *service) fireFightStart(ctx context.Context, act domain.Activity) error {
	log := logger.FromContext(ctx)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	h, err := tx.GetHeroForUpdate(ctx, act.HeroID)
	if err != nil {
		return err
	}

	if err := tx.DeleteActivity(ctx, act.ID); err != nil {
		return err
	}

	loc, err := s.snap.Location(h.LocationID)
	if err != nil {
		return err
	}
	if h.State != domain.HeroStateIdle || h.ActivityID != nil || loc.Type != domain.LocationFight {
		log.Info("Fight start no longer applies", "heroID", h.ID, "state", h.State, "locationID", h.LocationID)
		return tx.Commit(ctx)
	}

	mob, ok := s.snap.RollMob(h.LocationID, s.rnd)
	if !ok {
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		reply := s.actionsReply(loc)
		reply.Text = MsgQuietArea + "\n" + reply.Text
		s.notifier.Notify(ctx, h.ChatID, reply)
		return nil
	}

	mi := &domain.MobInstance{MobID: mob.ID, HPValue: mob.HPBase}
	if err := tx.CreateMobInstance(ctx, mi); err != nil {
		return err
	}
	h.State = domain.HeroStateFight
	h.AttackedBy = &mi.ID
	if err := tx.UpdateHero(ctx, h); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info("Fight started", "heroID", h.ID, "mob", mob.Name, "mobInstanceID", mi.ID)
	if err := s.bus.Publish(ctx, event.NewFightStartedEvent(h.ID, mob.ID, h.LocationID)); err != nil {
		log.Warn("Failed to publish fight event", "error", err)
	}

	reply := domain.NewReply(fmt.Sprintf(MsgEncountered, mob.Name)).WithChoices(fightKeyboard()...)
	s.notifier.Notify(ctx, h.ChatID, reply)
	return nil
}
