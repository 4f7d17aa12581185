package hero

import (
	"context"
	"fmt"
	"strings"

	"github.com/PixVoxGames/0pg/internal/combat"
	"github.com/PixVoxGames/0pg/internal/domain"
	"github.com/PixVoxGames/0pg/internal/event"
	"github.com/PixVoxGames/0pg/internal/logger"
	"github.com/PixVoxGames/0pg/internal/metrics"
	"github.com/PixVoxGames/0pg/internal/repository"
)

func fightKeyboard() [][]string {
	return [][]string{{string(combat.ActionAttack), string(combat.ActionGuard), string(combat.ActionFlee)}}
}

func (s *service) handleFight(ctx context.Context, tx repository.HeroTx, h *domain.Hero, text string, fx *effects) (domain.Reply, error) {
	log := logger.FromContext(ctx)

	action := combat.Action(text)
	switch action {
	case combat.ActionAttack, combat.ActionGuard, combat.ActionFlee:
	default:
		return domain.NewReply(MsgDidntGetIt).WithChoices(fightKeyboard()...), nil
	}

	if h.AttackedBy == nil {
		return domain.Reply{}, fmt.Errorf("%w: hero %s fighting nothing", domain.ErrMobNotFound, h.ID)
	}
	mi, err := tx.GetMobInstance(ctx, *h.AttackedBy)
	if err != nil {
		return domain.Reply{}, err
	}
	mob, err := s.snap.Mob(mi.MobID)
	if err != nil {
		return domain.Reply{}, err
	}

	outcome := combat.Resolve(action, h.Level(), h.HPValue, mi.HPValue, mob, s.rnd)
	metrics.FightRounds.WithLabelValues(string(action), outcomeLabel(outcome.Kind)).Inc()

	switch outcome.Kind {
	case combat.OutcomeContinue:
		if err := tx.UpdateMobInstanceHP(ctx, mi.ID, outcome.MobHP); err != nil {
			return domain.Reply{}, err
		}
		h.HPValue = outcome.HeroHP
		if err := tx.UpdateHero(ctx, h); err != nil {
			return domain.Reply{}, err
		}

		var lines []string
		if action == combat.ActionGuard {
			lines = append(lines, MsgGuardBlock)
		} else {
			lines = append(lines, fmt.Sprintf(MsgHitMob, mob.Name, outcome.HeroDamage))
		}
		lines = append(lines,
			fmt.Sprintf(MsgMobHits, mob.Name, outcome.MobDamage),
			fmt.Sprintf(MsgHPStatus, h.HPValue, mob.Name, outcome.MobHP))
		return domain.NewReply(strings.Join(lines, "\n")).WithChoices(fightKeyboard()...), nil

	case combat.OutcomeKill:
		return s.finishKill(ctx, tx, h, mi, mob, fx)

	case combat.OutcomeDeath:
		return s.finishDeath(ctx, tx, h, mi, mob, outcome, fx)

	default: // combat.OutcomeFled
		if err := endFight(ctx, tx, h, mi.ID); err != nil {
			return domain.Reply{}, err
		}
		log.Info("Hero fled", "heroID", h.ID, "mob", mob.Name)

		loc, err := s.snap.Location(h.LocationID)
		if err != nil {
			return domain.Reply{}, err
		}
		reply := s.actionsReply(loc)
		reply.Text = MsgFled + "\n" + reply.Text
		return reply, nil
	}
}

// endFight persists the hero out of the fight and destroys the mob
// instance, in that order. Heroes hold attacked_by with ON DELETE SET
// NULL, and the row check requires attacked_by to be null exactly when
// the state is not FIGHT, so the hero row must leave FIGHT before the
// referenced instance can be deleted.
func endFight(ctx context.Context, tx repository.HeroTx, h *domain.Hero, instanceID int64) error {
	h.State = domain.HeroStateIdle
	h.AttackedBy = nil
	if err := tx.UpdateHero(ctx, h); err != nil {
		return err
	}
	return tx.DeleteMobInstance(ctx, instanceID)
}

// finishKill closes the fight, awards XP and loot, and lines up the next
// encounter after a breather.
func (s *service) finishKill(ctx context.Context, tx repository.HeroTx, h *domain.Hero, mi *domain.MobInstance, mob domain.Mob, fx *effects) (domain.Reply, error) {
	log := logger.FromContext(ctx)

	h.XP += domain.KillXP
	if err := endFight(ctx, tx, h, mi.ID); err != nil {
		return domain.Reply{}, err
	}

	var loot []string
	for _, itemID := range combat.RollDrops(s.snap.DropsFor(mob.ID), s.rnd) {
		item, err := s.snap.Item(itemID)
		if err != nil {
			log.Warn("Drop references unknown item", "itemID", itemID, "mob", mob.Name)
			continue
		}
		inst := domain.ItemInstance{ItemID: item.ID, HeroID: h.ID, UsagesLeft: item.Usages}
		if err := tx.CreateItemInstance(ctx, &inst); err != nil {
			return domain.Reply{}, err
		}
		loot = append(loot, item.Title)
	}

	act := &domain.Activity{
		HeroID:    h.ID,
		Kind:      domain.ActivityFightStart,
		StartTime: s.now(),
		Duration:  domain.FightRestartDelay,
	}
	if err := tx.CreateActivity(ctx, act); err != nil {
		return domain.Reply{}, err
	}
	fx.schedule = append(fx.schedule, *act)

	heroID, mobID, locID := h.ID, mob.ID, h.LocationID
	fx.publish = append(fx.publish, func(ctx context.Context) {
		metrics.MobsKilled.WithLabelValues(mob.Name).Inc()
		if err := s.bus.Publish(ctx, event.NewMobKilledEvent(heroID, mobID, locID, domain.KillXP)); err != nil {
			logger.FromContext(ctx).Warn("Failed to publish kill event", "error", err)
		}
	})

	log.Info("Mob killed", "heroID", h.ID, "mob", mob.Name, "loot", loot)

	loc, err := s.snap.Location(h.LocationID)
	if err != nil {
		return domain.Reply{}, err
	}
	lines := []string{fmt.Sprintf(MsgKilledMob, mob.Name)}
	if len(loot) > 0 {
		lines = append(lines, fmt.Sprintf(MsgLoot, strings.Join(loot, ", ")))
	}
	reply := s.actionsReply(loc)
	reply.Text = strings.Join(lines, "\n") + "\n" + reply.Text
	return reply, nil
}

// finishDeath closes the fight and parks the hero behind a respawn
// activity. HP stays at zero until the respawn fires.
func (s *service) finishDeath(ctx context.Context, tx repository.HeroTx, h *domain.Hero, mi *domain.MobInstance, mob domain.Mob, outcome combat.Outcome, fx *effects) (domain.Reply, error) {
	log := logger.FromContext(ctx)

	act := &domain.Activity{
		HeroID:    h.ID,
		Kind:      domain.ActivityRespawn,
		StartTime: s.now(),
		Duration:  h.RespawnDuration(),
	}
	if err := tx.CreateActivity(ctx, act); err != nil {
		return domain.Reply{}, err
	}

	h.HPValue = 0
	h.ActivityID = &act.ID
	if err := endFight(ctx, tx, h, mi.ID); err != nil {
		return domain.Reply{}, err
	}
	fx.schedule = append(fx.schedule, *act)

	heroID, mobID, locID := h.ID, mob.ID, h.LocationID
	fx.publish = append(fx.publish, func(ctx context.Context) {
		metrics.HeroDeaths.Inc()
		if err := s.bus.Publish(ctx, event.NewHeroDiedEvent(heroID, mobID, locID)); err != nil {
			logger.FromContext(ctx).Warn("Failed to publish death event", "error", err)
		}
	})

	log.Info("Hero died", "heroID", h.ID, "mob", mob.Name, "respawn", act.Duration)
	return domain.NewReply(fmt.Sprintf(MsgDied, mob.Name, int(act.Duration.Seconds()))), nil
}

func outcomeLabel(kind combat.OutcomeKind) string {
	switch kind {
	case combat.OutcomeKill:
		return "kill"
	case combat.OutcomeDeath:
		return "death"
	case combat.OutcomeFled:
		return "fled"
	default:
		return "continue"
	}
}
