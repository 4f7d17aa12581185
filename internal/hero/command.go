package hero

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PixVoxGames/0pg/internal/domain"
	"github.com/PixVoxGames/0pg/internal/logger"
	"github.com/PixVoxGames/0pg/internal/metrics"
	"github.com/PixVoxGames/0pg/internal/repository"
)

var (
	buyPattern  = regexp.MustCompile(`^[Bb]uy '(.+)'$`)
	sellPattern = regexp.MustCompile(`^[Ss]ell '(.+)'$`)
)

// effects are side effects a handler defers until after commit. Timers
// are armed and events published only once the rows they describe exist.
type effects struct {
	schedule []domain.Activity
	publish  []func(ctx context.Context)
}

func (fx *effects) apply(ctx context.Context, s *service) {
	for _, act := range fx.schedule {
		s.sched.Schedule(act)
	}
	for _, fn := range fx.publish {
		fn(ctx)
	}
}

// HandleCommand routes one chat message through the hero's state machine.
// Precondition failures come back as in-band replies, the way the game
// talks to the player; only infrastructure failures surface as errors.
func (s *service) HandleCommand(ctx context.Context, chatID int64, text string) (domain.Reply, error) {
	log := logger.FromContext(ctx)
	text = strings.TrimSpace(text)
	log.Info("HandleCommand called", "chatID", chatID, "text", text)

	h, err := s.resolveHero(ctx, chatID)
	if err != nil {
		return domain.Reply{}, err
	}

	// Trade commands never run under the command lock; the economy
	// service takes its own and re-checks state behind it.
	if m := buyPattern.FindStringSubmatch(text); m != nil {
		return s.handleBuy(ctx, h, m[1])
	}
	if m := sellPattern.FindStringSubmatch(text); m != nil {
		return s.handleSell(ctx, h, m[1])
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

	if reply, blocked, err := s.checkBlocked(ctx, h); err != nil {
		return domain.Reply{}, err
	} else if blocked {
		return reply, nil
	}

	fx := &effects{}
	var reply domain.Reply
	switch h.State {
	case domain.HeroStateIdle:
		reply, err = s.handleIdle(ctx, tx, h, text, fx)
	case domain.HeroStateTravel:
		reply, err = s.handleTravel(ctx, tx, h, text, fx)
	case domain.HeroStateFight:
		reply, err = s.handleFight(ctx, tx, h, text, fx)
	case domain.HeroStateShopping:
		reply, err = s.handleShopping(ctx, tx, h, text)
	case domain.HeroStateHealing:
		// Healing without an activity row is a broken invariant left by
		// a crash; recover to idle and retry the command there.
		h.State = domain.HeroStateIdle
		if err = tx.UpdateHero(ctx, h); err == nil {
			reply, err = s.handleIdle(ctx, tx, h, text, fx)
		}
	default:
		err = fmt.Errorf("%w: hero %s in unknown state %s", domain.ErrInvalidAction, h.ID, h.State)
	}
	if err != nil {
		metrics.CommandsHandled.WithLabelValues(string(h.State), "error").Inc()
		return domain.Reply{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Reply{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	fx.apply(ctx, s)
	metrics.CommandsHandled.WithLabelValues(string(h.State), "ok").Inc()
	return reply, nil
}

// checkBlocked pre-empts commands while a blocking activity is pending.
func (s *service) checkBlocked(ctx context.Context, h *domain.Hero) (domain.Reply, bool, error) {
	if h.ActivityID == nil {
		return domain.Reply{}, false, nil
	}

	act, err := s.repo.GetActivity(ctx, *h.ActivityID)
	if err != nil {
		if errors.Is(err, domain.ErrStaleActivity) {
			// Row already consumed; the firing path will clear the reference
			return domain.Reply{}, false, nil
		}
		return domain.Reply{}, false, err
	}
	if !act.Blocking() {
		return domain.Reply{}, false, nil
	}

	remaining := int(act.Remaining(s.now()).Seconds())
	switch act.Kind {
	case domain.ActivityRespawn:
		return domain.NewReply(fmt.Sprintf(MsgDeadRespawnIn, remaining)), true, nil
	default:
		return domain.NewReply(fmt.Sprintf(MsgHealingRemaining, remaining)), true, nil
	}
}

func (s *service) handleIdle(ctx context.Context, tx repository.HeroTx, h *domain.Hero, text string, fx *effects) (domain.Reply, error) {
	loc, err := s.snap.Location(h.LocationID)
	if err != nil {
		return domain.Reply{}, err
	}

	available := s.snap.ActionsFor(loc.Type)
	if !contains(available, text) {
		reply := s.actionsReply(loc)
		reply.Text = fmt.Sprintf(MsgCantDoHere, text) + "\n" + reply.Text
		return reply, nil
	}

	switch text {
	case ActionTravel, ActionLeave:
		exits := s.snap.ExitsFrom(loc.ID)
		if len(exits) == 0 {
			return domain.NewReply(MsgNoWayOut), nil
		}
		h.State = domain.HeroStateTravel
		if err := tx.UpdateHero(ctx, h); err != nil {
			return domain.Reply{}, err
		}
		return travelReply(exits), nil

	case ActionShop:
		h.State = domain.HeroStateShopping
		if err := tx.UpdateHero(ctx, h); err != nil {
			return domain.Reply{}, err
		}
		return s.shopReply(ctx, h)

	case ActionHeal:
		if h.HPValue >= h.HPBase {
			return domain.NewReply(MsgFullHealth), nil
		}
		// An unfired fight-start would collide with the one-activity-per-hero rule
		if err := tx.DeletePendingFightStarts(ctx, h.ID); err != nil {
			return domain.Reply{}, err
		}
		act := &domain.Activity{
			HeroID:    h.ID,
			Kind:      domain.ActivityHealing,
			StartTime: s.now(),
			Duration:  h.HealingDuration(),
		}
		if err := tx.CreateActivity(ctx, act); err != nil {
			return domain.Reply{}, err
		}
		h.State = domain.HeroStateHealing
		h.ActivityID = &act.ID
		if err := tx.UpdateHero(ctx, h); err != nil {
			return domain.Reply{}, err
		}
		fx.schedule = append(fx.schedule, *act)
		return domain.NewReply(fmt.Sprintf(MsgRecovering, int(act.Duration.Seconds()))), nil

	default:
		reply := s.actionsReply(loc)
		reply.Text = MsgDidntGetIt + "\n" + reply.Text
		return reply, nil
	}
}

func (s *service) handleTravel(ctx context.Context, tx repository.HeroTx, h *domain.Hero, text string, fx *effects) (domain.Reply, error) {
	exits := s.snap.ExitsFrom(h.LocationID)

	var dest *domain.Location
	for i := range exits {
		if exits[i].Name == text {
			dest = &exits[i]
			break
		}
	}
	if dest == nil {
		reply := travelReply(exits)
		reply.Text = fmt.Sprintf(MsgCantTravel, text) + "\n" + reply.Text
		return reply, nil
	}

	h.LocationID = dest.ID
	h.State = domain.HeroStateIdle
	if err := tx.UpdateHero(ctx, h); err != nil {
		return domain.Reply{}, err
	}

	if dest.Type == domain.LocationFight {
		if err := tx.DeletePendingFightStarts(ctx, h.ID); err != nil {
			return domain.Reply{}, err
		}
		act := &domain.Activity{
			HeroID:    h.ID,
			Kind:      domain.ActivityFightStart,
			StartTime: s.now(),
			Duration:  domain.FightStartDelay,
		}
		if err := tx.CreateActivity(ctx, act); err != nil {
			return domain.Reply{}, err
		}
		fx.schedule = append(fx.schedule, *act)
	}

	return s.actionsReply(*dest), nil
}

func (s *service) handleShopping(ctx context.Context, tx repository.HeroTx, h *domain.Hero, text string) (domain.Reply, error) {
	if strings.EqualFold(text, ActionLeave) {
		h.State = domain.HeroStateIdle
		if err := tx.UpdateHero(ctx, h); err != nil {
			return domain.Reply{}, err
		}
		loc, err := s.snap.Location(h.LocationID)
		if err != nil {
			return domain.Reply{}, err
		}
		return s.actionsReply(loc), nil
	}

	reply, err := s.shopReply(ctx, h)
	if err != nil {
		return domain.Reply{}, err
	}
	reply.Text = MsgDidntGetIt + "\n" + reply.Text
	return reply, nil
}

func (s *service) handleBuy(ctx context.Context, h *domain.Hero, itemTitle string) (domain.Reply, error) {
	item, err := s.econ.Buy(ctx, h.ID, h.LocationID, itemTitle)
	if err != nil {
		if reply, ok := tradeErrorReply(err, itemTitle); ok {
			return reply, nil
		}
		return domain.Reply{}, err
	}

	// Re-read for the fresh gold balance
	h, err = s.repo.GetByID(ctx, h.ID)
	if err != nil {
		return domain.Reply{}, err
	}
	reply, err := s.shopReply(ctx, h)
	if err != nil {
		return domain.Reply{}, err
	}
	reply.Text = fmt.Sprintf(MsgBought, item.Title) + "\n" + reply.Text
	return reply, nil
}

func (s *service) handleSell(ctx context.Context, h *domain.Hero, itemTitle string) (domain.Reply, error) {
	item, _, err := s.econ.Sell(ctx, h.ID, h.LocationID, itemTitle)
	if err != nil {
		if reply, ok := tradeErrorReply(err, itemTitle); ok {
			return reply, nil
		}
		return domain.Reply{}, err
	}

	h, err = s.repo.GetByID(ctx, h.ID)
	if err != nil {
		return domain.Reply{}, err
	}
	reply, err := s.shopReply(ctx, h)
	if err != nil {
		return domain.Reply{}, err
	}
	reply.Text = fmt.Sprintf(MsgSold, item.Title) + "\n" + reply.Text
	return reply, nil
}

// tradeErrorReply converts economy precondition failures into in-band
// replies. Anything else stays an error.
func tradeErrorReply(err error, itemTitle string) (domain.Reply, bool) {
	switch {
	case errors.Is(err, domain.ErrUnknownItem):
		return domain.NewReply(fmt.Sprintf(MsgItemUnknown, itemTitle)), true
	case errors.Is(err, domain.ErrOutOfStock):
		return domain.NewReply(fmt.Sprintf(MsgNoStock, itemTitle)), true
	case errors.Is(err, domain.ErrInsufficientGold):
		return domain.NewReply(fmt.Sprintf(MsgNoMoney, itemTitle)), true
	case errors.Is(err, domain.ErrItemNotOwned):
		return domain.NewReply(fmt.Sprintf(MsgNotOwned, itemTitle)), true
	case errors.Is(err, domain.ErrInvalidAction):
		return domain.NewReply(fmt.Sprintf(MsgCantDoHere, "trade")), true
	}
	return domain.Reply{}, false
}

// actionsReply prompts with the actions available at a location.
func (s *service) actionsReply(loc domain.Location) domain.Reply {
	return domain.NewReply(MsgWhatPath).WithChoices(s.snap.ActionsFor(loc.Type))
}

func travelReply(exits []domain.Location) domain.Reply {
	row := make([]string, len(exits))
	for i, loc := range exits {
		row[i] = loc.Name
	}
	return domain.NewReply(MsgWhereTo).WithChoices(row)
}

// shopReply lists the hero's gold and offers buy/sell/leave choices.
func (s *service) shopReply(ctx context.Context, h *domain.Hero) (domain.Reply, error) {
	prices, err := s.econ.ListPrices(ctx, h.LocationID)
	if err != nil {
		return domain.Reply{}, err
	}
	owned, err := s.econ.ListInventory(ctx, h.ID)
	if err != nil {
		return domain.Reply{}, err
	}

	var buyRow, sellRow []string
	var lines []string
	for _, entry := range prices {
		buyRow = append(buyRow, fmt.Sprintf("Buy '%s'", entry.Item.Title))
		lines = append(lines, fmt.Sprintf("%s: %d gold (%d in stock)", entry.Item.Title, entry.Price, entry.Count))
	}
	for _, o := range owned {
		sellRow = append(sellRow, fmt.Sprintf("Sell '%s'", o.Item.Title))
	}

	text := fmt.Sprintf(MsgShopPrompt, h.Gold)
	if len(lines) > 0 {
		text += "\n" + strings.Join(lines, "\n")
	}

	rows := make([][]string, 0, 3)
	if len(buyRow) > 0 {
		rows = append(rows, buyRow)
	}
	if len(sellRow) > 0 {
		rows = append(rows, sellRow)
	}
	rows = append(rows, []string{ActionLeave})

	return domain.NewReply(text).WithChoices(rows...), nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
