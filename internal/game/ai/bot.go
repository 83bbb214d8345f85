package ai

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/cardclash/internal/game/card"
	"github.com/cory-johannsen/cardclash/internal/game/engine"
	"github.com/cory-johannsen/cardclash/internal/game/player"
)

// Bot plays one seat of a match with an HTN planner.
type Bot struct {
	planner *Planner
	logger  *zap.Logger
}

// NewBot returns a Bot driven by planner. A nil logger is replaced by a no-op
// logger.
//
// Precondition: planner must not be nil.
func NewBot(planner *Planner, logger *zap.Logger) *Bot {
	if planner == nil {
		panic("ai.NewBot: planner must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{planner: planner, logger: logger}
}

// ChooseStartingActive returns the hand index of the basic creature with the
// most HP, or -1 when the hand holds none.
func (b *Bot) ChooseStartingActive(p *player.Player) int {
	best, bestHP := -1, 0
	for i, c := range p.Hand {
		cr, ok := c.(*card.Creature)
		if !ok || !cr.IsBasic() {
			continue
		}
		if best < 0 || cr.HP > bestHP {
			best, bestHP = i, cr.HP
		}
	}
	return best
}

// Decide plans the current player's turn.
//
// Precondition: g is in PhaseMain and BeginTurn has run for this turn.
func (b *Bot) Decide(g *engine.Game) (engine.TurnActions, error) {
	state := BuildState(g)
	plan, err := b.planner.Plan(state)
	if err != nil {
		return engine.TurnActions{}, err
	}
	actions := Compile(state, plan)
	b.logger.Debug("turn planned",
		zap.String("domain", b.planner.Domain().ID),
		zap.Int("turn", state.Turn),
		zap.String("player", state.Self.Name),
		zap.Int("steps", len(plan)),
		zap.Int("attachments", len(actions.Attachments)),
		zap.Bool("attack", actions.Attack != nil),
	)
	return actions, nil
}
