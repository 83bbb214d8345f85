package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/cardclash/internal/game/card"
	"github.com/cory-johannsen/cardclash/internal/game/condition"
	"github.com/cory-johannsen/cardclash/internal/game/effect"
	"github.com/cory-johannsen/cardclash/internal/game/player"
)

// Step names used in Rejection.Step.
const (
	StepAttach    = "attach"
	StepEvolve    = "evolve"
	StepBench     = "bench"
	StepAbility   = "ability"
	StepSupporter = "supporter"
	StepItem      = "item"
	StepTool      = "tool"
	StepRetreat   = "retreat"
	StepAttack    = "attack"
)

// FirstEvolutionTurn is the first turn on which evolutions are accepted.
const FirstEvolutionTurn = 2

// PlayTurn runs a whole turn for the current player: BeginTurn, when it has
// not run yet, followed by ApplyActions.
func (g *Game) PlayTurn(a TurnActions) (*TurnLog, error) {
	if !g.began {
		if _, err := g.BeginTurn(); err != nil {
			return nil, err
		}
	}
	return g.ApplyActions(a)
}

// BeginTurn runs the automatic start of the current player's turn: flag
// reset, the draw and the energy grant. The draw and the grant are skipped on
// turn 0. The returned log is completed by ApplyActions.
//
// Precondition: the game is in PhaseMain and BeginTurn has not run for this turn.
func (g *Game) BeginTurn() (*TurnLog, error) {
	if err := g.checkPhase(); err != nil {
		return nil, err
	}
	if g.began {
		return nil, fmt.Errorf("%w: turn %d already begun", ErrWrongPhase, g.turn)
	}
	pi := g.CurrentPlayer()
	p := g.players[pi]
	log := &TurnLog{Turn: g.turn, Player: pi, Winner: -1}
	g.emit(log, Event{Player: pi, Type: EventNewTurn, Card: p.Name})

	p.ResetTurnFlags()
	if g.turn > 0 {
		for _, c := range p.Draw(1) {
			g.emit(log, Event{Player: pi, Type: EventDraw, Card: c.DisplayName(), Amount: 1})
		}
		p.EnergyElement = p.NextEnergyElement
		p.NextEnergyElement = g.chooseElement(p)
		p.Energy++
		g.emit(log, Event{
			Player:  pi,
			Type:    EventEnergyGrant,
			Amount:  p.Energy,
			Details: fmt.Sprintf("%s (next %s)", p.EnergyElement, p.NextEnergyElement),
		})
	}
	if err := g.verify("begin turn"); err != nil {
		return log, err
	}
	g.began = true
	g.current = log
	return log, nil
}

// ApplyActions runs the player-chosen steps of the current turn followed by
// the end of turn. Illegal actions are recorded in TurnLog.Rejected and
// change nothing. Once the game ends the remaining steps are skipped.
//
// Precondition: BeginTurn has run for this turn.
// Postcondition: unless the game ended, Turn() has advanced by one.
func (g *Game) ApplyActions(a TurnActions) (*TurnLog, error) {
	if err := g.checkPhase(); err != nil {
		return nil, err
	}
	if !g.began {
		return nil, fmt.Errorf("%w: BeginTurn has not run for turn %d", ErrWrongPhase, g.turn)
	}
	log := g.current
	steps := []func(*TurnLog, TurnActions){
		g.attachEnergy,
		g.evolve,
		g.benchCreatures,
		g.useAbilities,
		g.playTrainers,
		g.retreat,
		g.attack,
	}
	for _, step := range steps {
		step(log, a)
		if err := g.verify("action step"); err != nil {
			return log, err
		}
		if g.IsGameOver() {
			return g.finish(log), nil
		}
	}
	g.endTurn(log)
	if err := g.verify("end of turn"); err != nil {
		return log, err
	}
	return g.finish(log), nil
}

func (g *Game) checkPhase() error {
	switch g.phase {
	case PhaseGameOver:
		return ErrGameOver
	case PhaseSetup:
		return fmt.Errorf("%w: starting actives not chosen", ErrWrongPhase)
	}
	return nil
}

func (g *Game) acting() (int, *player.Player, *player.Player) {
	pi := g.CurrentPlayer()
	return pi, g.players[pi], g.players[1-pi]
}

func (g *Game) attachEnergy(log *TurnLog, a TurnActions) {
	pi, p, _ := g.acting()
	for _, id := range a.Attachments {
		target := p.FindOnBoard(id)
		el := p.EnergyElement
		if err := p.AttachEnergy(target, el); err != nil {
			g.reject(log, StepAttach, id, err)
			continue
		}
		g.emit(log, Event{Player: pi, Type: EventAttachEnergy, Target: target.Name, Amount: 1, Details: string(el)})
	}
}

func (g *Game) evolve(log *TurnLog, a TurnActions) {
	pi, p, _ := g.acting()
	for _, ev := range a.Evolutions {
		if g.turn < FirstEvolutionTurn {
			g.reject(log, StepEvolve, ev.CardID, fmt.Errorf("%w: no evolution before turn %d", ErrIllegalAction, FirstEvolutionTurn))
			continue
		}
		target := p.FindOnBoard(ev.TargetID)
		var from string
		if target != nil {
			from = target.Name
		}
		evo, err := p.Evolve(ev.CardID, target, g.turn)
		if err != nil {
			g.reject(log, StepEvolve, ev.CardID, err)
			continue
		}
		g.emit(log, Event{Player: pi, Type: EventEvolve, Card: evo.Name, Target: from})
	}
}

func (g *Game) benchCreatures(log *TurnLog, a TurnActions) {
	pi, p, _ := g.acting()
	for _, id := range a.BenchPlays {
		if _, c := p.FindInHand(id); c != nil {
			if cr, ok := c.(*card.Creature); !ok || !cr.IsBasic() {
				g.reject(log, StepBench, id, fmt.Errorf("%w: %s is not a basic creature", ErrIllegalAction, c.DisplayName()))
				continue
			}
		}
		cr, err := p.PlaceOnBench(id, g.turn)
		if err != nil {
			g.reject(log, StepBench, id, err)
			continue
		}
		g.emit(log, Event{Player: pi, Type: EventBench, Card: cr.Name, Amount: len(p.Bench)})
	}
}

func (g *Game) useAbilities(log *TurnLog, a TurnActions) {
	pi, p, o := g.acting()
	for _, id := range a.Abilities {
		c := p.FindOnBoard(id)
		if c == nil {
			g.reject(log, StepAbility, id, fmt.Errorf("%w: creature %s not on the board", ErrIllegalAction, id))
			continue
		}
		applied, err := g.effects.RunAbility(c, p, o)
		if err != nil {
			g.reject(log, StepAbility, id, err)
			continue
		}
		g.emit(log, Event{Player: pi, Type: EventAbility, Card: c.Name, Details: c.Ability.Name})
		g.recordEffect(log, pi, applied)
		if g.settle(log) {
			return
		}
	}
}

func (g *Game) playTrainers(log *TurnLog, a TurnActions) {
	pi, p, o := g.acting()
	run := g.effects.Bind(p, o, func(ap effect.Applied) { g.recordEffect(log, pi, &ap) })

	if tp := a.Supporter; tp != nil {
		target, err := g.trainerTarget(p, tp.TargetID)
		if err == nil {
			var t *card.Trainer
			if t, err = p.PlaySupporter(tp.CardID, target, run); err == nil {
				g.emit(log, Event{Player: pi, Type: EventSupporter, Card: t.Name, Target: nameOf(target)})
			}
		}
		if err != nil {
			g.reject(log, StepSupporter, tp.CardID, err)
		}
		if g.settle(log) {
			return
		}
	}
	for _, tp := range a.Items {
		target, err := g.trainerTarget(p, tp.TargetID)
		if err == nil {
			var t *card.Trainer
			if t, err = p.PlayItem(tp.CardID, target, run); err == nil {
				g.emit(log, Event{Player: pi, Type: EventItem, Card: t.Name, Target: nameOf(target)})
			}
		}
		if err != nil {
			g.reject(log, StepItem, tp.CardID, err)
		}
		if g.settle(log) {
			return
		}
	}
	for _, tp := range a.Tools {
		t, err := p.AttachTool(tp.CardID, p.FindOnBoard(tp.TargetID))
		if err != nil {
			g.reject(log, StepTool, tp.CardID, err)
			continue
		}
		g.emit(log, Event{Player: pi, Type: EventTool, Card: t.Name, Target: nameOf(p.FindOnBoard(tp.TargetID))})
	}
}

// trainerTarget resolves an optional own-board target ID.
func (g *Game) trainerTarget(p *player.Player, id string) (*card.Creature, error) {
	if id == "" {
		return nil, nil
	}
	c := p.FindOnBoard(id)
	if c == nil {
		return nil, fmt.Errorf("%w: target %s not on the board", ErrIllegalAction, id)
	}
	return c, nil
}

func (g *Game) retreat(log *TurnLog, a TurnActions) {
	if a.Retreat == "" {
		return
	}
	pi, p, _ := g.acting()
	if g.statuses.IsActionRestricted(p.Active, condition.ActionRetreat) {
		g.reject(log, StepRetreat, a.Retreat, fmt.Errorf("%w: %s is %s", ErrIllegalAction, p.Active.Name, p.Active.Status))
		return
	}
	from := nameOf(p.Active)
	if err := p.Retreat(p.FindOnBoard(a.Retreat)); err != nil {
		g.reject(log, StepRetreat, a.Retreat, err)
		return
	}
	g.emit(log, Event{Player: pi, Type: EventRetreat, Card: from, Target: p.Active.Name})
}

func (g *Game) attack(log *TurnLog, a TurnActions) {
	if a.Attack == nil {
		return
	}
	pi, p, o := g.acting()
	out, err := g.resolver.ResolveAttack(p, o, *a.Attack)
	if err != nil {
		g.reject(log, StepAttack, idOf(p.Active), err)
		return
	}
	log.Attack = &out
	ev := Event{Player: pi, Type: EventAttack, Card: out.Attacker, Target: out.Defender, Amount: out.Damage, Details: out.Attack}
	if out.ConfusedSelfHit {
		ev.Target = out.Attacker
		ev.Amount = out.SelfDamage
		ev.Details = out.Attack + " (confused)"
	}
	g.emit(log, ev)
	g.recordEffect(log, pi, out.Effect)
	if out.KnockedOut {
		g.emit(log, Event{Player: 1 - pi, Type: EventKnockout, Card: out.Defender, Amount: out.Points})
		if g.checkWin(log) {
			return
		}
	}
	g.settle(log)
}

// endTurn runs the status check on the acting player's active creature,
// settles knockouts and refills empty active slots.
func (g *Game) endTurn(log *TurnLog) {
	pi, p, o := g.acting()
	if p.Active != nil && p.Active.HasStatus() {
		name := p.Active.Name
		res := g.statuses.Tick(p.Active, g.src)
		log.StatusCheck = &res
		details := string(res.Status)
		if res.Cleared {
			details += " cleared"
		}
		g.emit(log, Event{Player: pi, Type: EventStatusCheck, Card: name, Amount: res.Damage, Details: details})
	}
	if g.settle(log) {
		return
	}
	for _, side := range []struct {
		idx int
		p   *player.Player
	}{{1 - pi, o}, {pi, p}} {
		if side.p.Active != nil {
			continue
		}
		if c := side.p.ReplaceKnockedOutActive(); c != nil {
			g.emit(log, Event{Player: side.idx, Type: EventPromote, Card: c.Name})
		}
	}
	g.turn++
}

// settle discards knocked-out actives, the defender's first, awarding their
// points to the other player, and runs the win check after each award. It
// reports whether the game is over.
func (g *Game) settle(log *TurnLog) bool {
	pi := g.CurrentPlayer()
	for _, victim := range [2]int{1 - pi, pi} {
		v := g.players[victim]
		if v.Active == nil || !v.Active.IsKnockedOut() {
			continue
		}
		pts := v.Active.KnockoutPoints()
		c := v.DiscardActive()
		g.players[1-victim].Score += pts
		g.emit(log, Event{Player: victim, Type: EventKnockout, Card: c.Name, Amount: pts})
		if g.checkWin(log) {
			return true
		}
	}
	return g.IsGameOver()
}

// checkWin ends the game when a player has reached the points to win.
func (g *Game) checkWin(log *TurnLog) bool {
	if g.phase == PhaseGameOver {
		return true
	}
	for i, p := range g.players {
		if p.Score >= g.opts.PointsToWin {
			g.phase = PhaseGameOver
			g.winner = i
			g.emit(log, Event{Player: i, Type: EventWin, Card: p.Name, Amount: p.Score})
			g.logger.Info("match over",
				zap.String("winner", p.Name),
				zap.Int("turn", g.turn),
				zap.Int("score_a", g.players[0].Score),
				zap.Int("score_b", g.players[1].Score),
			)
			return true
		}
	}
	return false
}

func (g *Game) finish(log *TurnLog) *TurnLog {
	g.began = false
	g.current = nil
	if w, ok := g.Winner(); ok {
		log.GameOver = true
		log.Winner = w
	}
	return log
}

func (g *Game) verify(where string) error {
	if !g.opts.CheckInvariants {
		return nil
	}
	if err := g.CheckInvariants(); err != nil {
		g.logger.Error("invariant violated", zap.String("at", where), zap.Error(err))
		return fmt.Errorf("%s: %w", where, err)
	}
	return nil
}

func (g *Game) recordEffect(log *TurnLog, pi int, a *effect.Applied) {
	if a == nil {
		return
	}
	g.emit(log, Event{Player: pi, Type: EventEffect, Card: a.From, Target: a.Target, Amount: a.Amount, Details: a.String()})
}

func (g *Game) emit(log *TurnLog, e Event) {
	g.seq++
	e.Seq = g.seq
	e.Turn = g.turn
	log.Events = append(log.Events, e)
	g.logger.Debug("turn event",
		zap.Int("turn", e.Turn),
		zap.Int("player", e.Player),
		zap.Stringer("event", e.Type),
		zap.String("card", e.Card),
		zap.String("target", e.Target),
		zap.Int("amount", e.Amount),
	)
}

func (g *Game) reject(log *TurnLog, step, id string, err error) {
	log.Rejected = append(log.Rejected, Rejection{Step: step, Card: id, Err: err})
	g.logger.Debug("action rejected",
		zap.Int("turn", g.turn),
		zap.String("step", step),
		zap.String("card", id),
		zap.Error(err),
	)
}

func nameOf(c *card.Creature) string {
	if c == nil {
		return ""
	}
	return c.Name
}

func idOf(c *card.Creature) string {
	if c == nil {
		return ""
	}
	return c.ID
}
