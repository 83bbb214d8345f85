// Package effect interprets tagged card effects for attacks, trainers,
// tools and abilities.
package effect

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/cardclash/internal/game/card"
	"github.com/cory-johannsen/cardclash/internal/game/condition"
	"github.com/cory-johannsen/cardclash/internal/game/dice"
	"github.com/cory-johannsen/cardclash/internal/game/player"
	"github.com/cory-johannsen/cardclash/internal/scripting"
)

// ScriptRunner runs a named script hook against a host.
type ScriptRunner interface {
	RunEffect(hook string, host scripting.Host) error
}

// Applied records one resolved effect.
type Applied struct {
	Kind   card.EffectKind
	From   string // attack, ability or trainer name
	Amount int    // hp healed, cards drawn or energy attached
	Status card.Status
	Target string // name of the creature or card affected
	Flips  *dice.FlipResult
}

// String renders a one-line summary for logs.
func (a Applied) String() string {
	s := fmt.Sprintf("%s %s", a.From, a.Kind)
	if a.Target != "" {
		s += " -> " + a.Target
	}
	if a.Amount != 0 {
		s += fmt.Sprintf(" (%d)", a.Amount)
	}
	if a.Status != "" {
		s += " " + string(a.Status)
	}
	return s
}

// Dispatcher resolves effects. It is stateless apart from its collaborators
// and may be shared by concurrent matches when its Source and ScriptRunner are.
type Dispatcher struct {
	src      dice.Source
	statuses *condition.Registry
	scripts  ScriptRunner
	logger   *zap.Logger
}

// NewDispatcher creates a Dispatcher.
//
// Precondition: src and statuses must be non-nil. scripts may be nil, in which
// case script effects fail. A nil logger is replaced by a no-op logger.
func NewDispatcher(src dice.Source, statuses *condition.Registry, scripts ScriptRunner, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{src: src, statuses: statuses, scripts: scripts, logger: logger}
}

// WithSource returns a copy of d drawing from src.
func (d *Dispatcher) WithSource(src dice.Source) *Dispatcher {
	cp := *d
	cp.src = src
	return &cp
}

// BonusDamage evaluates the pre-damage part of an attack's effect and
// returns the extra damage together with the flips made, if any.
func (d *Dispatcher) BonusDamage(atk card.Attack) (int, *dice.FlipResult) {
	if atk.Effect.Kind != card.EffectCoinBonus {
		return 0, nil
	}
	flips := dice.FlipN(atk.Name, atk.Effect.Coins, d.src)
	return flips.Heads() * atk.Effect.Amount, &flips
}

func (d *Dispatcher) knownStatus(s card.Status) bool {
	_, ok := d.statuses.Get(s)
	return ok
}

// ToolBoost returns the damage added to attacks made by c.
func ToolBoost(c *card.Creature) int {
	if c == nil || c.Tool == nil || c.Tool.Effect.Kind != card.EffectDamageBoost {
		return 0
	}
	return c.Tool.Effect.Amount
}

// ToolReduction returns the damage removed from attacks against c.
func ToolReduction(c *card.Creature) int {
	if c == nil || c.Tool == nil || c.Tool.Effect.Kind != card.EffectDamageReduction {
		return 0
	}
	return c.Tool.Effect.Amount
}

// AfterDamage runs the post-damage part of an attack's effect. Effects that
// have nothing to act on are no-ops.
//
// Precondition: self.Active is the attacker.
func (d *Dispatcher) AfterDamage(atk card.Attack, self, opp *player.Player) (*Applied, error) {
	switch atk.Effect.Kind {
	case card.EffectNone, card.EffectCoinBonus:
		return nil, nil
	case card.EffectHealTarget, card.EffectSwitch, card.EffectDiscardHandDraw,
		card.EffectDamageBoost, card.EffectDamageReduction:
		d.logger.Warn("effect not usable on an attack",
			zap.String("attack", atk.Name),
			zap.String("kind", string(atk.Effect.Kind)),
		)
		return nil, nil
	}
	return d.apply(atk.Name, atk.Effect, self.Active, self, opp)
}

// RunAbility activates c's ability. Each ability may be used once per turn.
func (d *Dispatcher) RunAbility(c *card.Creature, self, opp *player.Player) (*Applied, error) {
	switch {
	case !self.OnBoard(c):
		return nil, fmt.Errorf("%w: ability user is not on the board", player.ErrIllegal)
	case c.Ability == nil:
		return nil, fmt.Errorf("%w: %s has no ability", player.ErrIllegal, c.Name)
	case c.AbilityUsed:
		return nil, fmt.Errorf("%w: %s already used %s this turn", player.ErrIllegal, c.Name, c.Ability.Name)
	}
	switch c.Ability.Effect.Kind {
	case card.EffectCoinBonus, card.EffectDamageBoost, card.EffectDamageReduction:
		return nil, fmt.Errorf("%w: %s is not an activated ability", player.ErrIllegal, c.Ability.Name)
	}
	a, err := d.apply(c.Ability.Name, c.Ability.Effect, c, self, opp)
	if err != nil {
		return nil, err
	}
	c.AbilityUsed = true
	return a, nil
}

// Bind returns the EffectRunner used for trainers played by self against opp.
// Resolved effects are passed to record when it is non-nil.
func (d *Dispatcher) Bind(self, opp *player.Player, record func(Applied)) player.EffectRunner {
	return &trainerRunner{d: d, self: self, opp: opp, record: record}
}

type trainerRunner struct {
	d      *Dispatcher
	self   *player.Player
	opp    *player.Player
	record func(Applied)
}

// RunTrainer resolves t's effect. target is the chosen own creature for
// healing and switching; nil targets the active creature where that makes sense.
func (r *trainerRunner) RunTrainer(t *card.Trainer, target *card.Creature) error {
	e := t.Effect
	switch e.Kind {
	case card.EffectHealTarget:
		if target == nil {
			target = r.self.Active
		}
		if !r.self.OnBoard(target) {
			return fmt.Errorf("%w: %s needs one of your creatures", player.ErrIllegal, t.Name)
		}
	case card.EffectSwitch:
		if target == nil || r.self.Active == nil || !r.self.OnBoard(target) || target == r.self.Active {
			return fmt.Errorf("%w: %s needs a benched creature", player.ErrIllegal, t.Name)
		}
	case card.EffectDamageBoost, card.EffectDamageReduction, card.EffectCoinBonus, card.EffectNone:
		return fmt.Errorf("%w: %s cannot be played from the hand", player.ErrIllegal, t.Name)
	}
	actor := target
	if actor == nil {
		actor = r.self.Active
	}
	a, err := r.d.apply(t.Name, e, actor, r.self, r.opp)
	if err != nil {
		return err
	}
	if a != nil && r.record != nil {
		r.record(*a)
	}
	return nil
}

// apply resolves e for actor, owned by self, against opp.
func (d *Dispatcher) apply(from string, e card.Effect, actor *card.Creature, self, opp *player.Player) (*Applied, error) {
	a := &Applied{Kind: e.Kind, From: from}
	switch e.Kind {
	case card.EffectHealSelf, card.EffectHealTarget:
		if actor == nil {
			return a, nil
		}
		a.Target = actor.Name
		a.Amount = actor.Heal(e.Amount)
	case card.EffectApplyStatus:
		if !d.knownStatus(e.Status) {
			return nil, fmt.Errorf("effect %s: no rules for status %q", from, e.Status)
		}
		if opp.Active == nil {
			return a, nil
		}
		condition.Apply(opp.Active, e.Status)
		a.Target = opp.Active.Name
		a.Status = e.Status
	case card.EffectSearchDeck:
		found := self.SearchDeck(func(c card.Card) bool {
			cr, ok := c.(*card.Creature)
			return ok && (e.Element == "" || cr.Element == e.Element)
		}, d.src)
		if found != nil {
			a.Target = found.DisplayName()
			a.Amount = 1
		}
	case card.EffectBenchEnergy:
		if self.Energy <= 0 {
			return a, nil
		}
		for _, b := range self.Bench {
			if b.Element == e.Element {
				if err := self.AttachEnergy(b, e.Element); err != nil {
					return nil, err
				}
				a.Target = b.Name
				a.Amount = 1
				break
			}
		}
	case card.EffectDraw:
		a.Amount = len(self.Draw(e.Amount))
	case card.EffectDiscardHandDraw:
		self.DiscardHand()
		a.Amount = len(self.Draw(e.Amount))
	case card.EffectSwitch:
		if err := self.Switch(actor); err != nil {
			return nil, err
		}
		a.Target = actor.Name
	case card.EffectScript:
		if d.scripts == nil {
			return nil, fmt.Errorf("effect %s: no script runner for hook %q", from, e.Hook)
		}
		h := &host{d: d, actor: actor, self: self, opp: opp}
		if err := d.scripts.RunEffect(e.Hook, h); err != nil {
			if !h.acted {
				return nil, fmt.Errorf("effect %s: %w", from, err)
			}
			// The script already changed the game, so the play stands.
			d.logger.Warn("script failed after acting",
				zap.String("from", from),
				zap.String("hook", e.Hook),
				zap.Error(err),
			)
		}
		a.Amount = h.damage
		a.Flips = h.flips
	default:
		return nil, fmt.Errorf("effect %s: unsupported kind %q", from, e.Kind)
	}
	d.logger.Debug("effect applied",
		zap.String("from", from),
		zap.String("kind", string(e.Kind)),
		zap.String("target", a.Target),
		zap.Int("amount", a.Amount),
	)
	return a, nil
}
