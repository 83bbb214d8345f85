// Package combat resolves a single attack: legality, damage with weakness
// and coin-flip bonuses, confusion, post-damage effects, cost payment and
// knockout scoring.
package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/cardclash/internal/game/card"
	"github.com/cory-johannsen/cardclash/internal/game/condition"
	"github.com/cory-johannsen/cardclash/internal/game/dice"
	"github.com/cory-johannsen/cardclash/internal/game/effect"
	"github.com/cory-johannsen/cardclash/internal/game/player"
)

// WeaknessBonus is added when the defender is weak to the attacker's element.
const WeaknessBonus = 20

// ErrIllegalAttack is wrapped by every attack precondition failure.
var ErrIllegalAttack = fmt.Errorf("%w: attack", player.ErrIllegal)

// AttackOutcome holds the full audit trail of one attack.
//
// Postcondition: Damage == max(0, BaseDamage+BonusDamage+ToolBonus+WeaknessBonus-Reduction)
// unless ConfusedSelfHit, in which case Damage == 0.
type AttackOutcome struct {
	// Attacker and Defender are creature names at declaration time.
	Attacker string
	Defender string
	// Attack is the attack name.
	Attack string
	// BaseDamage is the printed damage of the attack.
	BaseDamage int
	// BonusDamage comes from coin-flip effects resolved during this attack.
	BonusDamage int
	// ToolBonus is added by the attacker's tool.
	ToolBonus int
	// WeaknessBonus is WeaknessBonus when the defender is weak to the attacker.
	WeaknessBonus int
	// Reduction is subtracted by the defender's tool.
	Reduction int
	// Damage is the HP the defender actually lost from the attack itself.
	Damage int
	// ConfusedSelfHit is set when confusion redirected the attack.
	ConfusedSelfHit bool
	// SelfDamage is the HP the attacker lost to confusion.
	SelfDamage int
	// Flips lists every coin flip made, in order.
	Flips []dice.FlipResult
	// Effect is the post-damage effect that resolved, if any.
	Effect *effect.Applied
	// KnockedOut is set when the defender was knocked out.
	KnockedOut bool
	// Points is the score awarded to the attacker.
	Points int
	// DefenderHP is the defender's HP after damage, or 0 when knocked out.
	DefenderHP int
}

// Resolver resolves attacks. It holds no per-match state.
type Resolver struct {
	src      dice.Source
	statuses *condition.Registry
	effects  *effect.Dispatcher
	logger   *zap.Logger
}

// NewResolver creates a Resolver.
//
// Precondition: src, statuses and effects must be non-nil. A nil logger is
// replaced by a no-op logger.
func NewResolver(src dice.Source, statuses *condition.Registry, effects *effect.Dispatcher, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{src: src, statuses: statuses, effects: effects, logger: logger}
}

// CanUseAttack returns nil when att's active creature may use attack index
// idx against def, or an error wrapping ErrIllegalAttack naming the reason.
func (r *Resolver) CanUseAttack(att, def *player.Player, idx int) error {
	a := att.Active
	switch {
	case a == nil:
		return fmt.Errorf("%w: no active creature", ErrIllegalAttack)
	case !r.statuses.CanAttack(a):
		return fmt.Errorf("%w: %s is %s", ErrIllegalAttack, a.Name, a.Status)
	case idx < 0 || idx >= len(a.Attacks):
		return fmt.Errorf("%w: %s has no attack %d", ErrIllegalAttack, a.Name, idx)
	case !att.CanPayCost(a, a.Attacks[idx].Cost):
		return fmt.Errorf("%w: cannot pay %s for %s", ErrIllegalAttack, a.Attacks[idx].Cost, a.Attacks[idx].Name)
	case def.Active == nil:
		return fmt.Errorf("%w: no defending creature", ErrIllegalAttack)
	}
	return nil
}

// ResolveAttack resolves attack index idx of att's active creature against
// def's active creature. On a precondition failure nothing is modified.
//
// Postcondition: on success the attack cost has been paid; a knocked-out
// defender is in def's discard pile and att.Score includes the points.
func (r *Resolver) ResolveAttack(att, def *player.Player, idx int) (AttackOutcome, error) {
	if err := r.CanUseAttack(att, def, idx); err != nil {
		return AttackOutcome{}, err
	}
	a, d := att.Active, def.Active
	atk := a.Attacks[idx]
	out := AttackOutcome{Attacker: a.Name, Defender: d.Name, Attack: atk.Name, BaseDamage: atk.Damage}

	if self, flip := r.statuses.ConfusionCheck(a, r.src); flip != nil {
		out.Flips = append(out.Flips, *flip)
		if self > 0 {
			out.ConfusedSelfHit = true
			out.SelfDamage = a.ApplyDamage(self)
			if err := att.PayCost(a, atk.Cost); err != nil {
				return out, err
			}
			out.DefenderHP = d.HP
			r.log(out)
			return out, nil
		}
	}

	bonus, flips := r.effects.BonusDamage(atk)
	if flips != nil {
		out.Flips = append(out.Flips, *flips)
	}
	out.BonusDamage = bonus
	out.ToolBonus = effect.ToolBoost(a)
	if d.Weakness != "" && d.Weakness == a.Element {
		out.WeaknessBonus = WeaknessBonus
	}
	out.Reduction = effect.ToolReduction(d)
	dmg := out.BaseDamage + out.BonusDamage + out.ToolBonus + out.WeaknessBonus - out.Reduction
	if dmg < 0 {
		dmg = 0
	}
	out.Damage = d.ApplyDamage(dmg)

	applied, err := r.effects.AfterDamage(atk, att, def)
	if err != nil {
		r.logger.Warn("attack effect failed",
			zap.String("attack", atk.Name),
			zap.Error(err),
		)
	}
	out.Effect = applied

	if err := att.PayCost(a, atk.Cost); err != nil {
		return out, err
	}

	out.DefenderHP = d.HP
	if d.IsKnockedOut() {
		out.KnockedOut = true
		out.Points = KnockoutPoints(d)
		def.DiscardActive()
		att.Score += out.Points
	}
	r.log(out)
	return out, nil
}

// KnockoutPoints returns the score for knocking out c: 2 for EX, else 1.
func KnockoutPoints(c *card.Creature) int {
	return c.KnockoutPoints()
}

func (r *Resolver) log(out AttackOutcome) {
	r.logger.Debug("attack resolved",
		zap.String("attacker", out.Attacker),
		zap.String("defender", out.Defender),
		zap.String("attack", out.Attack),
		zap.Int("damage", out.Damage),
		zap.Int("bonus", out.BonusDamage),
		zap.Int("weakness", out.WeaknessBonus),
		zap.Bool("confused_self_hit", out.ConfusedSelfHit),
		zap.Bool("knocked_out", out.KnockedOut),
		zap.Int("points", out.Points),
	)
}
