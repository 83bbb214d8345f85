package condition

import (
	"github.com/cory-johannsen/cardclash/internal/game/card"
	"github.com/cory-johannsen/cardclash/internal/game/dice"
)

// Apply gives c status s, replacing any existing status.
//
// Precondition: c must be non-nil.
func Apply(c *card.Creature, s card.Status) {
	if s == "" {
		s = card.StatusNone
	}
	c.Status = s
}

// Clear removes any status from c.
func Clear(c *card.Creature) {
	c.Status = card.StatusNone
}

// TickResult records what a between-turns check did to a creature.
type TickResult struct {
	Status     card.Status      // status before the check
	Damage     int              // HP actually lost
	Flip       *dice.FlipResult // nil when no flip was made
	Cleared    bool
	KnockedOut bool
}

// Tick runs the between-turns check for c's status. Damage is applied
// before the clearing flip, so a burned creature always takes its damage.
// A nil c or a status without tick rules yields a zero TickResult.
//
// Precondition: src must be non-nil.
// Postcondition: c.Status is either unchanged or card.StatusNone.
func (r *Registry) Tick(c *card.Creature, src dice.Source) TickResult {
	if c == nil || !c.HasStatus() {
		return TickResult{}
	}
	res := TickResult{Status: c.Status}
	def, ok := r.Get(c.Status)
	if !ok || !def.Ticks {
		return res
	}
	if def.TickDamage > 0 {
		res.Damage = c.ApplyDamage(def.TickDamage)
	}
	switch {
	case def.ClearAfterCheck:
		res.Cleared = true
	case def.ClearOnHeads:
		flip := dice.FlipN(string(def.ID), 1, src)
		res.Flip = &flip
		res.Cleared = flip.Heads() == 1
	}
	if res.Cleared {
		Clear(c)
	}
	res.KnockedOut = c.IsKnockedOut()
	return res
}

// IsActionRestricted reports whether c's status blocks action.
func (r *Registry) IsActionRestricted(c *card.Creature, action string) bool {
	if c == nil || !c.HasStatus() {
		return false
	}
	def, ok := r.Get(c.Status)
	if !ok {
		return false
	}
	for _, a := range def.RestrictActions {
		if a == action {
			return true
		}
	}
	return false
}

// CanAttack reports whether c may declare an attack.
func (r *Registry) CanAttack(c *card.Creature) bool {
	return c != nil && !r.IsActionRestricted(c, ActionAttack)
}

// ConfusionCheck flips for an attacking creature whose status carries
// attack-time self damage. It returns the self damage to apply (0 on tails or
// when the status has none) and the flip, which is nil when no flip was made.
func (r *Registry) ConfusionCheck(c *card.Creature, src dice.Source) (int, *dice.FlipResult) {
	if c == nil || !c.HasStatus() {
		return 0, nil
	}
	def, ok := r.Get(c.Status)
	if !ok || def.SelfDamage == 0 {
		return 0, nil
	}
	flip := dice.FlipN(string(def.ID), 1, src)
	if flip.Heads() == 1 {
		return def.SelfDamage, &flip
	}
	return 0, &flip
}
