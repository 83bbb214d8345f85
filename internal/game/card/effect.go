package card

import (
	"errors"
	"fmt"
)

// EffectKind tags the variant held by an Effect.
type EffectKind string

const (
	EffectNone            EffectKind = ""
	EffectHealSelf        EffectKind = "heal_self"         // heal the acting creature by Amount
	EffectHealTarget      EffectKind = "heal_target"       // heal a chosen own creature by Amount
	EffectApplyStatus     EffectKind = "apply_status"      // give the defending creature Status
	EffectCoinBonus       EffectKind = "coin_bonus"        // +Amount damage per heads over Coins flips
	EffectSearchDeck      EffectKind = "search_deck"       // random creature of Element (any when empty) from deck to hand
	EffectBenchEnergy     EffectKind = "bench_energy"      // pool token to the first benched creature of Element
	EffectDraw            EffectKind = "draw"              // draw Amount cards
	EffectDiscardHandDraw EffectKind = "discard_hand_draw" // discard the hand, then draw Amount
	EffectSwitch          EffectKind = "switch"            // swap the active with a benched creature
	EffectDamageBoost     EffectKind = "damage_boost"      // tool: +Amount to attacks of the holder
	EffectDamageReduction EffectKind = "damage_reduction"  // tool: -Amount from attacks against the holder
	EffectScript          EffectKind = "script"            // call the Lua function Hook
)

// Effect is a tagged card effect. Only the fields meaningful for Kind are set.
type Effect struct {
	Kind    EffectKind `yaml:"kind"`
	Amount  int        `yaml:"amount,omitempty"`
	Coins   int        `yaml:"coins,omitempty"`
	Status  Status     `yaml:"status,omitempty"`
	Element Element    `yaml:"element,omitempty"`
	Hook    string     `yaml:"hook,omitempty"`
}

// IsZero reports whether e carries no effect.
func (e Effect) IsZero() bool {
	return e.Kind == EffectNone
}

// Validate checks that the fields required by e.Kind are present.
//
// Postcondition: Returns nil if e is well-formed.
func (e Effect) Validate() error {
	switch e.Kind {
	case EffectNone, EffectSwitch:
		return nil
	case EffectHealSelf, EffectHealTarget, EffectDraw, EffectDiscardHandDraw,
		EffectDamageBoost, EffectDamageReduction:
		if e.Amount <= 0 {
			return fmt.Errorf("effect %s: amount must be > 0", e.Kind)
		}
	case EffectApplyStatus:
		if e.Status == "" || e.Status == StatusNone {
			return fmt.Errorf("effect %s: status must be set", e.Kind)
		}
	case EffectCoinBonus:
		if e.Amount <= 0 || e.Coins <= 0 {
			return fmt.Errorf("effect %s: amount and coins must be > 0", e.Kind)
		}
	case EffectSearchDeck:
		if e.Element != "" && !e.Element.Valid() {
			return fmt.Errorf("effect %s: invalid element %q", e.Kind, e.Element)
		}
	case EffectBenchEnergy:
		if !e.Element.Valid() {
			return fmt.Errorf("effect %s: element must be set", e.Kind)
		}
	case EffectScript:
		if e.Hook == "" {
			return errors.New("effect script: hook must be set")
		}
	default:
		return fmt.Errorf("unknown effect kind %q", e.Kind)
	}
	return nil
}

// ScriptHooks returns the Lua hook names referenced by e.
func (e Effect) ScriptHooks() []string {
	if e.Kind == EffectScript {
		return []string{e.Hook}
	}
	return nil
}
