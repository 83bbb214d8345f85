package ai

import (
	"github.com/cory-johannsen/cardclash/internal/game/card"
	"github.com/cory-johannsen/cardclash/internal/game/combat"
	"github.com/cory-johannsen/cardclash/internal/game/condition"
	"github.com/cory-johannsen/cardclash/internal/game/effect"
	"github.com/cory-johannsen/cardclash/internal/game/engine"
	"github.com/cory-johannsen/cardclash/internal/game/player"
)

// State is the snapshot the planner reasons about: the acting player, the
// opponent and the turn. It reads the live players and must not outlive the
// planning call.
//
// Invariant: Self must not be nil.
type State struct {
	Turn     int
	Self     *player.Player
	Opp      *player.Player
	Statuses *condition.Registry
}

// BuildState snapshots g for the player whose turn it is.
//
// Precondition: g must be in PhaseMain.
func BuildState(g *engine.Game) *State {
	pi := g.CurrentPlayer()
	return &State{
		Turn:     g.Turn(),
		Self:     g.Player(pi),
		Opp:      g.Player(1 - pi),
		Statuses: g.Statuses(),
	}
}

// HPPercent returns current HP as a percentage of MaxHP; 0 if MaxHP == 0.
func HPPercent(c *card.Creature) float64 {
	if c == nil || c.MaxHP <= 0 {
		return 0
	}
	return float64(c.HP) / float64(c.MaxHP) * 100
}

// ExpectedDamage estimates the damage attack atk of attacker deals to
// defender, counting weakness and tools and the average coin bonus.
func ExpectedDamage(attacker *card.Creature, atk card.Attack, defender *card.Creature) int {
	dmg := atk.Damage + effect.ToolBoost(attacker)
	if atk.Effect.Kind == card.EffectCoinBonus {
		dmg += atk.Effect.Amount * atk.Effect.Coins / 2
	}
	if defender != nil {
		if defender.Weakness != "" && defender.Weakness == attacker.Element {
			dmg += combat.WeaknessBonus
		}
		dmg -= effect.ToolReduction(defender)
	}
	if dmg < 0 {
		return 0
	}
	return dmg
}

// BestAttack returns the index of c's payable attack with the highest
// expected damage against the opposing active creature, or -1.
func (s *State) BestAttack(c *card.Creature, energy card.Energy) int {
	if c == nil {
		return -1
	}
	best, bestDmg := -1, -1
	for i, atk := range c.Attacks {
		if !energy.CanPay(atk.Cost) {
			continue
		}
		if d := ExpectedDamage(c, atk, s.Opp.Active); d > bestDmg {
			best, bestDmg = i, d
		}
	}
	return best
}

// CanKnockOut reports whether the active creature can knock out the
// defender with an attack it can pay for right now.
func (s *State) CanKnockOut() bool {
	a, d := s.Self.Active, s.Opp.Active
	if a == nil || d == nil {
		return false
	}
	i := s.BestAttack(a, a.Energy)
	return i >= 0 && ExpectedDamage(a, a.Attacks[i], d) >= d.HP
}

// StrongestBench returns the benched creature with the most HP, ties broken
// by bench order, or nil.
func (s *State) StrongestBench() *card.Creature {
	var best *card.Creature
	for _, c := range s.Self.Bench {
		if best == nil || c.HP > best.HP {
			best = c
		}
	}
	return best
}

// missingEnergy returns how many more energy c needs, holding energy, for
// its costliest attack.
func missingEnergy(c *card.Creature, energy card.Energy) int {
	most := 0
	for _, atk := range c.Attacks {
		if len(atk.Cost) > most {
			most = len(atk.Cost)
		}
	}
	if n := most - energy.Total(); n > 0 {
		return n
	}
	return 0
}
