package ai

import (
	"github.com/cory-johannsen/cardclash/internal/game/condition"
	"github.com/cory-johannsen/cardclash/internal/game/player"
)

// Condition is a named method precondition.
type Condition func(s *State) bool

// Conditions lists every precondition a domain may name.
var Conditions = map[string]Condition{
	"can_attack":      canAttack,
	"can_knock_out":   func(s *State) bool { return s.CanKnockOut() },
	"should_retreat":  shouldRetreat,
	"active_damaged":  func(s *State) bool { return s.Self.Active != nil && s.Self.Active.HP < s.Self.Active.MaxHP },
	"bench_has_room":  func(s *State) bool { return len(s.Self.Bench) < player.BenchCapacity },
	"behind_on_score": func(s *State) bool { return s.Self.Score < s.Opp.Score },
	"early_game":      func(s *State) bool { return s.Turn < 4 },
}

func canAttack(s *State) bool {
	return s.Self.Active != nil && s.Opp.Active != nil &&
		s.Statuses.CanAttack(s.Self.Active) && len(s.Self.Active.Attacks) > 0
}

// shouldRetreat holds when the active creature is close to being knocked out
// or cannot attack, a healthier creature is benched and the retreat is payable.
func shouldRetreat(s *State) bool {
	a := s.Self.Active
	to := s.StrongestBench()
	if a == nil || to == nil || s.Self.Retreated || !s.Self.CanRetreat(to) {
		return false
	}
	if s.Statuses.IsActionRestricted(a, condition.ActionRetreat) {
		return false
	}
	if !s.Statuses.CanAttack(a) {
		return true
	}
	return HPPercent(a) < 30 && to.HP > a.HP
}
