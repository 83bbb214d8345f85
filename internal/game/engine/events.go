package engine

import (
	"fmt"

	"github.com/cory-johannsen/cardclash/internal/game/combat"
	"github.com/cory-johannsen/cardclash/internal/game/condition"
)

// EventType enumerates all observable game events.
type EventType int

const (
	EventSetup EventType = iota
	EventPhaseChange
	EventNewTurn
	EventDraw
	EventEnergyGrant
	EventAttachEnergy
	EventEvolve
	EventBench
	EventAbility
	EventSupporter
	EventItem
	EventTool
	EventEffect
	EventRetreat
	EventAttack
	EventStatusCheck
	EventKnockout
	EventPromote
	EventWin
)

func (e EventType) String() string {
	switch e {
	case EventSetup:
		return "Setup"
	case EventPhaseChange:
		return "PhaseChange"
	case EventNewTurn:
		return "NewTurn"
	case EventDraw:
		return "Draw"
	case EventEnergyGrant:
		return "EnergyGrant"
	case EventAttachEnergy:
		return "AttachEnergy"
	case EventEvolve:
		return "Evolve"
	case EventBench:
		return "Bench"
	case EventAbility:
		return "Ability"
	case EventSupporter:
		return "Supporter"
	case EventItem:
		return "Item"
	case EventTool:
		return "Tool"
	case EventEffect:
		return "Effect"
	case EventRetreat:
		return "Retreat"
	case EventAttack:
		return "Attack"
	case EventStatusCheck:
		return "StatusCheck"
	case EventKnockout:
		return "Knockout"
	case EventPromote:
		return "Promote"
	case EventWin:
		return "Win"
	default:
		return fmt.Sprintf("EventType(%d)", int(e))
	}
}

// Event is one observable state change.
type Event struct {
	Seq     int
	Turn    int
	Player  int // seat index of the player the event concerns
	Type    EventType
	Card    string // display name of the main card involved
	Target  string // display name of the affected creature, if any
	Amount  int
	Details string
}

// Rejection records an action refused because it broke a rule. Rejected
// actions change nothing.
type Rejection struct {
	Step string
	Card string // instance ID named by the action
	Err  error
}

// TurnLog is the record of one turn.
type TurnLog struct {
	Turn     int
	Player   int
	Events   []Event
	Rejected []Rejection
	// Attack is set when an attack was resolved.
	Attack *combat.AttackOutcome
	// StatusCheck is the end-of-turn check of the acting player's active creature.
	StatusCheck *condition.TickResult
	GameOver    bool
	Winner      int // valid when GameOver
}

// Has reports whether the log contains an event of type t.
func (l *TurnLog) Has(t EventType) bool {
	return l.Count(t) > 0
}

// Count returns the number of events of type t.
func (l *TurnLog) Count(t EventType) int {
	n := 0
	for _, e := range l.Events {
		if e.Type == t {
			n++
		}
	}
	return n
}
