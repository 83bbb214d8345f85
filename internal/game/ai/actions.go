package ai

// Operator actions. Each maps onto one step of engine.TurnActions.
const (
	ActionAttachEnergy = "attach_energy"
	ActionEvolve       = "evolve"
	ActionBench        = "bench"
	ActionAbilities    = "abilities"
	ActionSupporter    = "supporter"
	ActionItems        = "items"
	ActionTool         = "tool"
	ActionRetreat      = "retreat"
	ActionAttack       = "attack"
	ActionPass         = "pass"
)

var actions = map[string]struct{}{
	ActionAttachEnergy: {},
	ActionEvolve:       {},
	ActionBench:        {},
	ActionAbilities:    {},
	ActionSupporter:    {},
	ActionItems:        {},
	ActionTool:         {},
	ActionRetreat:      {},
	ActionAttack:       {},
	ActionPass:         {},
}

func knownAction(a string) bool {
	_, ok := actions[a]
	return ok
}
