package engine

// Evolution plays the evolution card CardID from the hand onto the board
// creature TargetID.
type Evolution struct {
	CardID   string
	TargetID string
}

// TrainerPlay plays the trainer CardID from the hand. TargetID names an own
// board creature for effects and tools that need one and may be empty otherwise.
type TrainerPlay struct {
	CardID   string
	TargetID string
}

// TurnActions is everything the acting player chooses to do in one turn.
// Steps run in field order; within a step entries run in slice order.
// Every ID is a card instance ID.
type TurnActions struct {
	// Attachments lists board creatures receiving one energy each.
	Attachments []string
	Evolutions  []Evolution
	// BenchPlays lists basic creatures to move from the hand to the bench.
	BenchPlays []string
	// Abilities lists board creatures whose ability is activated.
	Abilities []string
	Supporter *TrainerPlay
	Items     []TrainerPlay
	Tools     []TrainerPlay
	// Retreat names the benched creature to swap in; empty for no retreat.
	Retreat string
	// Attack is the index of the active creature's attack; nil for no attack.
	Attack *int
}

// AttackWith returns a pointer to i for TurnActions.Attack.
func AttackWith(i int) *int {
	return &i
}
