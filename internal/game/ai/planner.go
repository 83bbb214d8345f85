package ai

import "fmt"

// PlannedAction is one primitive action produced by the planner.
type PlannedAction struct {
	Action string // one of the Action* constants
	Target string // target token from the operator; empty when none
}

// Planner evaluates an HTN domain and produces an ordered action plan for
// the current turn.
//
// Invariant: domain must not be nil.
type Planner struct {
	domain *Domain
}

// NewPlanner constructs a Planner.
//
// Precondition: domain must not be nil and must have passed Validate.
func NewPlanner(domain *Domain) *Planner {
	if domain == nil {
		panic("ai.NewPlanner: domain must not be nil")
	}
	return &Planner{domain: domain}
}

// Domain returns the planner's domain.
func (p *Planner) Domain() *Domain {
	return p.domain
}

// Plan evaluates the HTN domain against state and returns an ordered plan.
//
// Precondition: state and state.Self must not be nil.
// Postcondition: returns a non-nil slice (may be empty).
func (p *Planner) Plan(state *State) ([]PlannedAction, error) {
	if state == nil || state.Self == nil {
		return nil, fmt.Errorf("ai.Planner.Plan: state and state.Self must not be nil")
	}

	taskQueue := []string{RootTask}
	result := []PlannedAction{}

	const maxDepth = 32 // guards against recursive domains
	steps := 0

	for len(taskQueue) > 0 && steps < maxDepth {
		steps++
		current := taskQueue[0]
		taskQueue = taskQueue[1:]

		if op, ok := p.domain.OperatorByID(current); ok {
			result = append(result, PlannedAction{Action: op.Action, Target: op.Target})
			continue
		}

		method := p.findApplicableMethod(current, state)
		if method == nil {
			continue
		}
		taskQueue = append(append([]string(nil), method.Subtasks...), taskQueue...)
	}
	return result, nil
}

// findApplicableMethod returns the first Method for taskID whose
// precondition holds, or nil. An empty precondition always holds.
func (p *Planner) findApplicableMethod(taskID string, state *State) *Method {
	for _, m := range p.domain.MethodsForTask(taskID) {
		if m.Precondition == "" {
			return m
		}
		if cond, ok := Conditions[m.Precondition]; ok && cond(state) {
			return m
		}
	}
	return nil
}
