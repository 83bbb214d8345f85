// Package ai implements the Hierarchical Task Network (HTN) planner that
// drives bot players.
//
// HTN planning decomposes abstract tasks into primitive operators via ordered
// methods. Method preconditions name Conditions evaluated against a State;
// operators compile into the steps of an engine.TurnActions.
package ai

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// RootTask is the task every plan starts from.
const RootTask = "behave"

// Task is an abstract goal that can be decomposed by methods.
//
// Precondition: ID must be non-empty.
type Task struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
}

// Method decomposes a task into an ordered list of subtasks or operator IDs.
//
// Precondition: TaskID, ID, and Subtasks must be non-empty.
// Precondition: Precondition names a Condition; empty means always applicable.
type Method struct {
	TaskID       string   `yaml:"task"`
	ID           string   `yaml:"id"`
	Precondition string   `yaml:"precondition"`
	Subtasks     []string `yaml:"subtasks"`
}

// Operator is a primitive action that maps directly to one turn step.
//
// Precondition: ID and Action must be non-empty.
type Operator struct {
	ID     string `yaml:"id"`
	Action string `yaml:"action"` // one of the Action* constants
	Target string `yaml:"target"` // one of the Target* tokens, or empty
}

// Domain holds the full HTN domain loaded from a YAML file.
//
// Invariant: all Task, Method, and Operator IDs are unique within their slice.
type Domain struct {
	ID          string      `yaml:"id"`
	Description string      `yaml:"description"`
	Tasks       []*Task     `yaml:"tasks"`
	Methods     []*Method   `yaml:"methods"`
	Operators   []*Operator `yaml:"operators"`
}

// Validate checks all required fields and cross-field constraints.
//
// Postcondition: nil return guarantees non-empty ID, a RootTask, all Method
// TaskIDs and IDs non-empty with non-empty Subtasks, all Operator actions
// known, every precondition a known Condition, no duplicate IDs within any
// slice, and all cross-references valid.
func (d *Domain) Validate() error {
	if d.ID == "" {
		return errors.New("ai.Domain: ID must not be empty")
	}
	if len(d.Tasks) == 0 {
		return fmt.Errorf("ai.Domain %q: must have at least one task", d.ID)
	}

	taskIDs := make(map[string]struct{}, len(d.Tasks))
	for _, t := range d.Tasks {
		if t.ID == "" {
			return fmt.Errorf("ai.Domain %q: task has empty ID", d.ID)
		}
		if _, dup := taskIDs[t.ID]; dup {
			return fmt.Errorf("ai.Domain %q: duplicate task ID %q", d.ID, t.ID)
		}
		taskIDs[t.ID] = struct{}{}
	}
	if _, ok := taskIDs[RootTask]; !ok {
		return fmt.Errorf("ai.Domain %q: missing root task %q", d.ID, RootTask)
	}

	operatorIDs := make(map[string]struct{}, len(d.Operators))
	for _, op := range d.Operators {
		if op.ID == "" || op.Action == "" {
			return fmt.Errorf("ai.Domain %q: operator missing ID or Action", d.ID)
		}
		if !knownAction(op.Action) {
			return fmt.Errorf("ai.Domain %q operator %q: unknown action %q", d.ID, op.ID, op.Action)
		}
		if _, dup := operatorIDs[op.ID]; dup {
			return fmt.Errorf("ai.Domain %q: duplicate operator ID %q", d.ID, op.ID)
		}
		operatorIDs[op.ID] = struct{}{}
	}

	methodIDs := make(map[string]struct{}, len(d.Methods))
	for _, m := range d.Methods {
		if m.TaskID == "" || m.ID == "" {
			return fmt.Errorf("ai.Domain %q: method missing TaskID or ID", d.ID)
		}
		if len(m.Subtasks) == 0 {
			return fmt.Errorf("ai.Domain %q method %q: subtasks must not be empty", d.ID, m.ID)
		}
		if _, dup := methodIDs[m.ID]; dup {
			return fmt.Errorf("ai.Domain %q: duplicate method ID %q", d.ID, m.ID)
		}
		methodIDs[m.ID] = struct{}{}
		if _, ok := taskIDs[m.TaskID]; !ok {
			return fmt.Errorf("ai.Domain %q method %q: TaskID %q references unknown task", d.ID, m.ID, m.TaskID)
		}
		if m.Precondition != "" {
			if _, ok := Conditions[m.Precondition]; !ok {
				return fmt.Errorf("ai.Domain %q method %q: unknown precondition %q", d.ID, m.ID, m.Precondition)
			}
		}
		for _, sub := range m.Subtasks {
			_, isTask := taskIDs[sub]
			_, isOp := operatorIDs[sub]
			if !isTask && !isOp {
				return fmt.Errorf("ai.Domain %q method %q: subtask %q is neither a task nor an operator", d.ID, m.ID, sub)
			}
		}
	}
	return nil
}

// OperatorByID returns the operator with the given ID, or false if not found.
func (d *Domain) OperatorByID(id string) (*Operator, bool) {
	for _, op := range d.Operators {
		if op.ID == id {
			return op, true
		}
	}
	return nil, false
}

// MethodsForTask returns all methods that decompose taskID, in declaration order.
func (d *Domain) MethodsForTask(taskID string) []*Method {
	var out []*Method
	for _, m := range d.Methods {
		if m.TaskID == taskID {
			out = append(out, m)
		}
	}
	return out
}

// yamlDomainFile wraps the YAML top-level key.
type yamlDomainFile struct {
	Domain *Domain `yaml:"domain"`
}

// ParseDomain decodes and validates one domain document.
func ParseDomain(data []byte) (*Domain, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f yamlDomainFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing domain: %w", err)
	}
	if f.Domain == nil {
		return nil, errors.New("missing top-level 'domain' key")
	}
	if err := f.Domain.Validate(); err != nil {
		return nil, err
	}
	return f.Domain, nil
}

// LoadDomains reads all *.yaml files from dir and returns parsed Domains
// sorted by ID.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns error if any YAML file fails to parse or validate.
func LoadDomains(dir string) ([]*Domain, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ai.LoadDomains: reading %q: %w", dir, err)
	}
	var domains []*Domain
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("ai.LoadDomains: reading %s: %w", e.Name(), err)
		}
		d, err := ParseDomain(data)
		if err != nil {
			return nil, fmt.Errorf("ai.LoadDomains: %s: %w", e.Name(), err)
		}
		domains = append(domains, d)
	}
	sort.Slice(domains, func(i, j int) bool { return domains[i].ID < domains[j].ID })
	return domains, nil
}

// DefaultDomain returns the built-in aggressive domain: develop the board,
// then retreat a creature in danger or attack.
func DefaultDomain() *Domain {
	return &Domain{
		ID:          "aggro",
		Description: "Develop every turn, retreat creatures in danger, attack whenever possible.",
		Tasks: []*Task{
			{ID: RootTask},
			{ID: "develop"},
			{ID: "fight"},
		},
		Methods: []*Method{
			{TaskID: RootTask, ID: "full_turn", Subtasks: []string{"develop", "fight"}},
			{TaskID: "develop", ID: "grow_board", Subtasks: []string{
				"do_evolve", "do_bench", "do_attach", "do_abilities", "do_supporter", "do_items", "do_tool",
			}},
			{TaskID: "fight", ID: "escape", Precondition: "should_retreat", Subtasks: []string{"do_retreat", "do_attack"}},
			{TaskID: "fight", ID: "strike", Precondition: "can_attack", Subtasks: []string{"do_attack"}},
			{TaskID: "fight", ID: "wait", Subtasks: []string{"do_pass"}},
		},
		Operators: []*Operator{
			{ID: "do_evolve", Action: ActionEvolve},
			{ID: "do_bench", Action: ActionBench},
			{ID: "do_attach", Action: ActionAttachEnergy, Target: TargetNeediest},
			{ID: "do_abilities", Action: ActionAbilities},
			{ID: "do_supporter", Action: ActionSupporter, Target: TargetWeakestOwn},
			{ID: "do_items", Action: ActionItems, Target: TargetWeakestOwn},
			{ID: "do_tool", Action: ActionTool, Target: TargetActive},
			{ID: "do_retreat", Action: ActionRetreat, Target: TargetStrongestBench},
			{ID: "do_attack", Action: ActionAttack},
			{ID: "do_pass", Action: ActionPass},
		},
	}
}
