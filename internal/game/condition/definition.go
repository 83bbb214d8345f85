// Package condition implements the status engine: the rules for poison,
// burn, sleep, paralysis and confusion, and the between-turns check that
// applies them to an active creature.
package condition

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/cardclash/internal/game/card"
)

// Action names used in RestrictActions.
const (
	ActionAttack  = "attack"
	ActionRetreat = "retreat"
)

// StatusDef is the rule set for one status, loadable from YAML.
type StatusDef struct {
	ID              card.Status `yaml:"id"`
	Name            string      `yaml:"name"`
	Description     string      `yaml:"description"`
	RestrictActions []string    `yaml:"restrict_actions"`
	TickDamage      int         `yaml:"tick_damage"`       // damage dealt at each check
	ClearOnHeads    bool        `yaml:"clear_on_heads"`    // flip after damage; heads clears
	ClearAfterCheck bool        `yaml:"clear_after_check"` // cleared unconditionally by one check
	Ticks           bool        `yaml:"ticks"`             // false: never checked between turns
	SelfDamage      int         `yaml:"self_damage"`       // attack-time flip; heads hits the attacker instead
}

// Validate checks that d is internally consistent.
func (d *StatusDef) Validate() error {
	if d.ID == "" || d.ID == card.StatusNone {
		return fmt.Errorf("status def %q: id must name a status", d.Name)
	}
	if d.TickDamage < 0 || d.SelfDamage < 0 {
		return fmt.Errorf("status def %q: damage must be >= 0", d.ID)
	}
	if d.ClearOnHeads && d.ClearAfterCheck {
		return fmt.Errorf("status def %q: clear_on_heads and clear_after_check are exclusive", d.ID)
	}
	if !d.Ticks && (d.TickDamage > 0 || d.ClearOnHeads || d.ClearAfterCheck) {
		return fmt.Errorf("status def %q: tick rules set on a status that does not tick", d.ID)
	}
	for _, a := range d.RestrictActions {
		if a != ActionAttack && a != ActionRetreat {
			return fmt.Errorf("status def %q: unknown restricted action %q", d.ID, a)
		}
	}
	return nil
}

// Registry holds the StatusDef for every status keyed by status.
type Registry struct {
	defs map[card.Status]*StatusDef
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[card.Status]*StatusDef)}
}

// DefaultRegistry returns the standard rules:
// poison 10 per check and never clears; burn 20 then a flip; sleep a flip;
// paralysis one check; confusion resolved at attack time with 30 self damage.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&StatusDef{ID: card.StatusPoison, Name: "Poisoned", Ticks: true, TickDamage: 10})
	r.Register(&StatusDef{ID: card.StatusBurn, Name: "Burned", Ticks: true, TickDamage: 20, ClearOnHeads: true})
	r.Register(&StatusDef{ID: card.StatusSleep, Name: "Asleep", Ticks: true, ClearOnHeads: true,
		RestrictActions: []string{ActionAttack}})
	r.Register(&StatusDef{ID: card.StatusParalysis, Name: "Paralyzed", Ticks: true, ClearAfterCheck: true,
		RestrictActions: []string{ActionAttack}})
	r.Register(&StatusDef{ID: card.StatusConfusion, Name: "Confused", SelfDamage: 30})
	return r
}

// Register adds def, overwriting any existing entry with the same ID.
//
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *StatusDef) {
	r.defs[def.ID] = def
}

// Get returns the StatusDef for s, or (nil, false) if s has no rules.
func (r *Registry) Get(s card.Status) (*StatusDef, bool) {
	d, ok := r.defs[s]
	return d, ok
}

// All returns every StatusDef sorted by ID.
func (r *Registry) All() []*StatusDef {
	out := make([]*StatusDef, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadDirectory starts from DefaultRegistry and overlays every *.yaml file in
// dir, one StatusDef per file.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading status dir %q: %w", dir, err)
	}
	reg := DefaultRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def StatusDef
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("validating %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
