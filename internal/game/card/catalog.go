package card

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

// AttackDef is the YAML form of an Attack.
type AttackDef struct {
	Name   string    `yaml:"name"`
	Damage int       `yaml:"damage"`
	Cost   []Element `yaml:"cost"`
	Text   string    `yaml:"text,omitempty"`
	Effect Effect    `yaml:"effect,omitempty"`
}

// AbilityDef is the YAML form of an Ability.
type AbilityDef struct {
	Name   string `yaml:"name"`
	Text   string `yaml:"text,omitempty"`
	Effect Effect `yaml:"effect"`
}

// Definition is the static definition of one catalog card.
type Definition struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Kind        Kind        `yaml:"kind"`
	Element     Element     `yaml:"element,omitempty"`
	Weakness    Element     `yaml:"weakness,omitempty"`
	HP          int         `yaml:"hp,omitempty"`
	EX          bool        `yaml:"ex,omitempty"`
	EvolvesFrom string      `yaml:"evolves_from,omitempty"`
	RetreatCost *int        `yaml:"retreat_cost,omitempty"` // defaults to 1 for creatures
	Attacks     []AttackDef `yaml:"attacks,omitempty"`
	Ability     *AbilityDef `yaml:"ability,omitempty"`
	Text        string      `yaml:"text,omitempty"`
	Effect      Effect      `yaml:"effect,omitempty"`
}

// Validate checks that d describes a playable card.
//
// Postcondition: Returns nil if d is valid, or an error joining every problem found.
func (d *Definition) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	switch {
	case d.Kind.IsCreature():
		errs = append(errs, d.validateCreature()...)
	case d.Kind.IsTrainer():
		errs = append(errs, d.validateTrainer()...)
	default:
		errs = append(errs, fmt.Errorf("unknown kind %q", d.Kind))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("card %q: %w", d.ID, errors.Join(errs...))
}

func (d *Definition) validateCreature() []error {
	var errs []error
	if d.HP <= 0 {
		errs = append(errs, errors.New("hp must be > 0"))
	}
	if !d.Element.Valid() {
		errs = append(errs, errors.New("element must be set"))
	}
	if d.Kind == KindBasic && d.EvolvesFrom != "" {
		errs = append(errs, errors.New("basic creature must not evolve from another card"))
	}
	if d.Kind == KindEvolution && d.EvolvesFrom == "" {
		errs = append(errs, errors.New("evolution must name evolves_from"))
	}
	if d.RetreatCost != nil && *d.RetreatCost < 0 {
		errs = append(errs, errors.New("retreat_cost must be >= 0"))
	}
	if !d.Effect.IsZero() {
		errs = append(errs, errors.New("creatures carry effects on attacks or abilities only"))
	}
	for i, a := range d.Attacks {
		if a.Name == "" {
			errs = append(errs, fmt.Errorf("attack %d: name must not be empty", i))
		}
		if a.Damage < 0 {
			errs = append(errs, fmt.Errorf("attack %q: damage must be >= 0", a.Name))
		}
		if err := a.Effect.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("attack %q: %w", a.Name, err))
		}
	}
	if d.Ability != nil {
		if d.Ability.Name == "" {
			errs = append(errs, errors.New("ability: name must not be empty"))
		}
		if err := d.Ability.Effect.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("ability %q: %w", d.Ability.Name, err))
		}
	}
	return errs
}

func (d *Definition) validateTrainer() []error {
	var errs []error
	if d.HP != 0 || len(d.Attacks) > 0 || d.Ability != nil {
		errs = append(errs, errors.New("trainers must not have hp, attacks or abilities"))
	}
	if d.Effect.IsZero() {
		errs = append(errs, errors.New("trainer effect must be set"))
	} else if err := d.Effect.Validate(); err != nil {
		errs = append(errs, err)
	}
	if d.Kind == KindTool {
		switch d.Effect.Kind {
		case EffectDamageBoost, EffectDamageReduction, EffectNone:
		default:
			errs = append(errs, fmt.Errorf("tool effect %q is not a passive modifier", d.Effect.Kind))
		}
	}
	return errs
}

// Build returns a fresh card instance for d carrying instance ID id.
//
// Precondition: d.Validate() == nil.
func (d *Definition) Build(id string) Card {
	if d.Kind.IsTrainer() {
		return &Trainer{ID: id, Number: d.ID, Name: d.Name, TrainerKind: d.Kind, Effect: d.Effect}
	}
	c := NewCreature(id, d.Name, d.HP, d.Element)
	c.Number = d.ID
	c.EvolvesFrom = d.EvolvesFrom
	c.Weakness = d.Weakness
	c.EX = d.EX
	if d.RetreatCost != nil {
		c.RetreatCost = *d.RetreatCost
	}
	for _, a := range d.Attacks {
		c.Attacks = append(c.Attacks, Attack{
			Name:   a.Name,
			Damage: a.Damage,
			Cost:   append(Cost(nil), a.Cost...),
			Effect: a.Effect,
		})
	}
	if d.Ability != nil {
		c.Ability = &Ability{Name: d.Ability.Name, Effect: d.Ability.Effect}
	}
	return c
}

// File is the on-disk layout of a catalog YAML file: one set of cards.
type File struct {
	Set   string        `yaml:"set"`
	Cards []*Definition `yaml:"cards"`
}

// Catalog holds every known card Definition keyed by ID.
type Catalog struct {
	defs map[string]*Definition
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{defs: make(map[string]*Definition)}
}

// Register validates def and adds it to the catalog.
//
// Postcondition: Returns an error if def is invalid or its ID is already registered.
func (c *Catalog) Register(def *Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	if _, dup := c.defs[def.ID]; dup {
		return fmt.Errorf("duplicate card id %q", def.ID)
	}
	c.defs[def.ID] = def
	return nil
}

// Get returns the Definition for id, or (nil, false) if not found.
func (c *Catalog) Get(id string) (*Definition, bool) {
	d, ok := c.defs[id]
	return d, ok
}

// All returns every Definition sorted by ID.
func (c *Catalog) All() []*Definition {
	out := make([]*Definition, 0, len(c.defs))
	for _, d := range c.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ScriptHooks returns the sorted, de-duplicated Lua hooks referenced by the catalog.
func (c *Catalog) ScriptHooks() []string {
	seen := make(map[string]bool)
	var hooks []string
	add := func(e Effect) {
		for _, h := range e.ScriptHooks() {
			if !seen[h] {
				seen[h] = true
				hooks = append(hooks, h)
			}
		}
	}
	for _, d := range c.defs {
		add(d.Effect)
		for _, a := range d.Attacks {
			add(a.Effect)
		}
		if d.Ability != nil {
			add(d.Ability.Effect)
		}
	}
	sort.Strings(hooks)
	return hooks
}

// LoadFromBytes parses one catalog file and registers its cards into c.
//
// Postcondition: Returns an error naming the first malformed or invalid card.
func (c *Catalog) LoadFromBytes(data []byte) error {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return fmt.Errorf("parsing catalog: %w", err)
	}
	for _, d := range f.Cards {
		if err := c.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// LoadCatalog reads every *.yaml file in dir and returns the populated Catalog.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Catalog, or an error if any file fails to parse or validate.
func LoadCatalog(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading catalog dir %q: %w", dir, err)
	}
	cat := NewCatalog()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		if err := cat.LoadFromBytes(data); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
	}
	return cat, nil
}
