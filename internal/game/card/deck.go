package card

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// DeckEntry is one line of a deck list.
type DeckEntry struct {
	ID    string `yaml:"id"`
	Count int    `yaml:"count"`
}

// DeckDef is a named deck list loaded from YAML.
type DeckDef struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Cards       []DeckEntry `yaml:"cards"`
}

// Size returns the number of cards in d.
func (d *DeckDef) Size() int {
	n := 0
	for _, e := range d.Cards {
		n += e.Count
	}
	return n
}

// Validate checks d against the catalog cat.
//
// Postcondition: Returns nil if every entry names a known card with a positive count.
func (d *DeckDef) Validate(cat *Catalog) error {
	var errs []error
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if len(d.Cards) == 0 {
		errs = append(errs, errors.New("cards must not be empty"))
	}
	for _, e := range d.Cards {
		if e.Count <= 0 {
			errs = append(errs, fmt.Errorf("card %q: count must be > 0", e.ID))
		}
		if _, ok := cat.Get(e.ID); !ok {
			errs = append(errs, fmt.Errorf("card %q: not in catalog", e.ID))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("deck %q: %w", d.Name, errors.Join(errs...))
}

// BuildDeck expands def into card instances, each with a fresh UUID, in list order.
//
// Postcondition: len(result) == def.Size() on success.
func (c *Catalog) BuildDeck(def *DeckDef) ([]Card, error) {
	if err := def.Validate(c); err != nil {
		return nil, err
	}
	out := make([]Card, 0, def.Size())
	for _, e := range def.Cards {
		d, _ := c.Get(e.ID)
		for i := 0; i < e.Count; i++ {
			out = append(out, d.Build(uuid.New().String()))
		}
	}
	return out, nil
}

// LoadDeckFromBytes parses a single deck list.
func LoadDeckFromBytes(data []byte) (*DeckDef, error) {
	var d DeckDef
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("parsing deck: %w", err)
	}
	return &d, nil
}

// LoadDecks reads every *.yaml deck list in dir, validates each against cat,
// and returns them sorted by name.
//
// Precondition: dir must be a readable directory; cat must be non-nil.
func LoadDecks(dir string, cat *Catalog) ([]*DeckDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading deck dir %q: %w", dir, err)
	}
	var decks []*DeckDef
	seen := make(map[string]bool)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		d, err := LoadDeckFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		if err := d.Validate(cat); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		if seen[d.Name] {
			return nil, fmt.Errorf("loading %q: duplicate deck name %q", path, d.Name)
		}
		seen[d.Name] = true
		decks = append(decks, d)
	}
	sort.Slice(decks, func(i, j int) bool { return decks[i].Name < decks[j].Name })
	return decks, nil
}
