// Package card defines the card model of the battle engine: elements,
// energy, attacks, effects, creature and trainer cards, and the YAML
// catalog the cards are built from.
package card

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Element is a creature or energy type. Colorless in a cost matches any
// attached element.
type Element string

const (
	Colorless Element = "colorless"
	Grass     Element = "grass"
	Fire      Element = "fire"
	Water     Element = "water"
	Lightning Element = "lightning"
	Psychic   Element = "psychic"
	Fighting  Element = "fighting"
	Darkness  Element = "darkness"
	Metal     Element = "metal"
	Dragon    Element = "dragon"
)

// Elements lists every element in canonical order. Colorless requirements
// are paid from attached energy in this order.
var Elements = []Element{Colorless, Grass, Fire, Water, Lightning, Psychic, Fighting, Darkness, Metal, Dragon}

var elementAliases = map[string]Element{
	"normal":   Colorless,
	"electric": Lightning,
	"dark":     Darkness,
	"steel":    Metal,
}

// ParseElement converts a case-insensitive name into an Element.
// "Normal" and "Electric" are accepted as aliases for Colorless and Lightning.
//
// Postcondition: Returns a member of Elements or an error.
func ParseElement(s string) (Element, error) {
	k := strings.ToLower(strings.TrimSpace(s))
	for _, e := range Elements {
		if string(e) == k {
			return e, nil
		}
	}
	if e, ok := elementAliases[k]; ok {
		return e, nil
	}
	return "", fmt.Errorf("unknown element %q", s)
}

// Valid reports whether e is a known element.
func (e Element) Valid() bool {
	for _, x := range Elements {
		if x == e {
			return true
		}
	}
	return false
}

// UnmarshalYAML parses an element name, rejecting unknown names.
func (e *Element) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		*e = ""
		return nil
	}
	parsed, err := ParseElement(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*e = parsed
	return nil
}

// Status is the special condition carried by a creature. A creature has at
// most one status at a time.
type Status string

const (
	StatusNone      Status = "none"
	StatusPoison    Status = "poison"
	StatusBurn      Status = "burn"
	StatusSleep     Status = "sleep"
	StatusParalysis Status = "paralysis"
	StatusConfusion Status = "confusion"
)

// Statuses lists every status.
var Statuses = []Status{StatusNone, StatusPoison, StatusBurn, StatusSleep, StatusParalysis, StatusConfusion}

// ParseStatus converts a case-insensitive name into a Status.
// The adjective forms used on card text ("asleep", "poisoned") are accepted.
func ParseStatus(s string) (Status, error) {
	k := strings.ToLower(strings.TrimSpace(s))
	switch k {
	case "", "none":
		return StatusNone, nil
	case "poison", "poisoned":
		return StatusPoison, nil
	case "burn", "burned":
		return StatusBurn, nil
	case "sleep", "asleep":
		return StatusSleep, nil
	case "paralysis", "paralyzed":
		return StatusParalysis, nil
	case "confusion", "confused":
		return StatusConfusion, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// UnmarshalYAML parses a status name, rejecting unknown names.
func (s *Status) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*s = parsed
	return nil
}
