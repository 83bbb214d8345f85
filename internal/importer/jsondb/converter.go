package jsondb

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/cory-johannsen/cardclash/internal/game/card"
	"github.com/cory-johannsen/cardclash/internal/importer"
)

// errSkipped marks a card that cannot be represented in the catalog.
var errSkipped = errors.New("card skipped")

// Convert maps the database cards of one set onto a catalog file. Cards
// that cannot be represented are left out and reported as warnings.
//
// Postcondition: every definition in the result passes Validate and IDs are unique.
func Convert(set string, cards []Card) (*card.File, []importer.Warning) {
	f := &card.File{Set: set}
	var warnings []importer.Warning
	seen := make(map[string]bool, len(cards))
	for _, c := range cards {
		def, notes, err := ConvertCard(c)
		name := c.Name
		if def != nil {
			name = def.ID
		}
		for _, n := range notes {
			warnings = append(warnings, importer.Warning{Card: name, Message: n})
		}
		if err != nil {
			warnings = append(warnings, importer.Warning{Card: name, Message: err.Error()})
			continue
		}
		if seen[def.ID] {
			warnings = append(warnings, importer.Warning{Card: name, Message: "duplicate id; later entry dropped"})
			continue
		}
		seen[def.ID] = true
		f.Cards = append(f.Cards, def)
	}
	return f, warnings
}

// ConvertCard maps one database card onto a definition. Notes describe
// details that were dropped. A non-nil error means the card was skipped.
func ConvertCard(c Card) (*card.Definition, []string, error) {
	def := &card.Definition{ID: c.ID, Name: strings.TrimSpace(c.Name)}
	if def.ID == "" {
		def.ID = importer.NameToID(def.Name)
	}
	if def.Name == "" {
		return nil, nil, fmt.Errorf("%w: no name", errSkipped)
	}

	kind, err := kindOf(c)
	if err != nil {
		return def, nil, err
	}
	def.Kind = kind
	var notes []string
	if kind.IsTrainer() {
		e, ok := ParseEffect(c.Effect)
		if !ok || e.IsZero() {
			return def, nil, fmt.Errorf("%w: unsupported trainer text %q", errSkipped, c.Effect)
		}
		def.Effect = e
		def.Text = c.Effect
		return def, nil, def.Validate()
	}

	if def.Element, err = elementOr(c.Type, card.Colorless); err != nil {
		return def, nil, fmt.Errorf("%w: %v", errSkipped, err)
	}
	if c.Weakness != "" {
		if w, err := card.ParseElement(c.Weakness); err == nil {
			def.Weakness = w
		} else {
			notes = append(notes, fmt.Sprintf("weakness dropped: %v", err))
		}
	}
	def.HP = leadingInt(c.HP)
	def.EX = strings.EqualFold(c.EX, "yes")
	def.EvolvesFrom = strings.TrimSpace(c.EvolvesFrom)
	if def.EvolvesFrom != "" {
		def.Kind = card.KindEvolution
	}
	retreat := 1
	if c.RetreatCost != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(c.RetreatCost)); err == nil {
			retreat = n
		}
	}
	def.RetreatCost = &retreat

	for _, a := range c.Attacks {
		ad, note, err := convertAttack(a)
		if err != nil {
			return def, notes, fmt.Errorf("%w: %v", errSkipped, err)
		}
		if note != "" {
			notes = append(notes, note)
		}
		def.Attacks = append(def.Attacks, ad)
	}

	if c.Ability != nil && c.Ability.Name != "" {
		e, ok := ParseEffect(c.Ability.Effect)
		switch {
		case !ok || e.IsZero():
			notes = append(notes, fmt.Sprintf("ability %q dropped: unsupported text", c.Ability.Name))
		case e.Kind == card.EffectCoinBonus || e.Kind == card.EffectDamageBoost || e.Kind == card.EffectDamageReduction:
			notes = append(notes, fmt.Sprintf("ability %q dropped: passive %s", c.Ability.Name, e.Kind))
		default:
			def.Ability = &card.AbilityDef{Name: c.Ability.Name, Text: c.Ability.Effect, Effect: e}
		}
	}
	return def, notes, def.Validate()
}

// convertAttack parses damage, cost and effect. Damage written as "50x" is
// dealt per heads, so the printed number becomes the coin bonus and the base
// damage is zero.
func convertAttack(a Attack) (card.AttackDef, string, error) {
	ad := card.AttackDef{Name: a.Name, Damage: leadingInt(a.Damage), Text: a.Effect}
	for _, s := range a.Cost {
		el, err := card.ParseElement(s)
		if err != nil {
			return ad, "", fmt.Errorf("attack %q: %w", a.Name, err)
		}
		ad.Cost = append(ad.Cost, el)
	}
	e, ok := ParseEffect(a.Effect)
	if !ok {
		return ad, fmt.Sprintf("attack %q: effect text not supported, damage only", a.Name), nil
	}
	ad.Effect = e
	if strings.HasSuffix(strings.TrimSpace(a.Damage), "x") && e.Kind == card.EffectCoinBonus {
		ad.Damage = 0
	}
	return ad, "", nil
}

func kindOf(c Card) (card.Kind, error) {
	t := strings.ToLower(c.CardType)
	switch {
	case strings.Contains(t, "tool"):
		return card.KindTool, nil
	case strings.Contains(t, "supporter"):
		return card.KindSupporter, nil
	case strings.Contains(t, "item"):
		return card.KindItem, nil
	case strings.Contains(t, "pokémon"), strings.Contains(t, "pokemon"):
		return card.KindBasic, nil
	}
	return "", fmt.Errorf("%w: unknown card type %q", errSkipped, c.CardType)
}

func elementOr(s string, fallback card.Element) (card.Element, error) {
	if strings.TrimSpace(s) == "" {
		return fallback, nil
	}
	return card.ParseElement(s)
}

// leadingInt returns the number at the start of s, ignoring suffixes such as
// "x" or "+"; 0 when there is none.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if end < 0 {
		end = len(s)
	}
	n, _ := strconv.Atoi(s[:end])
	return n
}

// IsSkipped reports whether err marks a card left out of the catalog.
func IsSkipped(err error) bool {
	return errors.Is(err, errSkipped)
}
