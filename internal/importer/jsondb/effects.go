package jsondb

import (
	"regexp"
	"strconv"

	"github.com/cory-johannsen/cardclash/internal/game/card"
)

// letterElements maps the bracketed energy letters of card text.
var letterElements = map[string]card.Element{
	"G": card.Grass,
	"R": card.Fire,
	"W": card.Water,
	"L": card.Lightning,
	"P": card.Psychic,
	"F": card.Fighting,
	"D": card.Darkness,
	"M": card.Metal,
	"N": card.Dragon,
	"C": card.Colorless,
}

type textRule struct {
	re    *regexp.Regexp
	build func(m []string) card.Effect
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// rules are tried in order; the first match wins.
var rules = []textRule{
	{
		regexp.MustCompile(`(?i)^Flip (\d+) coins?\. This attack does (\d+) damage for each heads`),
		func(m []string) card.Effect {
			return card.Effect{Kind: card.EffectCoinBonus, Coins: atoi(m[1]), Amount: atoi(m[2])}
		},
	},
	{
		regexp.MustCompile(`(?i)^Flip a coin\. If heads, this attack does (\d+) more damage`),
		func(m []string) card.Effect {
			return card.Effect{Kind: card.EffectCoinBonus, Coins: 1, Amount: atoi(m[1])}
		},
	},
	{
		regexp.MustCompile(`(?i)^Heal (\d+) damage from this Pok[eé]mon`),
		func(m []string) card.Effect { return card.Effect{Kind: card.EffectHealSelf, Amount: atoi(m[1])} },
	},
	{
		regexp.MustCompile(`(?i)^Heal (\d+) damage from 1 of your Pok[eé]mon`),
		func(m []string) card.Effect { return card.Effect{Kind: card.EffectHealTarget, Amount: atoi(m[1])} },
	},
	{
		regexp.MustCompile(`(?i)Active Pok[eé]mon is now (Asleep|Poisoned|Burned|Paralyzed|Confused)`),
		func(m []string) card.Effect {
			s, _ := card.ParseStatus(m[1])
			return card.Effect{Kind: card.EffectApplyStatus, Status: s}
		},
	},
	{
		regexp.MustCompile(`(?i)^Put 1 random (?:\[([A-Z])\] )?(?:Basic )?Pok[eé]mon from your deck into your hand`),
		func(m []string) card.Effect {
			return card.Effect{Kind: card.EffectSearchDeck, Element: letterElements[m[1]]}
		},
	},
	{
		regexp.MustCompile(`(?i)^Take an? \[([A-Z])\] Energy from your Energy Zone and attach it to 1 of your Benched`),
		func(m []string) card.Effect {
			return card.Effect{Kind: card.EffectBenchEnergy, Element: letterElements[m[1]]}
		},
	},
	{
		regexp.MustCompile(`(?i)^(?:Shuffle|Discard) your hand (?:into your deck)?.*Draw (\d+) cards?`),
		func(m []string) card.Effect { return card.Effect{Kind: card.EffectDiscardHandDraw, Amount: atoi(m[1])} },
	},
	{
		regexp.MustCompile(`(?i)^Draw (\d+) cards?`),
		func(m []string) card.Effect { return card.Effect{Kind: card.EffectDraw, Amount: atoi(m[1])} },
	},
	{
		regexp.MustCompile(`(?i)^Switch (?:out )?your Active Pok[eé]mon`),
		func(m []string) card.Effect { return card.Effect{Kind: card.EffectSwitch} },
	},
	{
		regexp.MustCompile(`(?i)attacks used by the Pok[eé]mon this card is attached to do \+(\d+) damage`),
		func(m []string) card.Effect { return card.Effect{Kind: card.EffectDamageBoost, Amount: atoi(m[1])} },
	},
	{
		regexp.MustCompile(`(?i)Pok[eé]mon this card is attached to takes [−-](\d+) damage`),
		func(m []string) card.Effect { return card.Effect{Kind: card.EffectDamageReduction, Amount: atoi(m[1])} },
	},
}

// ParseEffect maps card text onto an effect. The second result is false when
// no rule matches; empty text maps to no effect.
func ParseEffect(text string) (card.Effect, bool) {
	if text == "" {
		return card.Effect{}, true
	}
	for _, r := range rules {
		if m := r.re.FindStringSubmatch(text); m != nil {
			e := r.build(m)
			if e.Validate() != nil {
				return card.Effect{}, false
			}
			return e, true
		}
	}
	return card.Effect{}, false
}
