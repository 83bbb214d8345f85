package engine_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/cardclash/internal/game/card"
	"github.com/cory-johannsen/cardclash/internal/game/engine"
)

// queueSource returns queued values modulo n, then 0 forever. With an empty
// queue every shuffle rotates the deck left by one and every flip is heads.
type queueSource struct {
	queue []int
}

func (s *queueSource) Intn(n int) int {
	if len(s.queue) == 0 {
		return 0
	}
	v := s.queue[0]
	s.queue = s.queue[1:]
	return v % n
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("c%03d", n)
	}
}

func pebble() *card.Creature {
	c := card.NewCreature("", "Pebble", 60, card.Colorless)
	c.Attacks = []card.Attack{{Name: "Tackle", Damage: 10, Cost: card.ColorlessCost(1)}}
	return c
}

func sprout() *card.Creature {
	c := card.NewCreature("", "Sprout", 70, card.Grass)
	c.Weakness = card.Fire
	c.Attacks = []card.Attack{{Name: "Leafage", Damage: 30}}
	return c
}

func bloomling() *card.Creature {
	c := card.NewCreature("", "Bloomling", 120, card.Grass)
	c.EvolvesFrom = "Sprout"
	c.RetreatCost = 2
	c.Attacks = []card.Attack{{Name: "Petal Storm", Damage: 60, Cost: card.Cost{card.Grass, card.Colorless}}}
	return c
}

func supporter(name string, e card.Effect) *card.Trainer {
	return &card.Trainer{Name: name, TrainerKind: card.KindSupporter, Effect: e}
}

func item(name string, e card.Effect) *card.Trainer {
	return &card.Trainer{Name: name, TrainerKind: card.KindItem, Effect: e}
}

// deckWith builds a 20-card deck whose opening hand under a zero source is
// exactly hand followed by Pebbles.
func deckWith(hand ...card.Card) []card.Card {
	deck := []card.Card{pebble()}
	deck = append(deck, hand...)
	for len(deck) < 20 {
		deck = append(deck, pebble())
	}
	return deck
}

// newGame creates a match under a zero source so seat 0 moves first.
func newGame(t testing.TB, opts engine.Options, handA, handB []card.Card) (*engine.Game, *queueSource) {
	t.Helper()
	src := &queueSource{}
	opts.NewID = sequentialIDs()
	opts.CheckInvariants = true
	g, err := engine.NewMatch(
		engine.Seat{Name: "Ash", Deck: deckWith(handA...)},
		engine.Seat{Name: "Gary", Deck: deckWith(handB...)},
		src, opts,
	)
	require.NoError(t, err)
	require.Equal(t, 0, g.FirstPlayer())
	return g, src
}

// start picks the first card called name in each seat's hand as its active.
func start(t testing.TB, g *engine.Game, nameA, nameB string) {
	t.Helper()
	for seat, name := range []string{nameA, nameB} {
		idx := -1
		for i, c := range g.Player(seat).Hand {
			if c.DisplayName() == name {
				idx = i
				break
			}
		}
		require.GreaterOrEqual(t, idx, 0, "%s not in hand of seat %d", name, seat)
		require.NoError(t, g.ChooseStartingActive(seat, idx))
	}
	require.Equal(t, engine.PhaseMain, g.Phase())
}

func handID(t testing.TB, g *engine.Game, seat int, name string) string {
	t.Helper()
	for _, c := range g.Player(seat).Hand {
		if c.DisplayName() == name {
			return c.InstanceID()
		}
	}
	t.Fatalf("%s not in hand of seat %d", name, seat)
	return ""
}

func activeID(g *engine.Game, seat int) string {
	return g.Player(seat).Active.ID
}

// pass plays an empty turn and fails the test on error.
func pass(t testing.TB, g *engine.Game) *engine.TurnLog {
	t.Helper()
	log, err := g.PlayTurn(engine.TurnActions{})
	require.NoError(t, err)
	return log
}
