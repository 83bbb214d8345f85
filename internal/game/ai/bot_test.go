package ai_test

import (
	"fmt"
	"testing"

	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/cardclash/internal/game/ai"
	"github.com/cory-johannsen/cardclash/internal/game/card"
	"github.com/cory-johannsen/cardclash/internal/game/dice"
	"github.com/cory-johannsen/cardclash/internal/game/engine"
	"github.com/cory-johannsen/cardclash/internal/game/player"
)

func pebbleDeck() []card.Card {
	deck := make([]card.Card, 20)
	for i := range deck {
		deck[i] = creature(fmt.Sprintf("p%d", i), "Pebble", 60, 20, 1)
	}
	return deck
}

// mixedDeck holds evolutions, a status attacker and every trainer kind.
func mixedDeck() []card.Card {
	var deck []card.Card
	for i := 0; i < 6; i++ {
		s := creature("", "Sprout", 70, 20, 1)
		s.Element = card.Grass
		deck = append(deck, s)
	}
	for i := 0; i < 4; i++ {
		b := creature("", "Bloomling", 120, 60, 0)
		b.Element = card.Grass
		b.EvolvesFrom = "Sprout"
		b.RetreatCost = 2
		b.Attacks[0].Cost = card.Cost{card.Grass, card.Colorless}
		deck = append(deck, b)
	}
	for i := 0; i < 3; i++ {
		st := creature("", "Stinger", 50, 10, 1)
		st.Attacks[0].Effect = card.Effect{Kind: card.EffectApplyStatus, Status: card.StatusPoison}
		deck = append(deck, st)
	}
	for i := 0; i < 2; i++ {
		deck = append(deck,
			trainer("", "Field Research", card.KindSupporter, card.Effect{Kind: card.EffectDraw, Amount: 2}),
			trainer("", "Potion", card.KindItem, card.Effect{Kind: card.EffectHealTarget, Amount: 20}),
		)
	}
	return append(deck,
		trainer("", "Power Band", card.KindTool, card.Effect{Kind: card.EffectDamageBoost, Amount: 10}),
		trainer("", "Swap Cord", card.KindItem, card.Effect{Kind: card.EffectSwitch}),
		trainer("", "Rest Stop", card.KindSupporter, card.Effect{Kind: card.EffectDiscardHandDraw, Amount: 3}),
	)
}

// fataler is satisfied by *testing.T and *rapid.T.
type fataler interface {
	Helper()
	Fatalf(format string, args ...any)
}

// playOut runs a bot-versus-bot match and returns it with the number of
// turns played.
func playOut(t fataler, deck func() []card.Card, seed uint64, maxTurns int) (*engine.Game, int) {
	t.Helper()
	opts := engine.DefaultOptions()
	opts.CheckInvariants = true
	g, err := engine.NewMatch(
		engine.Seat{Name: "Ash", Deck: deck()},
		engine.Seat{Name: "Gary", Deck: deck()},
		dice.NewSeededSource(seed), opts,
	)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	bot := ai.NewBot(ai.NewPlanner(ai.DefaultDomain()), nil)
	for seat := 0; seat < 2; seat++ {
		if err := g.ChooseStartingActive(seat, bot.ChooseStartingActive(g.Player(seat))); err != nil {
			t.Fatalf("ChooseStartingActive(%d): %v", seat, err)
		}
	}
	turns := 0
	for ; turns < maxTurns && !g.IsGameOver(); turns++ {
		if _, err := g.BeginTurn(); err != nil {
			t.Fatalf("BeginTurn: %v", err)
		}
		actions, err := bot.Decide(g)
		if err != nil {
			t.Fatalf("Decide: %v", err)
		}
		log, err := g.ApplyActions(actions)
		if err != nil {
			t.Fatalf("ApplyActions turn %d: %v", turns, err)
		}
		if len(log.Rejected) != 0 {
			t.Fatalf("turn %d: bot produced illegal actions %v", turns, log.Rejected)
		}
	}
	return g, turns
}

func TestBot_PlaysMatchToCompletion(t *testing.T) {
	g, turns := playOut(t, pebbleDeck, 7, 400)
	if !g.IsGameOver() {
		t.Fatalf("expected a winner within %d turns", turns)
	}
	w, _ := g.Winner()
	if g.Player(w).Score < engine.DefaultOptions().PointsToWin {
		t.Fatalf("winner has %d points", g.Player(w).Score)
	}
}

func TestBot_ChooseStartingActive_PicksHighestHPBasic(t *testing.T) {
	p := player.New("Ash", nil)
	evo := creature("h2", "Boulder", 200, 10, 1)
	evo.EvolvesFrom = "Pebble"
	p.Hand = []card.Card{
		trainer("h1", "Professor", card.KindSupporter, card.Effect{Kind: card.EffectDraw, Amount: 2}),
		evo,
		creature("h3", "Pebble", 60, 10, 1),
		creature("h4", "Cliff", 90, 10, 1),
	}
	bot := ai.NewBot(ai.NewPlanner(ai.DefaultDomain()), zaptest.NewLogger(t))
	if got := bot.ChooseStartingActive(p); got != 3 {
		t.Fatalf("expected index 3, got %d", got)
	}
	p.Hand = p.Hand[:2]
	if got := bot.ChooseStartingActive(p); got != -1 {
		t.Fatalf("expected -1 without basics, got %d", got)
	}
}

func TestProperty_Bot_NeverProducesIllegalActions(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		playOut(rt, mixedDeck, seed, 60)
	})
}
