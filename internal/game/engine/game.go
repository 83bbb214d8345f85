// Package engine implements the two-player turn state machine: match setup,
// mulligans, starting actives, the ordered turn steps and the win check.
package engine

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/cardclash/internal/game/card"
	"github.com/cory-johannsen/cardclash/internal/game/combat"
	"github.com/cory-johannsen/cardclash/internal/game/condition"
	"github.com/cory-johannsen/cardclash/internal/game/dice"
	"github.com/cory-johannsen/cardclash/internal/game/effect"
	"github.com/cory-johannsen/cardclash/internal/game/player"
	"github.com/cory-johannsen/cardclash/internal/observability"
)

// Phase is the match phase.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseMain
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "SETUP"
	case PhaseMain:
		return "MAIN"
	case PhaseGameOver:
		return "GAME_OVER"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

var (
	// ErrIllegalAction is wrapped by every rejected action.
	ErrIllegalAction = player.ErrIllegal
	// ErrGameOver is returned for turns submitted after the match ended.
	ErrGameOver = errors.New("game is over")
	// ErrInvariant is wrapped by invariant check failures.
	ErrInvariant = player.ErrInvariant
	// ErrWrongPhase is returned for calls made in the wrong phase.
	ErrWrongPhase = errors.New("wrong phase")
)

// Seat describes one participant at match creation.
type Seat struct {
	Name string
	Deck []card.Card
}

// Game is one match. A Game is not safe for concurrent use.
//
// Invariant: once Phase is PhaseGameOver the winner never changes.
type Game struct {
	id       string
	opts     Options
	src      dice.Source
	statuses *condition.Registry
	effects  *effect.Dispatcher
	resolver *combat.Resolver
	logger   *zap.Logger

	players    [2]*player.Player
	turn       int
	first      int
	phase      Phase
	mulligans  [2]int
	began      bool // BeginTurn ran for the current turn
	winner     int
	totalCards [2]int
	seq        int
	current    *TurnLog
}

// NewMatch validates both decks, copies them into fresh card instances,
// shuffles, deals opening hands with mulligans until each hand holds a
// basic creature, and picks the first player with a coin flip.
//
// Precondition: src must be non-nil.
// Postcondition: on success the game is in PhaseSetup with Turn() == 0.
func NewMatch(a, b Seat, src dice.Source, opts Options) (*Game, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, &ConfigurationError{Reason: "nil random source"}
	}
	statuses := opts.Statuses
	if statuses == nil {
		statuses = condition.DefaultRegistry()
	}
	g := &Game{
		id:       opts.newID(),
		opts:     opts,
		statuses: statuses,
		winner:   -1,
	}
	g.logger = observability.ForMatch(opts.Logger, g.id)
	if opts.Logger != nil {
		src = dice.NewLoggedSource(src, g.logger)
	}
	g.src = src
	g.effects = effect.NewDispatcher(src, statuses, opts.Scripts, g.logger)
	g.resolver = combat.NewResolver(src, statuses, g.effects, g.logger)

	for i, seat := range [2]Seat{a, b} {
		name := seat.Name
		if name == "" {
			name = fmt.Sprintf("Player %d", i+1)
		}
		if err := checkDeck(name, seat.Deck, opts.DeckSize); err != nil {
			return nil, err
		}
		deck := make([]card.Card, len(seat.Deck))
		for j, c := range seat.Deck {
			deck[j] = c.Copy(opts.newID())
		}
		g.players[i] = player.New(name, deck)
		g.totalCards[i] = len(deck)
	}

	for i, p := range g.players {
		n, err := g.deal(p)
		if err != nil {
			return nil, err
		}
		g.mulligans[i] = n
		el := g.chooseElement(p)
		p.NextEnergyElement = el
		p.EnergyElement = el
	}
	if dice.Flip(g.src) == dice.Heads {
		g.first = 0
	} else {
		g.first = 1
	}
	g.logger.Info("match created",
		zap.String("first", g.players[g.first].Name),
		zap.Int("mulligans_a", g.mulligans[0]),
		zap.Int("mulligans_b", g.mulligans[1]),
	)
	return g, nil
}

func checkDeck(name string, deck []card.Card, size int) error {
	if len(deck) != size {
		return &ConfigurationError{Seat: name, Reason: fmt.Sprintf("deck has %d cards, want %d", len(deck), size)}
	}
	for _, c := range deck {
		if cr, ok := c.(*card.Creature); ok && cr.IsBasic() {
			return nil
		}
	}
	return &ConfigurationError{Seat: name, Reason: "deck has no basic creature"}
}

// deal shuffles and draws the opening hand, returning the hand to the deck
// and redrawing until it holds a basic creature. It returns the mulligan count.
func (g *Game) deal(p *player.Player) (int, error) {
	for n := 0; ; n++ {
		p.Shuffle(g.src)
		p.Draw(g.opts.OpeningHand)
		if hasBasic(p.Hand) {
			return n, nil
		}
		if n >= g.opts.MaxMulligans {
			return n, &ConfigurationError{Seat: p.Name, Reason: fmt.Sprintf("no basic creature after %d mulligans", n)}
		}
		p.Deck = append(p.Hand, p.Deck...)
		p.Hand = nil
	}
}

func hasBasic(cards []card.Card) bool {
	for _, c := range cards {
		if cr, ok := c.(*card.Creature); ok && cr.IsBasic() {
			return true
		}
	}
	return false
}

// chooseElement returns the element of the next energy token for p.
func (g *Game) chooseElement(p *player.Player) card.Element {
	if g.opts.EnergyMode != EnergyRandom {
		return g.opts.FixedElement
	}
	present := make(map[card.Element]bool)
	for _, c := range p.Deck {
		if cr, ok := c.(*card.Creature); ok && cr.Element != card.Colorless {
			present[cr.Element] = true
		}
	}
	var choices []card.Element
	for _, el := range card.Elements {
		if present[el] {
			choices = append(choices, el)
		}
	}
	if len(choices) == 0 {
		return g.opts.FixedElement
	}
	return choices[dice.Pick(len(choices), g.src)]
}

// ID returns the match ID.
func (g *Game) ID() string { return g.id }

// Phase returns the current phase.
func (g *Game) Phase() Phase { return g.phase }

// Turn returns the zero-based turn counter.
func (g *Game) Turn() int { return g.turn }

// FirstPlayer returns the seat index of the player who moves on turn 0.
func (g *Game) FirstPlayer() int { return g.first }

// Mulligans returns how many times seat i redrew its opening hand.
func (g *Game) Mulligans(i int) int { return g.mulligans[i] }

// Player returns seat i's state. Callers must not modify it.
func (g *Game) Player(i int) *player.Player { return g.players[i] }

// Statuses returns the status rules in force.
func (g *Game) Statuses() *condition.Registry { return g.statuses }

// CurrentPlayer returns the seat index of the player whose turn it is.
func (g *Game) CurrentPlayer() int {
	return (g.first + g.turn) % 2
}

// IsGameOver reports whether a player has reached the points to win.
func (g *Game) IsGameOver() bool { return g.phase == PhaseGameOver }

// Winner returns the winning seat index once the game is over.
func (g *Game) Winner() (int, bool) {
	if g.phase != PhaseGameOver {
		return -1, false
	}
	return g.winner, true
}

// ChooseStartingActive moves the basic creature at handIndex of seat
// playerIndex's hand to its active slot. The match enters PhaseMain when both
// seats have chosen.
func (g *Game) ChooseStartingActive(playerIndex, handIndex int) error {
	if g.phase != PhaseSetup {
		return fmt.Errorf("%w: starting actives are chosen during setup", ErrWrongPhase)
	}
	if playerIndex < 0 || playerIndex > 1 {
		return fmt.Errorf("%w: no seat %d", ErrIllegalAction, playerIndex)
	}
	p := g.players[playerIndex]
	if p.Active != nil {
		return fmt.Errorf("%w: %s already has an active creature", ErrIllegalAction, p.Name)
	}
	if handIndex < 0 || handIndex >= len(p.Hand) {
		return fmt.Errorf("%w: hand index %d out of range", ErrIllegalAction, handIndex)
	}
	cr, ok := p.Hand[handIndex].(*card.Creature)
	if !ok || !cr.IsBasic() {
		return fmt.Errorf("%w: %s is not a basic creature", ErrIllegalAction, p.Hand[handIndex].DisplayName())
	}
	if _, err := p.SetActive(cr.ID, 0); err != nil {
		return err
	}
	g.logger.Debug("starting active chosen",
		zap.Int("player", playerIndex),
		zap.String("card", cr.Name),
	)
	if g.players[0].Active != nil && g.players[1].Active != nil {
		g.phase = PhaseMain
		g.logger.Debug("phase change", zap.Stringer("phase", g.phase))
	}
	return nil
}

// CheckInvariants verifies both players' zones and that no card was created
// or lost since the match began.
func (g *Game) CheckInvariants() error {
	for i, p := range g.players {
		if err := p.CheckInvariants(); err != nil {
			return err
		}
		if n := p.CardCount(); n != g.totalCards[i] {
			return fmt.Errorf("%w: %s holds %d cards, started with %d", ErrInvariant, p.Name, n, g.totalCards[i])
		}
	}
	if g.players[0].Score < 0 || g.players[1].Score < 0 {
		return fmt.Errorf("%w: negative score", ErrInvariant)
	}
	return nil
}
