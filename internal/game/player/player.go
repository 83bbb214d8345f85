// Package player holds one side of a match: deck, hand, board, discard pile,
// energy pool and score, and the resource operations that move cards
// between those zones.
package player

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/cardclash/internal/game/card"
	"github.com/cory-johannsen/cardclash/internal/game/dice"
)

// BenchCapacity is the maximum number of benched creatures.
const BenchCapacity = 3

// ErrIllegal is wrapped by every error returned for a move the rules forbid.
// Such errors never leave the player modified.
var ErrIllegal = errors.New("illegal move")

// ErrInvariant is wrapped by CheckInvariants failures.
var ErrInvariant = errors.New("invariant violated")

func illegal(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIllegal, fmt.Sprintf(format, args...))
}

// EffectRunner executes a trainer's effect on behalf of its owner.
// Implementations must check every precondition before mutating state and
// return an error wrapping ErrIllegal when the effect cannot be played. Once
// an effect has changed the game it must report success.
type EffectRunner interface {
	RunTrainer(t *card.Trainer, target *card.Creature) error
}

// Player is one side of a match.
//
// Invariant: every card instance is in exactly one zone; len(Bench) <= BenchCapacity.
type Player struct {
	Name              string
	Deck              []card.Card // index 0 is the top
	Hand              []card.Card
	Bench             []*card.Creature
	Active            *card.Creature
	Discard           []card.Card
	Energy            int // tokens awaiting attachment
	EnergyElement     card.Element
	NextEnergyElement card.Element
	Score             int
	SupporterPlayed   bool
	Retreated         bool
}

// New creates a player with the given deck. The deck slice is owned by the player.
func New(name string, deck []card.Card) *Player {
	return &Player{Name: name, Deck: deck}
}

// Draw moves up to n cards from the top of the deck to the end of the hand
// and returns them in draw order. Drawing from an empty deck is not an error.
//
// Postcondition: len(result) == min(n, len(Deck) before the call).
func (p *Player) Draw(n int) []card.Card {
	if n > len(p.Deck) {
		n = len(p.Deck)
	}
	if n <= 0 {
		return nil
	}
	drawn := append([]card.Card(nil), p.Deck[:n]...)
	p.Deck = p.Deck[n:]
	p.Hand = append(p.Hand, drawn...)
	return drawn
}

// Shuffle randomizes the deck order.
func (p *Player) Shuffle(src dice.Source) {
	dice.Shuffle(len(p.Deck), src, func(i, j int) {
		p.Deck[i], p.Deck[j] = p.Deck[j], p.Deck[i]
	})
}

// FindInHand returns the hand index and card with instance ID id, or (-1, nil).
func (p *Player) FindInHand(id string) (int, card.Card) {
	for i, c := range p.Hand {
		if c.InstanceID() == id {
			return i, c
		}
	}
	return -1, nil
}

// FindOnBoard returns the active or benched creature with instance ID id, or nil.
func (p *Player) FindOnBoard(id string) *card.Creature {
	for _, c := range p.Creatures() {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Creatures returns the active creature (if any) followed by the bench.
func (p *Player) Creatures() []*card.Creature {
	out := make([]*card.Creature, 0, 1+len(p.Bench))
	if p.Active != nil {
		out = append(out, p.Active)
	}
	return append(out, p.Bench...)
}

// OnBoard reports whether c is this player's active or benched creature.
func (p *Player) OnBoard(c *card.Creature) bool {
	if c == nil {
		return false
	}
	if p.Active == c {
		return true
	}
	return p.benchIndex(c) >= 0
}

func (p *Player) benchIndex(c *card.Creature) int {
	for i, b := range p.Bench {
		if b == c {
			return i
		}
	}
	return -1
}

func (p *Player) removeFromHand(i int) card.Card {
	c := p.Hand[i]
	p.Hand = append(p.Hand[:i:i], p.Hand[i+1:]...)
	return c
}

func (p *Player) insertIntoHand(i int, c card.Card) {
	p.Hand = append(p.Hand[:i:i], append([]card.Card{c}, p.Hand[i:]...)...)
}

// SetActive moves a creature from the hand to the empty active slot.
//
// Precondition: p.Active == nil.
func (p *Player) SetActive(id string, turn int) (*card.Creature, error) {
	if p.Active != nil {
		return nil, illegal("active slot already filled")
	}
	i, c := p.FindInHand(id)
	if i < 0 {
		return nil, illegal("card %s not in hand", id)
	}
	cr, ok := c.(*card.Creature)
	if !ok {
		return nil, illegal("%s is not a creature", c.DisplayName())
	}
	p.removeFromHand(i)
	cr.TurnPlayed = turn
	p.Active = cr
	return cr, nil
}

// PlaceOnBench moves the creature with instance ID id from the hand to the
// end of the bench and records turn as its entry turn.
//
// Postcondition: on success len(Bench) increased by one.
func (p *Player) PlaceOnBench(id string, turn int) (*card.Creature, error) {
	if len(p.Bench) >= BenchCapacity {
		return nil, illegal("bench is full")
	}
	i, c := p.FindInHand(id)
	if i < 0 {
		return nil, illegal("card %s not in hand", id)
	}
	cr, ok := c.(*card.Creature)
	if !ok {
		return nil, illegal("%s is not a creature", c.DisplayName())
	}
	p.removeFromHand(i)
	cr.TurnPlayed = turn
	p.Bench = append(p.Bench, cr)
	return cr, nil
}

// Evolve plays the evolution card with instance ID id from the hand onto
// target. The evolution inherits the target's tool, attached energy and
// status, takes its board slot, and the target goes to the discard pile.
//
// Precondition: target is on this player's board.
// Postcondition: on success the evolution is on the board with EvolvedThisTurn set.
func (p *Player) Evolve(id string, target *card.Creature, turn int) (*card.Creature, error) {
	if !p.OnBoard(target) {
		return nil, illegal("evolution target is not on the board")
	}
	i, c := p.FindInHand(id)
	if i < 0 {
		return nil, illegal("card %s not in hand", id)
	}
	evo, ok := c.(*card.Creature)
	if !ok || evo.EvolvesFrom == "" {
		return nil, illegal("%s is not an evolution", c.DisplayName())
	}
	if evo.EvolvesFrom != target.Name {
		return nil, illegal("%s does not evolve from %s", evo.Name, target.Name)
	}
	if !target.CanEvolve(turn) {
		return nil, illegal("%s cannot evolve this turn", target.Name)
	}
	p.removeFromHand(i)

	evo.Tool = target.Tool
	evo.Energy = target.Energy.Clone()
	evo.Status = target.Status
	evo.TurnPlayed = turn
	evo.EvolvedThisTurn = true
	target.Tool = nil
	target.Energy = card.Energy{}

	if p.Active == target {
		p.Active = evo
	} else {
		p.Bench[p.benchIndex(target)] = evo
	}
	p.Discard = append(p.Discard, target)
	return evo, nil
}

// AttachEnergy spends one pool token to attach energy of element el to target.
func (p *Player) AttachEnergy(target *card.Creature, el card.Element) error {
	if p.Energy <= 0 {
		return illegal("no energy in pool")
	}
	if !p.OnBoard(target) {
		return illegal("energy target is not on the board")
	}
	p.Energy--
	target.AddEnergy(el, 1)
	return nil
}

// CanPayCost reports whether c's attached energy covers cost.
func (p *Player) CanPayCost(c *card.Creature, cost card.Cost) bool {
	return c != nil && c.CanPay(cost)
}

// PayCost removes cost from c's attached energy. Nothing is removed when the
// cost cannot be paid in full.
func (p *Player) PayCost(c *card.Creature, cost card.Cost) error {
	if c == nil {
		return illegal("no creature to pay from")
	}
	if err := c.Energy.Pay(cost); err != nil {
		return fmt.Errorf("%w: %s", ErrIllegal, err.Error())
	}
	return nil
}

// CanRetreat reports whether the active creature may retreat to to.
func (p *Player) CanRetreat(to *card.Creature) bool {
	return p.retreatCheck(to) == nil
}

func (p *Player) retreatCheck(to *card.Creature) error {
	switch {
	case p.Retreated:
		return illegal("already retreated this turn")
	case p.Active == nil:
		return illegal("no active creature")
	case to == nil || p.benchIndex(to) < 0:
		return illegal("retreat target is not benched")
	case !p.Active.CanPay(card.ColorlessCost(p.Active.RetreatCost)):
		return illegal("cannot pay retreat cost %d", p.Active.RetreatCost)
	}
	return nil
}

// Retreat pays the active creature's retreat cost from its own energy and
// swaps it with the benched creature to.
//
// Postcondition: on success Active == to and Retreated is set.
func (p *Player) Retreat(to *card.Creature) error {
	if err := p.retreatCheck(to); err != nil {
		return err
	}
	if err := p.PayCost(p.Active, card.ColorlessCost(p.Active.RetreatCost)); err != nil {
		return err
	}
	p.swap(to)
	p.Retreated = true
	return nil
}

// Switch swaps the active creature with the benched creature to at no cost.
// It does not count as a retreat.
func (p *Player) Switch(to *card.Creature) error {
	if p.Active == nil {
		return illegal("no active creature")
	}
	if to == nil || p.benchIndex(to) < 0 {
		return illegal("switch target is not benched")
	}
	p.swap(to)
	return nil
}

func (p *Player) swap(to *card.Creature) {
	i := p.benchIndex(to)
	p.Bench[i] = p.Active
	p.Active = to
}

// PlaySupporter plays the supporter with instance ID id. At most one
// supporter may be played per turn.
func (p *Player) PlaySupporter(id string, target *card.Creature, run EffectRunner) (*card.Trainer, error) {
	if p.SupporterPlayed {
		return nil, illegal("supporter already played this turn")
	}
	t, err := p.playTrainer(id, card.KindSupporter, target, run)
	if err != nil {
		return nil, err
	}
	p.SupporterPlayed = true
	return t, nil
}

// PlayItem plays the item with instance ID id.
func (p *Player) PlayItem(id string, target *card.Creature, run EffectRunner) (*card.Trainer, error) {
	return p.playTrainer(id, card.KindItem, target, run)
}

// playTrainer takes the card out of the hand while its effect runs so that
// hand-wide effects never see it. On failure the card returns to its slot.
func (p *Player) playTrainer(id string, kind card.Kind, target *card.Creature, run EffectRunner) (*card.Trainer, error) {
	i, c := p.FindInHand(id)
	if i < 0 {
		return nil, illegal("card %s not in hand", id)
	}
	t, ok := c.(*card.Trainer)
	if !ok || t.TrainerKind != kind {
		return nil, illegal("%s is not a %s", c.DisplayName(), kind)
	}
	p.removeFromHand(i)
	if err := run.RunTrainer(t, target); err != nil {
		p.insertIntoHand(i, t)
		return nil, err
	}
	p.Discard = append(p.Discard, t)
	return t, nil
}

// AttachTool attaches the tool with instance ID id to target. A tool already
// on target goes to the discard pile.
func (p *Player) AttachTool(id string, target *card.Creature) (*card.Trainer, error) {
	if !p.OnBoard(target) {
		return nil, illegal("tool target is not on the board")
	}
	i, c := p.FindInHand(id)
	if i < 0 {
		return nil, illegal("card %s not in hand", id)
	}
	t, ok := c.(*card.Trainer)
	if !ok || t.TrainerKind != card.KindTool {
		return nil, illegal("%s is not a tool", c.DisplayName())
	}
	p.removeFromHand(i)
	if target.Tool != nil {
		p.Discard = append(p.Discard, target.Tool)
	}
	target.Tool = t
	return t, nil
}

// DiscardActive moves the active creature and its tool to the discard pile
// and leaves the active slot empty. It returns the discarded creature.
func (p *Player) DiscardActive() *card.Creature {
	c := p.Active
	if c == nil {
		return nil
	}
	if c.Tool != nil {
		p.Discard = append(p.Discard, c.Tool)
		c.Tool = nil
	}
	p.Discard = append(p.Discard, c)
	p.Active = nil
	return c
}

// ReplaceKnockedOutActive discards a knocked-out active creature and promotes
// the first benched creature. The active slot stays empty when the bench is
// empty. It returns the promoted creature, or nil.
func (p *Player) ReplaceKnockedOutActive() *card.Creature {
	if p.Active != nil && !p.Active.IsKnockedOut() {
		return nil
	}
	p.DiscardActive()
	if len(p.Bench) == 0 {
		return nil
	}
	p.Active = p.Bench[0]
	p.Bench = p.Bench[1:]
	return p.Active
}

// DiscardHand moves the whole hand to the discard pile in order.
func (p *Player) DiscardHand() int {
	n := len(p.Hand)
	p.Discard = append(p.Discard, p.Hand...)
	p.Hand = nil
	return n
}

// SearchDeck moves one uniformly chosen deck card satisfying match to the
// hand and returns it, or nil when none matches.
func (p *Player) SearchDeck(match func(card.Card) bool, src dice.Source) card.Card {
	var idx []int
	for i, c := range p.Deck {
		if match(c) {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return nil
	}
	i := idx[dice.Pick(len(idx), src)]
	c := p.Deck[i]
	p.Deck = append(p.Deck[:i:i], p.Deck[i+1:]...)
	p.Hand = append(p.Hand, c)
	return c
}

// ResetTurnFlags clears the once-per-turn flags of the player and its creatures.
func (p *Player) ResetTurnFlags() {
	p.SupporterPlayed = false
	p.Retreated = false
	for _, c := range p.Creatures() {
		c.EvolvedThisTurn = false
		c.AbilityUsed = false
	}
}

// CardCount returns the number of cards across all zones, counting attached tools.
func (p *Player) CardCount() int {
	n := len(p.Deck) + len(p.Hand) + len(p.Discard)
	for _, c := range p.Creatures() {
		n++
		if c.Tool != nil {
			n++
		}
	}
	return n
}

// CheckInvariants verifies zone exclusivity and bench capacity.
func (p *Player) CheckInvariants() error {
	if len(p.Bench) > BenchCapacity {
		return fmt.Errorf("%w: %s has %d benched creatures", ErrInvariant, p.Name, len(p.Bench))
	}
	if p.Energy < 0 {
		return fmt.Errorf("%w: %s has negative energy pool", ErrInvariant, p.Name)
	}
	seen := make(map[string]string)
	check := func(zone string, c card.Card) error {
		if c == nil {
			return fmt.Errorf("%w: %s has a nil card in %s", ErrInvariant, p.Name, zone)
		}
		if prev, dup := seen[c.InstanceID()]; dup {
			return fmt.Errorf("%w: %s card %s in both %s and %s", ErrInvariant, p.Name, c.InstanceID(), prev, zone)
		}
		seen[c.InstanceID()] = zone
		return nil
	}
	zones := []struct {
		name  string
		cards []card.Card
	}{{"deck", p.Deck}, {"hand", p.Hand}, {"discard", p.Discard}}
	for _, z := range zones {
		for _, c := range z.cards {
			if err := check(z.name, c); err != nil {
				return err
			}
		}
	}
	for _, c := range p.Creatures() {
		if err := check("board", c); err != nil {
			return err
		}
		if c.Tool != nil {
			if err := check("tool", c.Tool); err != nil {
				return err
			}
		}
		if c.HP < 0 || c.HP > c.MaxHP {
			return fmt.Errorf("%w: %s has hp %d outside [0, %d]", ErrInvariant, c.Name, c.HP, c.MaxHP)
		}
		if c.Energy == nil {
			return fmt.Errorf("%w: %s has nil energy", ErrInvariant, c.Name)
		}
	}
	return nil
}
