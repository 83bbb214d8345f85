package ai_test

import (
	"github.com/cory-johannsen/cardclash/internal/game/ai"
	"github.com/cory-johannsen/cardclash/internal/game/card"
	"github.com/cory-johannsen/cardclash/internal/game/condition"
	"github.com/cory-johannsen/cardclash/internal/game/player"
)

// creature returns a basic creature with one attack of the given damage and
// colorless cost.
func creature(id, name string, hp, damage, cost int) *card.Creature {
	c := card.NewCreature(id, name, hp, card.Colorless)
	c.Attacks = []card.Attack{{Name: name + " Hit", Damage: damage, Cost: card.ColorlessCost(cost)}}
	return c
}

func trainer(id, name string, kind card.Kind, e card.Effect) *card.Trainer {
	return &card.Trainer{ID: id, Name: name, TrainerKind: kind, Effect: e}
}

// duel returns a state on turn for two players with the given actives.
func duel(turn int, self, opp *card.Creature) *ai.State {
	p := player.New("Ash", nil)
	p.Active = self
	p.EnergyElement = card.Grass
	o := player.New("Gary", nil)
	o.Active = opp
	return &ai.State{Turn: turn, Self: p, Opp: o, Statuses: condition.DefaultRegistry()}
}
