package condition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/cardclash/internal/game/card"
	"github.com/cory-johannsen/cardclash/internal/game/condition"
	"github.com/cory-johannsen/cardclash/internal/game/dice"
)

const (
	heads = 0
	tails = 1
)

func creature(hp int, s card.Status) *card.Creature {
	c := card.NewCreature("c", "Target", 100, card.Grass)
	c.HP = hp
	condition.Apply(c, s)
	return c
}

func TestTick_SleepHeadsClears(t *testing.T) {
	reg := condition.DefaultRegistry()
	c := creature(100, card.StatusSleep)
	res := reg.Tick(c, dice.NewScriptedSource(heads))
	assert.True(t, res.Cleared)
	assert.Equal(t, card.StatusNone, c.Status)
	assert.Equal(t, 0, res.Damage)
	require.NotNil(t, res.Flip)
}

func TestTick_SleepTailsStays(t *testing.T) {
	reg := condition.DefaultRegistry()
	c := creature(100, card.StatusSleep)
	res := reg.Tick(c, dice.NewScriptedSource(tails))
	assert.False(t, res.Cleared)
	assert.Equal(t, card.StatusSleep, c.Status)
}

func TestTick_BurnDamagesThenFlips(t *testing.T) {
	reg := condition.DefaultRegistry()
	c := creature(100, card.StatusBurn)
	res := reg.Tick(c, dice.NewScriptedSource(heads))
	assert.Equal(t, 20, res.Damage)
	assert.Equal(t, 80, c.HP)
	assert.Equal(t, card.StatusNone, c.Status)

	c = creature(100, card.StatusBurn)
	reg.Tick(c, dice.NewScriptedSource(tails))
	assert.Equal(t, 80, c.HP)
	assert.Equal(t, card.StatusBurn, c.Status)
}

func TestTick_PoisonNeverClears(t *testing.T) {
	reg := condition.DefaultRegistry()
	c := creature(100, card.StatusPoison)
	src := dice.NewScriptedSource(heads, heads, heads)
	for i := 0; i < 3; i++ {
		res := reg.Tick(c, src)
		assert.Nil(t, res.Flip, "poison never flips")
	}
	assert.Equal(t, 70, c.HP)
	assert.Equal(t, card.StatusPoison, c.Status)
	assert.Equal(t, 3, src.Remaining(), "no randomness consumed")
}

func TestTick_ParalysisClearsAfterOneCheck(t *testing.T) {
	reg := condition.DefaultRegistry()
	c := creature(100, card.StatusParalysis)
	assert.False(t, reg.CanAttack(c))
	res := reg.Tick(c, dice.NewScriptedSource())
	assert.True(t, res.Cleared)
	assert.Nil(t, res.Flip)
	assert.True(t, reg.CanAttack(c))
}

func TestTick_ConfusionIsNotTicked(t *testing.T) {
	reg := condition.DefaultRegistry()
	c := creature(100, card.StatusConfusion)
	res := reg.Tick(c, dice.NewScriptedSource(heads))
	assert.Equal(t, card.StatusConfusion, c.Status)
	assert.Equal(t, 0, res.Damage)
	assert.True(t, reg.CanAttack(c), "confused creatures may still attempt attacks")
}

func TestTick_PoisonKnockout(t *testing.T) {
	reg := condition.DefaultRegistry()
	c := creature(5, card.StatusPoison)
	res := reg.Tick(c, dice.NewScriptedSource())
	assert.True(t, res.KnockedOut)
	assert.Equal(t, 5, res.Damage)
	assert.Equal(t, 0, c.HP)
}

func TestTick_NilCreature(t *testing.T) {
	reg := condition.DefaultRegistry()
	assert.Equal(t, condition.TickResult{}, reg.Tick(nil, dice.NewScriptedSource()))
}

func TestApply_ReplacesExistingStatus(t *testing.T) {
	c := creature(100, card.StatusPoison)
	condition.Apply(c, card.StatusSleep)
	assert.Equal(t, card.StatusSleep, c.Status)
	condition.Clear(c)
	assert.False(t, c.HasStatus())
}

func TestConfusionCheck(t *testing.T) {
	reg := condition.DefaultRegistry()
	c := creature(100, card.StatusConfusion)
	dmg, flip := reg.ConfusionCheck(c, dice.NewScriptedSource(heads))
	assert.Equal(t, 30, dmg)
	require.NotNil(t, flip)
	dmg, _ = reg.ConfusionCheck(c, dice.NewScriptedSource(tails))
	assert.Equal(t, 0, dmg)

	dmg, flip = reg.ConfusionCheck(creature(100, card.StatusPoison), dice.NewScriptedSource(heads))
	assert.Equal(t, 0, dmg)
	assert.Nil(t, flip)
}

func TestIsActionRestricted_Retreat(t *testing.T) {
	reg := condition.DefaultRegistry()
	reg.Register(&condition.StatusDef{ID: card.StatusParalysis, Ticks: true, ClearAfterCheck: true,
		RestrictActions: []string{condition.ActionAttack, condition.ActionRetreat}})
	c := creature(100, card.StatusParalysis)
	assert.True(t, reg.IsActionRestricted(c, condition.ActionRetreat))
	assert.False(t, reg.IsActionRestricted(creature(100, card.StatusSleep), condition.ActionRetreat))
}

// TestPropertyTick_StatusNeverChangesToAnotherStatus checks that a check only
// ever keeps or clears a status and that HP stays in range.
func TestPropertyTick_StatusNeverChangesToAnotherStatus(t *testing.T) {
	reg := condition.DefaultRegistry()
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.SampledFrom(card.Statuses).Draw(rt, "status")
		hp := rapid.IntRange(1, 100).Draw(rt, "hp")
		c := creature(hp, s)
		res := reg.Tick(c, dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed")))
		assert.True(rt, c.Status == s || c.Status == card.StatusNone)
		assert.Equal(rt, hp-res.Damage, c.HP)
		assert.GreaterOrEqual(rt, c.HP, 0)
		if s == card.StatusPoison {
			assert.Equal(rt, card.StatusPoison, c.Status)
		}
		if s == card.StatusParalysis {
			assert.Equal(rt, card.StatusNone, c.Status)
		}
	})
}
