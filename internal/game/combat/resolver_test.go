package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/cardclash/internal/game/card"
	"github.com/cory-johannsen/cardclash/internal/game/combat"
	"github.com/cory-johannsen/cardclash/internal/game/condition"
	"github.com/cory-johannsen/cardclash/internal/game/dice"
	"github.com/cory-johannsen/cardclash/internal/game/effect"
	"github.com/cory-johannsen/cardclash/internal/game/player"
)

const (
	heads = 0
	tails = 1
)

func newResolver(src dice.Source) *combat.Resolver {
	reg := condition.DefaultRegistry()
	return combat.NewResolver(src, reg, effect.NewDispatcher(src, reg, nil, nil), nil)
}

func attacker(dmg int, cost card.Cost, eff card.Effect) *player.Player {
	p := player.New("A", nil)
	c := card.NewCreature("a", "Sproutling", 80, card.Grass)
	c.Attacks = []card.Attack{{Name: "Vine Whip", Damage: dmg, Cost: cost, Effect: eff}}
	p.Active = c
	return p
}

func defender(hp int, weakness card.Element) *player.Player {
	p := player.New("B", nil)
	c := card.NewCreature("d", "Emberpup", 100, card.Fire)
	c.HP = hp
	c.Weakness = weakness
	p.Active = c
	return p
}

func TestResolveAttack_BaseDamageAndCost(t *testing.T) {
	att := attacker(40, card.Cost{card.Grass, card.Colorless}, card.Effect{})
	att.Active.AddEnergy(card.Grass, 2)
	att.Active.AddEnergy(card.Fire, 1)
	def := defender(100, card.Water)

	out, err := newResolver(dice.NewScriptedSource()).ResolveAttack(att, def, 0)
	require.NoError(t, err)
	assert.Equal(t, 40, out.Damage)
	assert.Equal(t, 60, def.Active.HP)
	assert.Equal(t, 60, out.DefenderHP)
	assert.Equal(t, card.Energy{card.Fire: 1}, att.Active.Energy, "typed first, then colorless in element order")
	assert.False(t, out.KnockedOut)
}

func TestResolveAttack_Weakness(t *testing.T) {
	att := attacker(40, nil, card.Effect{})
	def := defender(100, card.Grass)
	out, err := newResolver(dice.NewScriptedSource()).ResolveAttack(att, def, 0)
	require.NoError(t, err)
	assert.Equal(t, combat.WeaknessBonus, out.WeaknessBonus)
	assert.Equal(t, 60, out.Damage)
	assert.Equal(t, 40, def.Active.HP)
}

func TestResolveAttack_CoinBonusComputedInCall(t *testing.T) {
	att := attacker(30, nil, card.Effect{Kind: card.EffectCoinBonus, Amount: 30, Coins: 1})
	def := defender(100, "")
	out, err := newResolver(dice.NewScriptedSource(heads)).ResolveAttack(att, def, 0)
	require.NoError(t, err)
	assert.Equal(t, 30, out.BonusDamage)
	assert.Equal(t, 60, out.Damage)
	require.Len(t, out.Flips, 1)

	def = defender(100, "")
	out, err = newResolver(dice.NewScriptedSource(tails)).ResolveAttack(att, def, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, out.BonusDamage)
	assert.Equal(t, 30, out.Damage, "no bonus carries over between attacks")
}

func TestResolveAttack_ConfusionHeadsHitsSelf(t *testing.T) {
	att := attacker(50, card.Cost{card.Grass}, card.Effect{})
	att.Active.AddEnergy(card.Grass, 1)
	att.Active.Status = card.StatusConfusion
	def := defender(100, card.Grass)

	out, err := newResolver(dice.NewScriptedSource(heads)).ResolveAttack(att, def, 0)
	require.NoError(t, err)
	assert.True(t, out.ConfusedSelfHit)
	assert.Equal(t, 30, out.SelfDamage)
	assert.Equal(t, 50, att.Active.HP)
	assert.Equal(t, 0, out.Damage)
	assert.Equal(t, 100, def.Active.HP)
	assert.Equal(t, 0, att.Active.Energy.Total(), "cost is still paid")
}

func TestResolveAttack_ConfusionTailsAttacksNormally(t *testing.T) {
	att := attacker(50, nil, card.Effect{})
	att.Active.Status = card.StatusConfusion
	def := defender(100, "")
	out, err := newResolver(dice.NewScriptedSource(tails)).ResolveAttack(att, def, 0)
	require.NoError(t, err)
	assert.False(t, out.ConfusedSelfHit)
	assert.Equal(t, 50, out.Damage)
	assert.Equal(t, card.StatusConfusion, att.Active.Status)
}

func TestResolveAttack_KnockoutScores(t *testing.T) {
	att := attacker(50, nil, card.Effect{})
	def := defender(40, "")
	def.Active.Tool = &card.Trainer{ID: "tool", Name: "Belt", TrainerKind: card.KindTool}
	out, err := newResolver(dice.NewScriptedSource()).ResolveAttack(att, def, 0)
	require.NoError(t, err)
	assert.True(t, out.KnockedOut)
	assert.Equal(t, 1, out.Points)
	assert.Equal(t, 1, att.Score)
	assert.Nil(t, def.Active)
	assert.Len(t, def.Discard, 2)
	assert.Equal(t, 40, out.Damage, "damage is clamped at remaining HP")
}

func TestResolveAttack_EXKnockoutScoresTwo(t *testing.T) {
	att := attacker(50, nil, card.Effect{})
	def := defender(10, "")
	def.Active.EX = true
	out, err := newResolver(dice.NewScriptedSource()).ResolveAttack(att, def, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Points)
	assert.Equal(t, 2, att.Score)
}

func TestResolveAttack_Tools(t *testing.T) {
	att := attacker(30, nil, card.Effect{})
	att.Active.Tool = &card.Trainer{Name: "Power Belt", TrainerKind: card.KindTool,
		Effect: card.Effect{Kind: card.EffectDamageBoost, Amount: 10}}
	def := defender(100, "")
	def.Active.Tool = &card.Trainer{Name: "Bark Vest", TrainerKind: card.KindTool,
		Effect: card.Effect{Kind: card.EffectDamageReduction, Amount: 50}}
	out, err := newResolver(dice.NewScriptedSource()).ResolveAttack(att, def, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, out.ToolBonus)
	assert.Equal(t, 50, out.Reduction)
	assert.Equal(t, 0, out.Damage, "damage floors at zero")
}

func TestResolveAttack_PostDamageStatus(t *testing.T) {
	att := attacker(10, nil, card.Effect{Kind: card.EffectApplyStatus, Status: card.StatusSleep})
	def := defender(100, "")
	out, err := newResolver(dice.NewScriptedSource()).ResolveAttack(att, def, 0)
	require.NoError(t, err)
	require.NotNil(t, out.Effect)
	assert.Equal(t, card.StatusSleep, def.Active.Status)
}

func TestResolveAttack_Preconditions(t *testing.T) {
	r := newResolver(dice.NewScriptedSource())
	cases := map[string]func() (*player.Player, *player.Player, int){
		"no active": func() (*player.Player, *player.Player, int) {
			a := attacker(10, nil, card.Effect{})
			a.Active = nil
			return a, defender(100, ""), 0
		},
		"asleep": func() (*player.Player, *player.Player, int) {
			a := attacker(10, nil, card.Effect{})
			a.Active.Status = card.StatusSleep
			return a, defender(100, ""), 0
		},
		"paralyzed": func() (*player.Player, *player.Player, int) {
			a := attacker(10, nil, card.Effect{})
			a.Active.Status = card.StatusParalysis
			return a, defender(100, ""), 0
		},
		"bad index": func() (*player.Player, *player.Player, int) {
			return attacker(10, nil, card.Effect{}), defender(100, ""), 3
		},
		"unpayable": func() (*player.Player, *player.Player, int) {
			return attacker(10, card.Cost{card.Fire}, card.Effect{}), defender(100, ""), 0
		},
		"no defender": func() (*player.Player, *player.Player, int) {
			d := defender(100, "")
			d.Active = nil
			return attacker(10, nil, card.Effect{}), d, 0
		},
	}
	for name, mk := range cases {
		t.Run(name, func(t *testing.T) {
			a, d, idx := mk()
			_, err := r.ResolveAttack(a, d, idx)
			assert.ErrorIs(t, err, combat.ErrIllegalAttack)
			assert.ErrorIs(t, err, player.ErrIllegal)
			if d.Active != nil {
				assert.Equal(t, 100, d.Active.HP)
			}
			assert.Zero(t, a.Score)
		})
	}
}

// TestPropertyResolveAttack_DamageFormula checks the damage formula and
// scoring against randomly generated attacks.
func TestPropertyResolveAttack_DamageFormula(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		base := rapid.IntRange(0, 150).Draw(rt, "base")
		hp := rapid.IntRange(1, 200).Draw(rt, "hp")
		weak := rapid.Bool().Draw(rt, "weak")
		ex := rapid.Bool().Draw(rt, "ex")
		att := attacker(base, nil, card.Effect{})
		w := card.Element("")
		if weak {
			w = card.Grass
		}
		def := defender(hp, w)
		def.Active.MaxHP = 200
		def.Active.EX = ex

		out, err := newResolver(dice.NewScriptedSource()).ResolveAttack(att, def, 0)
		require.NoError(rt, err)
		want := base
		if weak {
			want += combat.WeaknessBonus
		}
		if want > hp {
			want = hp
		}
		assert.Equal(rt, want, out.Damage)
		assert.Equal(rt, out.KnockedOut, def.Active == nil)
		if out.KnockedOut {
			points := 1
			if ex {
				points = 2
			}
			assert.Equal(rt, points, att.Score)
		} else {
			assert.Equal(rt, hp-want, def.Active.HP)
			assert.Zero(rt, att.Score)
		}
	})
}

func TestResolveAttack_LogsOutcome(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	reg := condition.DefaultRegistry()
	src := dice.NewScriptedSource()
	r := combat.NewResolver(src, reg, effect.NewDispatcher(src, reg, nil, nil), zap.New(core))
	_, err := r.ResolveAttack(attacker(20, nil, card.Effect{}), defender(100, ""), 0)
	require.NoError(t, err)
	entries := logs.FilterMessage("attack resolved").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 20, entries[0].ContextMap()["damage"])
}
