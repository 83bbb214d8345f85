package ai_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/cory-johannsen/cardclash/internal/game/ai"
	"github.com/cory-johannsen/cardclash/internal/game/card"
)

func TestHPPercent(t *testing.T) {
	c := creature("a1", "Pebble", 80, 10, 1)
	c.HP = 20
	if got := ai.HPPercent(c); got != 25 {
		t.Fatalf("expected 25, got %v", got)
	}
	if got := ai.HPPercent(nil); got != 0 {
		t.Fatalf("expected 0 for nil, got %v", got)
	}
}

func TestExpectedDamage_WeaknessAndTools(t *testing.T) {
	att := creature("a1", "Ember", 60, 30, 1)
	att.Element = card.Fire
	att.Tool = trainer("t1", "Band", card.KindTool, card.Effect{Kind: card.EffectDamageBoost, Amount: 10})
	def := creature("o1", "Sprout", 70, 10, 1)
	def.Weakness = card.Fire
	def.Tool = trainer("t2", "Vest", card.KindTool, card.Effect{Kind: card.EffectDamageReduction, Amount: 20})

	if got := ai.ExpectedDamage(att, att.Attacks[0], def); got != 30+10+20-20 {
		t.Fatalf("expected 40, got %d", got)
	}
}

func TestExpectedDamage_CountsHalfTheCoinBonus(t *testing.T) {
	att := creature("a1", "Horn", 60, 10, 1)
	atk := att.Attacks[0]
	atk.Effect = card.Effect{Kind: card.EffectCoinBonus, Amount: 20, Coins: 2}
	if got := ai.ExpectedDamage(att, atk, nil); got != 30 {
		t.Fatalf("expected 30, got %d", got)
	}
}

func TestBestAttack_PicksHighestPayable(t *testing.T) {
	a := creature("a1", "Pebble", 60, 10, 1)
	a.Attacks = append(a.Attacks,
		card.Attack{Name: "Slam", Damage: 50, Cost: card.ColorlessCost(3)},
		card.Attack{Name: "Bash", Damage: 30, Cost: card.ColorlessCost(2)},
	)
	s := duel(3, a, creature("o1", "Rock", 60, 10, 1))
	if got := s.BestAttack(a, card.Energy{card.Grass: 2}); got != 2 {
		t.Fatalf("expected Bash (2), got %d", got)
	}
	if got := s.BestAttack(a, card.Energy{}); got != -1 {
		t.Fatalf("expected -1 without energy, got %d", got)
	}
}

func TestCanKnockOut(t *testing.T) {
	a := creature("a1", "Pebble", 60, 30, 1)
	a.Energy.Add(card.Grass, 1)
	d := creature("o1", "Rock", 60, 10, 1)
	s := duel(3, a, d)
	if s.CanKnockOut() {
		t.Fatal("30 damage cannot knock out 60 HP")
	}
	d.HP = 30
	if !s.CanKnockOut() {
		t.Fatal("30 damage must knock out 30 HP")
	}
}

func TestStrongestBench_TiesGoToBenchOrder(t *testing.T) {
	s := duel(3, creature("a1", "Pebble", 60, 10, 1), nil)
	s.Self.Bench = append(s.Self.Bench,
		creature("b1", "Boulder", 90, 20, 0),
		creature("b2", "Cliff", 90, 20, 0),
		creature("b3", "Pebble", 60, 10, 1),
	)
	if got := s.StrongestBench(); got == nil || got.ID != "b1" {
		t.Fatalf("expected b1, got %v", got)
	}
}

func TestProperty_HPPercent_InRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		maxHP := rapid.IntRange(1, 300).Draw(rt, "max")
		c := creature("a1", "Pebble", maxHP, 10, 1)
		c.HP = rapid.IntRange(0, maxHP).Draw(rt, "hp")
		if p := ai.HPPercent(c); p < 0 || p > 100 {
			rt.Fatalf("HPPercent out of range: %v", p)
		}
	})
}
