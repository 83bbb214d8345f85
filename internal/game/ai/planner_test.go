package ai_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/cory-johannsen/cardclash/internal/game/ai"
	"github.com/cory-johannsen/cardclash/internal/game/card"
)

func actionsOf(plan []ai.PlannedAction) []string {
	out := make([]string, len(plan))
	for i, pa := range plan {
		out[i] = pa.Action
	}
	return out
}

func last(plan []ai.PlannedAction) string {
	if len(plan) == 0 {
		return ""
	}
	return plan[len(plan)-1].Action
}

func TestPlanner_Plan_StrikesWhenAttackPossible(t *testing.T) {
	s := duel(3, creature("a1", "Pebble", 60, 10, 1), creature("o1", "Rock", 60, 10, 1))
	plan, err := ai.NewPlanner(ai.DefaultDomain()).Plan(s)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if last(plan) != ai.ActionAttack {
		t.Fatalf("expected plan to end in attack, got %v", actionsOf(plan))
	}
	if plan[0].Action != ai.ActionEvolve {
		t.Fatalf("expected development first, got %v", actionsOf(plan))
	}
}

func TestPlanner_Plan_PassesWithoutDefender(t *testing.T) {
	s := duel(3, creature("a1", "Pebble", 60, 10, 1), nil)
	plan, err := ai.NewPlanner(ai.DefaultDomain()).Plan(s)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if last(plan) != ai.ActionPass {
		t.Fatalf("expected pass, got %v", actionsOf(plan))
	}
}

func TestPlanner_Plan_RetreatsParalyzedActive(t *testing.T) {
	a := creature("a1", "Pebble", 60, 10, 1)
	a.Status = card.StatusParalysis
	a.Energy.Add(card.Grass, 1)
	s := duel(3, a, creature("o1", "Rock", 60, 10, 1))
	s.Self.Bench = append(s.Self.Bench, creature("b1", "Boulder", 90, 20, 0))

	plan, err := ai.NewPlanner(ai.DefaultDomain()).Plan(s)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	got := actionsOf(plan)
	if len(got) < 2 || got[len(got)-2] != ai.ActionRetreat || got[len(got)-1] != ai.ActionAttack {
		t.Fatalf("expected retreat then attack, got %v", got)
	}
}

func TestPlanner_Plan_NoRetreatWithoutEnergy(t *testing.T) {
	a := creature("a1", "Pebble", 60, 10, 1)
	a.Status = card.StatusParalysis
	s := duel(3, a, creature("o1", "Rock", 60, 10, 1))
	s.Self.Bench = append(s.Self.Bench, creature("b1", "Boulder", 90, 20, 0))

	plan, _ := ai.NewPlanner(ai.DefaultDomain()).Plan(s)
	if last(plan) != ai.ActionPass {
		t.Fatalf("expected pass for a paralyzed active that cannot retreat, got %v", actionsOf(plan))
	}
}

func TestPlanner_Plan_NilStateErrors(t *testing.T) {
	if _, err := ai.NewPlanner(ai.DefaultDomain()).Plan(nil); err == nil {
		t.Fatal("expected error for nil state")
	}
}

func TestPlanner_Plan_RecursiveDomainTerminates(t *testing.T) {
	d := &ai.Domain{
		ID:        "loop",
		Tasks:     []*ai.Task{{ID: ai.RootTask}},
		Methods:   []*ai.Method{{TaskID: ai.RootTask, ID: "again", Subtasks: []string{"op", ai.RootTask}}},
		Operators: []*ai.Operator{{ID: "op", Action: ai.ActionPass}},
	}
	plan, err := ai.NewPlanner(d).Plan(duel(0, creature("a1", "Pebble", 60, 10, 1), nil))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(plan) == 0 || len(plan) > 32 {
		t.Fatalf("expected a bounded plan, got %d actions", len(plan))
	}
}

func TestNewPlanner_PanicsOnNilDomain(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	ai.NewPlanner(nil)
}

func TestProperty_Plan_AlwaysNonNilAndKnownActions(t *testing.T) {
	known := map[string]bool{
		ai.ActionAttachEnergy: true, ai.ActionEvolve: true, ai.ActionBench: true,
		ai.ActionAbilities: true, ai.ActionSupporter: true, ai.ActionItems: true,
		ai.ActionTool: true, ai.ActionRetreat: true, ai.ActionAttack: true, ai.ActionPass: true,
	}
	rapid.Check(t, func(rt *rapid.T) {
		hp := rapid.IntRange(1, 100).Draw(rt, "hp")
		a := creature("a1", "Pebble", 100, 10, rapid.IntRange(0, 3).Draw(rt, "cost"))
		a.HP = hp
		a.Energy.Add(card.Grass, rapid.IntRange(0, 3).Draw(rt, "energy"))
		a.Status = rapid.SampledFrom(card.Statuses).Draw(rt, "status")
		var opp *card.Creature
		if rapid.Bool().Draw(rt, "hasOpp") {
			opp = creature("o1", "Rock", 60, 10, 1)
		}
		s := duel(rapid.IntRange(0, 20).Draw(rt, "turn"), a, opp)
		for i := 0; i < rapid.IntRange(0, 3).Draw(rt, "bench"); i++ {
			s.Self.Bench = append(s.Self.Bench, creature("b"+string(rune('0'+i)), "Boulder", 90, 20, 0))
		}
		plan, err := ai.NewPlanner(ai.DefaultDomain()).Plan(s)
		if err != nil {
			rt.Fatalf("Plan: %v", err)
		}
		if plan == nil {
			rt.Fatal("plan must not be nil")
		}
		for _, pa := range plan {
			if !known[pa.Action] {
				rt.Fatalf("unknown action %q", pa.Action)
			}
		}
		if l := last(plan); l != ai.ActionAttack && l != ai.ActionPass {
			rt.Fatalf("plan must end in attack or pass, got %v", actionsOf(plan))
		}
	})
}
