package ai

import (
	"github.com/cory-johannsen/cardclash/internal/game/card"
	"github.com/cory-johannsen/cardclash/internal/game/engine"
	"github.com/cory-johannsen/cardclash/internal/game/player"
)

// Target tokens an operator may name.
const (
	TargetActive         = "active"
	TargetNeediest       = "neediest"        // own creature furthest from paying its attacks
	TargetWeakestOwn     = "weakest_own"     // damaged own creature with the lowest HP percentage
	TargetStrongestBench = "strongest_bench" // benched creature with the most HP
)

// slot is one board position as it will look once the compiled steps before
// the current one have run.
type slot struct {
	c      *card.Creature // creature occupying the slot
	origin *card.Creature // creature whose status the slot carries
	energy card.Energy
	tooled bool
}

// projection tracks the board and hand across compiled steps so later steps
// name the right instance IDs.
type projection struct {
	s       *State
	active  *slot
	bench   []*slot
	used    map[string]bool // hand cards already committed
	tokens  int             // pool tokens left
	evolved map[*slot]bool
}

func newProjection(s *State) *projection {
	pr := &projection{
		s:       s,
		used:    make(map[string]bool),
		tokens:  s.Self.Energy,
		evolved: make(map[*slot]bool),
	}
	mk := func(c *card.Creature) *slot {
		return &slot{c: c, origin: c, energy: c.Energy.Clone(), tooled: c.Tool != nil}
	}
	if s.Self.Active != nil {
		pr.active = mk(s.Self.Active)
	}
	for _, b := range s.Self.Bench {
		pr.bench = append(pr.bench, mk(b))
	}
	return pr
}

func (pr *projection) slots() []*slot {
	var out []*slot
	if pr.active != nil {
		out = append(out, pr.active)
	}
	return append(out, pr.bench...)
}

// hand returns the unused hand cards accepted by keep, in hand order.
func (pr *projection) hand(keep func(card.Card) bool) []card.Card {
	var out []card.Card
	for _, c := range pr.s.Self.Hand {
		if !pr.used[c.InstanceID()] && keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// resolve maps a target token to a projected slot, or nil.
func (pr *projection) resolve(token string) *slot {
	switch token {
	case "", TargetActive:
		return pr.active
	case TargetNeediest:
		for _, sl := range pr.slots() {
			if missingEnergy(sl.c, sl.energy) > 0 {
				return sl
			}
		}
		return pr.active
	case TargetWeakestOwn:
		var weakest *slot
		for _, sl := range pr.slots() {
			if sl.c.HP >= sl.c.MaxHP {
				continue
			}
			if weakest == nil || HPPercent(sl.c) < HPPercent(weakest.c) {
				weakest = sl
			}
		}
		return weakest
	case TargetStrongestBench:
		var best *slot
		for _, sl := range pr.bench {
			if best == nil || sl.c.HP > best.c.HP {
				best = sl
			}
		}
		return best
	}
	for _, sl := range pr.slots() {
		if sl.c.ID == token {
			return sl
		}
	}
	return nil
}

// Compile turns plan into the actions of one turn. Each action kind is
// compiled once, at its first occurrence; the steps are filled in engine
// order so that every ID refers to the instance that will be on the board
// when its step runs.
//
// Precondition: s was built after BeginTurn for the acting player.
func Compile(s *State, plan []PlannedAction) engine.TurnActions {
	want := make(map[string]string, len(plan))
	for _, pa := range plan {
		if _, ok := want[pa.Action]; !ok {
			want[pa.Action] = pa.Target
		}
	}
	pr := newProjection(s)
	var out engine.TurnActions

	if token, ok := want[ActionAttachEnergy]; ok {
		pr.attach(&out, token)
	}
	if _, ok := want[ActionEvolve]; ok {
		pr.evolve(&out)
	}
	if _, ok := want[ActionBench]; ok {
		pr.benchBasics(&out)
	}
	if _, ok := want[ActionAbilities]; ok {
		pr.abilities(&out)
	}
	if token, ok := want[ActionSupporter]; ok {
		if t := pr.trainers(card.KindSupporter, token, 1); len(t) > 0 {
			out.Supporter = &t[0]
		}
	}
	if token, ok := want[ActionItems]; ok {
		out.Items = pr.trainers(card.KindItem, token, -1)
	}
	if token, ok := want[ActionTool]; ok {
		pr.tools(&out, token)
	}
	if token, ok := want[ActionRetreat]; ok {
		pr.retreat(&out, token)
	}
	if _, ok := want[ActionAttack]; ok {
		pr.attack(&out)
	}
	return out
}

func (pr *projection) attach(out *engine.TurnActions, token string) {
	for ; pr.tokens > 0; pr.tokens-- {
		sl := pr.resolve(token)
		if sl == nil {
			return
		}
		out.Attachments = append(out.Attachments, sl.c.ID)
		sl.energy.Add(pr.s.Self.EnergyElement, 1)
	}
}

func (pr *projection) evolve(out *engine.TurnActions) {
	if pr.s.Turn < engine.FirstEvolutionTurn {
		return
	}
	for _, c := range pr.hand(isEvolution) {
		evo := c.(*card.Creature)
		for _, sl := range pr.slots() {
			if pr.evolved[sl] || sl.c.Name != evo.EvolvesFrom || !sl.c.CanEvolve(pr.s.Turn) {
				continue
			}
			out.Evolutions = append(out.Evolutions, engine.Evolution{CardID: evo.ID, TargetID: sl.c.ID})
			pr.used[evo.ID] = true
			pr.evolved[sl] = true
			sl.c = evo
			break
		}
	}
}

func (pr *projection) benchBasics(out *engine.TurnActions) {
	for _, c := range pr.hand(isBasic) {
		if len(pr.bench) >= player.BenchCapacity {
			return
		}
		cr := c.(*card.Creature)
		out.BenchPlays = append(out.BenchPlays, cr.ID)
		pr.used[cr.ID] = true
		pr.bench = append(pr.bench, &slot{c: cr, origin: cr, energy: card.Energy{}})
	}
}

func (pr *projection) abilities(out *engine.TurnActions) {
	for _, sl := range pr.slots() {
		ab := sl.c.Ability
		if ab == nil || (sl.c == sl.origin && sl.c.AbilityUsed) {
			continue
		}
		switch ab.Effect.Kind {
		case card.EffectHealSelf:
			if sl.c.HP >= sl.c.MaxHP {
				continue
			}
		case card.EffectBenchEnergy:
			if pr.tokens == 0 {
				continue
			}
		case card.EffectCoinBonus, card.EffectDamageBoost, card.EffectDamageReduction,
			card.EffectSwitch, card.EffectHealTarget, card.EffectDiscardHandDraw:
			continue
		}
		out.Abilities = append(out.Abilities, sl.c.ID)
	}
}

// trainers picks up to limit useful trainers of kind, all of them when
// limit < 0. Switch trainers are left for retreat.
func (pr *projection) trainers(kind card.Kind, token string, limit int) []engine.TrainerPlay {
	var plays []engine.TrainerPlay
	for _, c := range pr.hand(ofKind(kind)) {
		if limit >= 0 && len(plays) >= limit {
			break
		}
		t := c.(*card.Trainer)
		var target string
		switch t.Effect.Kind {
		case card.EffectSwitch:
			continue
		case card.EffectHealTarget:
			sl := pr.resolve(token)
			if sl == nil || sl.c.HP >= sl.c.MaxHP {
				continue
			}
			target = sl.c.ID
		case card.EffectDiscardHandDraw:
			if len(pr.hand(func(card.Card) bool { return true })) > 3 {
				continue
			}
		case card.EffectBenchEnergy:
			if pr.tokens == 0 {
				continue
			}
		}
		plays = append(plays, engine.TrainerPlay{CardID: t.ID, TargetID: target})
		pr.used[t.ID] = true
		if t.Effect.Kind == card.EffectDiscardHandDraw {
			// the rest of the hand is gone before later steps run
			for _, c := range pr.hand(func(card.Card) bool { return true }) {
				pr.used[c.InstanceID()] = true
			}
			break
		}
	}
	return plays
}

func (pr *projection) tools(out *engine.TurnActions, token string) {
	for _, c := range pr.hand(ofKind(card.KindTool)) {
		sl := pr.resolve(token)
		if sl == nil || sl.tooled {
			sl = nil
			for _, cand := range pr.slots() {
				if !cand.tooled {
					sl = cand
					break
				}
			}
		}
		if sl == nil {
			return
		}
		out.Tools = append(out.Tools, engine.TrainerPlay{CardID: c.InstanceID(), TargetID: sl.c.ID})
		pr.used[c.InstanceID()] = true
		sl.tooled = true
	}
}

// retreat swaps in the target, preferring a free switch item over paying the
// retreat cost.
func (pr *projection) retreat(out *engine.TurnActions, token string) {
	to := pr.resolve(token)
	if pr.active == nil || to == nil || to == pr.active {
		return
	}
	for _, c := range pr.hand(ofKind(card.KindItem)) {
		if c.(*card.Trainer).Effect.Kind == card.EffectSwitch {
			out.Items = append(out.Items, engine.TrainerPlay{CardID: c.InstanceID(), TargetID: to.c.ID})
			pr.used[c.InstanceID()] = true
			pr.swap(to)
			return
		}
	}
	cost := card.ColorlessCost(pr.active.c.RetreatCost)
	if pr.s.Self.Retreated {
		return
	}
	if err := pr.active.energy.Pay(cost); err != nil {
		return
	}
	out.Retreat = to.c.ID
	pr.swap(to)
}

func (pr *projection) swap(to *slot) {
	for i, sl := range pr.bench {
		if sl == to {
			pr.bench[i] = pr.active
			pr.active = to
			return
		}
	}
}

func (pr *projection) attack(out *engine.TurnActions) {
	a := pr.active
	if a == nil || pr.s.Opp.Active == nil || !pr.s.Statuses.CanAttack(a.origin) {
		return
	}
	if i := pr.s.BestAttack(a.c, a.energy); i >= 0 {
		out.Attack = engine.AttackWith(i)
	}
}

func isEvolution(c card.Card) bool {
	cr, ok := c.(*card.Creature)
	return ok && !cr.IsBasic()
}

func isBasic(c card.Card) bool {
	cr, ok := c.(*card.Creature)
	return ok && cr.IsBasic()
}

func ofKind(k card.Kind) func(card.Card) bool {
	return func(c card.Card) bool {
		t, ok := c.(*card.Trainer)
		return ok && t.TrainerKind == k
	}
}
