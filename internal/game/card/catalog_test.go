package card_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/cardclash/internal/game/card"
)

const catalogYAML = `
set: test
cards:
  - id: t-001
    name: Seedling
    kind: basic
    element: grass
    weakness: fire
    hp: 60
    attacks:
      - name: Absorb
        damage: 10
        cost: [grass]
        effect: {kind: heal_self, amount: 10}
  - id: t-002
    name: Thornbloom
    kind: evolution
    evolves_from: Seedling
    element: Grass
    weakness: Fire
    hp: 110
    retreat_cost: 2
    ability:
      name: Sap Share
      effect: {kind: bench_energy, element: grass}
    attacks:
      - name: Tropical Swing
        damage: 40
        cost: [grass, colorless]
        effect: {kind: coin_bonus, amount: 40, coins: 1}
  - id: t-101
    name: Potion
    kind: item
    effect: {kind: heal_target, amount: 30}
  - id: t-102
    name: Hex Charm
    kind: item
    effect: {kind: script, hook: hex_charm}
`

func TestCatalog_LoadFromBytes(t *testing.T) {
	cat := card.NewCatalog()
	require.NoError(t, cat.LoadFromBytes([]byte(catalogYAML)))
	all := cat.All()
	require.Len(t, all, 4)
	assert.Equal(t, "t-001", all[0].ID)

	def, ok := cat.Get("t-002")
	require.True(t, ok)
	c, ok := def.Build("inst").(*card.Creature)
	require.True(t, ok)
	assert.Equal(t, "inst", c.ID)
	assert.Equal(t, "t-002", c.Number)
	assert.Equal(t, card.Grass, c.Element)
	assert.Equal(t, card.Fire, c.Weakness)
	assert.Equal(t, 110, c.HP)
	assert.Equal(t, 2, c.RetreatCost)
	assert.Equal(t, card.KindEvolution, c.Kind())
	require.NotNil(t, c.Ability)
	assert.Equal(t, card.EffectBenchEnergy, c.Ability.Effect.Kind)
	require.Len(t, c.Attacks, 1)
	assert.Equal(t, card.Effect{Kind: card.EffectCoinBonus, Amount: 40, Coins: 1}, c.Attacks[0].Effect)
	assert.NotNil(t, c.Energy)
	assert.Equal(t, card.StatusNone, c.Status)

	def, _ = cat.Get("t-001")
	assert.Equal(t, 1, def.Build("x").(*card.Creature).RetreatCost, "retreat cost defaults to 1")

	assert.Equal(t, []string{"hex_charm"}, cat.ScriptHooks())
}

func TestCatalog_RejectsUnknownField(t *testing.T) {
	cat := card.NewCatalog()
	err := cat.LoadFromBytes([]byte("cards:\n  - id: a\n    name: A\n    kind: item\n    colour: red\n"))
	assert.Error(t, err)
}

func TestCatalog_RejectsUnknownElement(t *testing.T) {
	cat := card.NewCatalog()
	err := cat.LoadFromBytes([]byte("cards:\n  - id: a\n    name: A\n    kind: basic\n    element: plasma\n    hp: 10\n"))
	assert.ErrorContains(t, err, "plasma")
}

func TestCatalog_RejectsDuplicateID(t *testing.T) {
	cat := card.NewCatalog()
	require.NoError(t, cat.LoadFromBytes([]byte(catalogYAML)))
	assert.ErrorContains(t, cat.LoadFromBytes([]byte(catalogYAML)), "duplicate")
}

func TestDefinition_Validate(t *testing.T) {
	cases := map[string]card.Definition{
		"missing id":             {Name: "A", Kind: card.KindBasic, Element: card.Grass, HP: 10},
		"zero hp":                {ID: "a", Name: "A", Kind: card.KindBasic, Element: card.Grass},
		"basic evolves":          {ID: "a", Name: "A", Kind: card.KindBasic, Element: card.Grass, HP: 10, EvolvesFrom: "B"},
		"evolution no parent":    {ID: "a", Name: "A", Kind: card.KindEvolution, Element: card.Grass, HP: 10},
		"unknown kind":           {ID: "a", Name: "A", Kind: "energy"},
		"trainer without effect": {ID: "a", Name: "A", Kind: card.KindItem},
		"tool with active effect": {ID: "a", Name: "A", Kind: card.KindTool,
			Effect: card.Effect{Kind: card.EffectDraw, Amount: 1}},
		"bad attack effect": {ID: "a", Name: "A", Kind: card.KindBasic, Element: card.Grass, HP: 10,
			Attacks: []card.AttackDef{{Name: "X", Effect: card.Effect{Kind: card.EffectCoinBonus}}}},
	}
	for name, def := range cases {
		t.Run(name, func(t *testing.T) {
			d := def
			assert.Error(t, d.Validate())
		})
	}
}

func TestEffect_Validate(t *testing.T) {
	assert.NoError(t, card.Effect{}.Validate())
	assert.NoError(t, card.Effect{Kind: card.EffectSearchDeck}.Validate())
	assert.NoError(t, card.Effect{Kind: card.EffectApplyStatus, Status: card.StatusPoison}.Validate())
	assert.Error(t, card.Effect{Kind: card.EffectApplyStatus, Status: card.StatusNone}.Validate())
	assert.Error(t, card.Effect{Kind: card.EffectBenchEnergy}.Validate())
	assert.Error(t, card.Effect{Kind: card.EffectScript}.Validate())
	assert.Error(t, card.Effect{Kind: "teleport"}.Validate())
}

func TestLoadCatalog_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.yaml"), []byte(catalogYAML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0644))
	cat, err := card.LoadCatalog(dir)
	require.NoError(t, err)
	assert.Len(t, cat.All(), 4)
}

func TestLoadCatalog_MissingDir(t *testing.T) {
	_, err := card.LoadCatalog(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestBuildDeck_FreshInstances(t *testing.T) {
	cat := card.NewCatalog()
	require.NoError(t, cat.LoadFromBytes([]byte(catalogYAML)))
	def, err := card.LoadDeckFromBytes([]byte("name: mini\ncards:\n  - {id: t-001, count: 3}\n  - {id: t-101, count: 2}\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, def.Size())

	deck, err := cat.BuildDeck(def)
	require.NoError(t, err)
	require.Len(t, deck, 5)
	ids := make(map[string]bool)
	for _, c := range deck {
		ids[c.InstanceID()] = true
	}
	assert.Len(t, ids, 5, "every instance ID is unique")
	assert.NotSame(t, deck[0], deck[1])
	assert.Equal(t, card.KindItem, deck[4].Kind())
}

func TestBuildDeck_UnknownCard(t *testing.T) {
	cat := card.NewCatalog()
	_, err := cat.BuildDeck(&card.DeckDef{Name: "x", Cards: []card.DeckEntry{{ID: "nope", Count: 1}}})
	assert.ErrorContains(t, err, "not in catalog")
}

func TestLoadDecks_Directory(t *testing.T) {
	cat := card.NewCatalog()
	require.NoError(t, cat.LoadFromBytes([]byte(catalogYAML)))
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte("name: beta\ncards:\n  - {id: t-001, count: 1}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("name: alpha\ncards:\n  - {id: t-002, count: 1}\n"), 0644))
	decks, err := card.LoadDecks(dir, cat)
	require.NoError(t, err)
	require.Len(t, decks, 2)
	assert.Equal(t, "alpha", decks[0].Name)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.yaml"), []byte("name: alpha\ncards:\n  - {id: t-001, count: 1}\n"), 0644))
	_, err = card.LoadDecks(dir, cat)
	assert.ErrorContains(t, err, "duplicate")
}
