package content_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/cardclash/internal/config"
	"github.com/cory-johannsen/cardclash/internal/content"
	"github.com/cory-johannsen/cardclash/internal/game/card"
	"github.com/cory-johannsen/cardclash/internal/game/dice"
	"github.com/cory-johannsen/cardclash/internal/game/engine"
)

const cardsYAML = `
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
        damage: 20
        cost: [grass]
  - id: t-101
    name: Hex Charm
    kind: item
    effect: {kind: script, hook: hex_charm}
`

const deckYAML = `
name: Sprouts
cards:
  - {id: t-001, count: 18}
  - {id: t-101, count: 2}
`

const domainYAML = `
domain:
  id: cautious
  tasks:
    - id: behave
  methods:
    - task: behave
      id: only_pass
      subtasks: [do_pass]
  operators:
    - id: do_pass
      action: pass
`

type tree struct {
	cards, decks, scripts, ai, statuses string
}

func writeTree(t *testing.T) tree {
	t.Helper()
	root := t.TempDir()
	tr := tree{
		cards:    filepath.Join(root, "cards"),
		decks:    filepath.Join(root, "decks"),
		scripts:  filepath.Join(root, "scripts"),
		ai:       filepath.Join(root, "ai"),
		statuses: filepath.Join(root, "statuses"),
	}
	for _, d := range []string{tr.cards, tr.decks, tr.scripts, tr.ai, tr.statuses} {
		require.NoError(t, os.MkdirAll(d, 0755))
	}
	write := func(dir, name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
	}
	write(tr.cards, "test.yaml", cardsYAML)
	write(tr.decks, "sprouts.yaml", deckYAML)
	write(tr.scripts, "hex.lua", "function hex_charm() engine.heal(10) end\n")
	write(tr.ai, "cautious.yaml", domainYAML)
	write(tr.statuses, "poison.yaml", "id: poison\nname: Poisoned\nticks: true\ntick_damage: 20\n")
	return tr
}

func (tr tree) config() config.ContentConfig {
	return config.ContentConfig{
		CardsDir:    tr.cards,
		DecksDir:    tr.decks,
		ScriptsDir:  tr.scripts,
		StatusesDir: tr.statuses,
		AIDir:       tr.ai,
	}
}

func TestLoad_AllSources(t *testing.T) {
	tr := writeTree(t)
	b, err := content.Load(tr.config(), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(b.Close)

	assert.Len(t, b.Catalog.All(), 2)
	require.Len(t, b.Decks, 1)
	assert.Equal(t, "Sprouts", b.Decks[0].Name)
	require.NotNil(t, b.Scripts)
	assert.True(t, b.Scripts.HasHook("hex_charm"))
	assert.Equal(t, []string{"aggro", "cautious"}, b.Domains.IDs())

	poison, ok := b.Statuses.Get(card.StatusPoison)
	require.True(t, ok)
	assert.Equal(t, 20, poison.TickDamage)
}

func TestLoad_MissingHook(t *testing.T) {
	tr := writeTree(t)
	require.NoError(t, os.Remove(filepath.Join(tr.scripts, "hex.lua")))
	_, err := content.Load(tr.config(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hex_charm")
}

func TestLoad_HooksWithoutScriptsDir(t *testing.T) {
	tr := writeTree(t)
	cfg := tr.config()
	cfg.ScriptsDir = ""
	_, err := content.Load(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scripts directory")
}

func TestLoad_DefaultsWithoutOptionalDirs(t *testing.T) {
	tr := writeTree(t)
	cfg := tr.config()
	cfg.StatusesDir = ""
	cfg.AIDir = ""
	b, err := content.Load(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(b.Close)
	assert.Equal(t, []string{"aggro"}, b.Domains.IDs())
	poison, _ := b.Statuses.Get(card.StatusPoison)
	assert.Equal(t, 10, poison.TickDamage)
}

func TestLoad_BadCatalog(t *testing.T) {
	tr := writeTree(t)
	require.NoError(t, os.WriteFile(filepath.Join(tr.cards, "bad.yaml"), []byte("cards:\n  - id: x\n"), 0644))
	_, err := content.Load(tr.config(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading catalog")
}

func TestBundle_DeckAndBot(t *testing.T) {
	tr := writeTree(t)
	b, err := content.Load(tr.config(), nil)
	require.NoError(t, err)
	t.Cleanup(b.Close)

	deck, err := b.Deck("Sprouts")
	require.NoError(t, err)
	assert.Len(t, deck, 20)

	_, err = b.Deck("Nope")
	assert.True(t, errors.Is(err, content.ErrUnknownDeck))

	bot, err := b.Bot("cautious", nil)
	require.NoError(t, err)
	assert.NotNil(t, bot)

	_, err = b.Bot("berserk", nil)
	assert.True(t, errors.Is(err, content.ErrUnknownDomain))
}

func TestBundle_OptionsStartAMatch(t *testing.T) {
	tr := writeTree(t)
	b, err := content.Load(tr.config(), nil)
	require.NoError(t, err)
	t.Cleanup(b.Close)

	mc := config.MatchConfig{
		DeckSize: 20, OpeningHand: 5, PointsToWin: 3,
		EnergyMode: "fixed", FixedElement: "grass", MaxMulligans: 100,
	}
	opts, err := b.Options(mc, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Same(t, b.Statuses, opts.Statuses)
	assert.NotNil(t, opts.Scripts)

	da, err := b.Deck("Sprouts")
	require.NoError(t, err)
	db, err := b.Deck("Sprouts")
	require.NoError(t, err)
	g, err := engine.NewMatch(engine.Seat{Name: "Ash", Deck: da}, engine.Seat{Name: "Gary", Deck: db},
		dice.NewSeededSource(3), opts)
	require.NoError(t, err)
	assert.False(t, g.IsGameOver())
}

func TestBundle_OptionsRejectsBadElement(t *testing.T) {
	tr := writeTree(t)
	b, err := content.Load(tr.config(), nil)
	require.NoError(t, err)
	t.Cleanup(b.Close)

	_, err = b.Options(config.MatchConfig{FixedElement: "plasma"}, nil)
	assert.Error(t, err)
}

func TestShippedContent(t *testing.T) {
	root := filepath.Join("..", "..")
	cfg, err := config.Load(filepath.Join(root, "configs", "dev.yaml"))
	require.NoError(t, err)
	cc := cfg.Content
	cc.CardsDir = filepath.Join(root, cc.CardsDir)
	cc.DecksDir = filepath.Join(root, cc.DecksDir)
	cc.ScriptsDir = filepath.Join(root, cc.ScriptsDir)
	cc.AIDir = filepath.Join(root, cc.AIDir)

	b, err := content.Load(cc, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(b.Close)

	_, err = b.Bot(cfg.Simulation.BotA, nil)
	require.NoError(t, err)
	_, err = b.Bot(cfg.Simulation.BotB, nil)
	require.NoError(t, err)

	opts, err := b.Options(cfg.Match, nil)
	require.NoError(t, err)
	for _, name := range []string{cfg.Simulation.DeckA, cfg.Simulation.DeckB} {
		da, err := b.Deck(name)
		require.NoError(t, err, name)
		db, err := b.Deck(name)
		require.NoError(t, err, name)
		_, err = engine.NewMatch(engine.Seat{Name: "A", Deck: da}, engine.Seat{Name: "B", Deck: db},
			dice.NewSeededSource(9), opts)
		require.NoError(t, err, name)
	}
}
