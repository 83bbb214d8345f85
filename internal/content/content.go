// Package content loads the YAML and Lua content shared by the binaries:
// card catalog, deck lists, status rules, effect scripts and planner domains.
package content

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/cardclash/internal/config"
	"github.com/cory-johannsen/cardclash/internal/game/ai"
	"github.com/cory-johannsen/cardclash/internal/game/card"
	"github.com/cory-johannsen/cardclash/internal/game/condition"
	"github.com/cory-johannsen/cardclash/internal/game/engine"
	"github.com/cory-johannsen/cardclash/internal/scripting"
)

// ErrUnknownDeck is returned when a deck name matches no loaded deck list.
var ErrUnknownDeck = errors.New("unknown deck")

// ErrUnknownDomain is returned when a planner domain ID is not registered.
var ErrUnknownDomain = errors.New("unknown planner domain")

// Bundle is the loaded content.
type Bundle struct {
	Catalog  *card.Catalog
	Decks    []*card.DeckDef
	Statuses *condition.Registry
	// Scripts is nil when no script directory is configured.
	Scripts *scripting.Manager
	Domains *ai.Registry
}

// Load reads every content source named by cfg.
//
// Postcondition: on success every script hook referenced by the catalog is
// defined and the built-in planner domain is registered.
func Load(cfg config.ContentConfig, logger *zap.Logger) (*Bundle, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Bundle{}

	start := time.Now()
	cat, err := card.LoadCatalog(cfg.CardsDir)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	b.Catalog = cat
	logger.Info("catalog loaded",
		zap.Int("cards", len(cat.All())),
		zap.Duration("elapsed", time.Since(start)),
	)

	start = time.Now()
	decks, err := card.LoadDecks(cfg.DecksDir, cat)
	if err != nil {
		return nil, fmt.Errorf("loading decks: %w", err)
	}
	b.Decks = decks
	logger.Info("decks loaded",
		zap.Int("count", len(decks)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if cfg.StatusesDir == "" {
		b.Statuses = condition.DefaultRegistry()
	} else {
		reg, err := condition.LoadDirectory(cfg.StatusesDir)
		if err != nil {
			return nil, fmt.Errorf("loading statuses: %w", err)
		}
		b.Statuses = reg
	}
	logger.Info("status rules loaded", zap.Int("count", len(b.Statuses.All())))

	if err := b.loadScripts(cfg, logger); err != nil {
		return nil, err
	}

	if err := b.loadDomains(cfg.AIDir, logger); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func (b *Bundle) loadScripts(cfg config.ContentConfig, logger *zap.Logger) error {
	hooks := b.Catalog.ScriptHooks()
	if cfg.ScriptsDir == "" {
		if len(hooks) > 0 {
			return fmt.Errorf("catalog uses script hooks %s but no scripts directory is configured",
				strings.Join(hooks, ", "))
		}
		return nil
	}
	start := time.Now()
	mgr := scripting.NewManager(logger, cfg.ScriptInstructionLimit)
	if err := mgr.LoadDir(cfg.ScriptsDir); err != nil {
		mgr.Close()
		return fmt.Errorf("loading scripts: %w", err)
	}
	if missing := mgr.MissingHooks(hooks); len(missing) > 0 {
		mgr.Close()
		return fmt.Errorf("catalog references undefined script hooks: %s", strings.Join(missing, ", "))
	}
	b.Scripts = mgr
	logger.Info("scripts loaded",
		zap.Int("hooks", len(hooks)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func (b *Bundle) loadDomains(dir string, logger *zap.Logger) error {
	b.Domains = ai.NewRegistry()
	if dir != "" {
		domains, err := ai.LoadDomains(dir)
		if err != nil {
			return err
		}
		for _, d := range domains {
			if err := b.Domains.Register(d); err != nil {
				return fmt.Errorf("registering domain %q: %w", d.ID, err)
			}
		}
	}
	def := ai.DefaultDomain()
	if _, ok := b.Domains.PlannerFor(def.ID); !ok {
		if err := b.Domains.Register(def); err != nil {
			return err
		}
	}
	logger.Info("planner domains loaded", zap.Strings("ids", b.Domains.IDs()))
	return nil
}

// Close releases the script VM, if any.
func (b *Bundle) Close() {
	if b.Scripts != nil {
		b.Scripts.Close()
	}
}

// Deck builds fresh card instances for the deck list called name.
func (b *Bundle) Deck(name string) ([]card.Card, error) {
	for _, d := range b.Decks {
		if d.Name == name {
			return b.Catalog.BuildDeck(d)
		}
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownDeck, name)
}

// Bot returns a bot driven by the planner domain id.
func (b *Bundle) Bot(id string, logger *zap.Logger) (*ai.Bot, error) {
	p, ok := b.Domains.PlannerFor(id)
	if !ok {
		return nil, fmt.Errorf("%w %q (have %s)", ErrUnknownDomain, id, strings.Join(b.Domains.IDs(), ", "))
	}
	return ai.NewBot(p, logger), nil
}

// Options builds match options from cfg wired to the bundle's status rules
// and scripts.
func (b *Bundle) Options(cfg config.MatchConfig, logger *zap.Logger) (engine.Options, error) {
	opts, err := engine.OptionsFrom(cfg)
	if err != nil {
		return engine.Options{}, err
	}
	opts.Statuses = b.Statuses
	if b.Scripts != nil {
		opts.Scripts = b.Scripts
	}
	opts.Logger = logger
	return opts, nil
}
