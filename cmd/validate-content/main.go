// Package main provides the validate-content binary. It loads every content
// source the engine uses, checks that each deck can start a match under the
// configured rules, and exits non-zero on the first problem.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/cory-johannsen/cardclash/internal/config"
	"github.com/cory-johannsen/cardclash/internal/content"
	"github.com/cory-johannsen/cardclash/internal/game/dice"
	"github.com/cory-johannsen/cardclash/internal/game/engine"
	"github.com/cory-johannsen/cardclash/internal/observability"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = observability.Sync(logger) }()

	bundle, err := content.Load(cfg.Content, logger)
	if err != nil {
		logger.Error("content invalid", zap.Error(err))
		os.Exit(1)
	}
	defer bundle.Close()

	opts, err := bundle.Options(cfg.Match, nil)
	if err != nil {
		logger.Error("match options invalid", zap.Error(err))
		os.Exit(1)
	}

	failed := 0
	for _, d := range bundle.Decks {
		if err := checkDeck(bundle, d.Name, opts); err != nil {
			logger.Error("deck cannot start a match", zap.String("deck", d.Name), zap.Error(err))
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
	fmt.Printf("content ok: %d cards, %d decks, %d planner domains\n",
		len(bundle.Catalog.All()), len(bundle.Decks), len(bundle.Domains.IDs()))
}

// checkDeck sets up a mirror match with the deck list name.
func checkDeck(b *content.Bundle, name string, opts engine.Options) error {
	a, err := b.Deck(name)
	if err != nil {
		return err
	}
	c, err := b.Deck(name)
	if err != nil {
		return err
	}
	_, err = engine.NewMatch(engine.Seat{Name: "A", Deck: a}, engine.Seat{Name: "B", Deck: c},
		dice.NewSeededSource(1), opts)
	return err
}
