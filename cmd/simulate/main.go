// Package main provides the simulate binary that plays batches of bot-vs-bot
// matches and reports aggregate results.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/cardclash/internal/config"
	"github.com/cory-johannsen/cardclash/internal/content"
	"github.com/cory-johannsen/cardclash/internal/game/match"
	"github.com/cory-johannsen/cardclash/internal/lifecycle"
	"github.com/cory-johannsen/cardclash/internal/observability"
	"github.com/cory-johannsen/cardclash/internal/simulation"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	games := flag.Int("games", 0, "number of games; 0 keeps the configured value")
	seed := flag.Uint64("seed", 0, "batch seed; 0 keeps the configured value")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *games > 0 {
		cfg.Simulation.Games = *games
	}
	if *seed > 0 {
		cfg.Simulation.Seed = *seed
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = observability.Sync(logger) }()

	bundle, err := content.Load(cfg.Content, logger)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	defer bundle.Close()

	seatA, err := seat(bundle, cfg.Simulation.DeckA, cfg.Simulation.BotA, "A", logger)
	if err != nil {
		logger.Fatal("preparing seat A", zap.Error(err))
	}
	seatB, err := seat(bundle, cfg.Simulation.DeckB, cfg.Simulation.BotB, "B", logger)
	if err != nil {
		logger.Fatal("preparing seat B", zap.Error(err))
	}

	opts, err := bundle.Options(cfg.Match, logger)
	if err != nil {
		logger.Fatal("building match options", zap.Error(err))
	}
	mgr := match.NewManager(opts, cfg.Match.IdleTimeout, logger)
	runner := simulation.NewRunner(mgr, logger)

	logger.Info("starting simulation",
		zap.String("deck_a", seatA.Name),
		zap.String("deck_b", seatB.Name),
		zap.Int("games", cfg.Simulation.Games),
		zap.Int("workers", cfg.Simulation.Workers),
		zap.Uint64("seed", cfg.Simulation.Seed),
		zap.Duration("startup", time.Since(start)),
	)

	var results []simulation.GameResult
	lc := lifecycle.New(logger)
	lc.Add("simulation", lifecycle.NewContextService(func(ctx context.Context) error {
		var err error
		results, err = runner.RunBatch(ctx, cfg.Simulation, seatA, seatB)
		return err
	}))
	if err := lc.Run(context.Background()); err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}
	if results == nil {
		logger.Warn("simulation interrupted before completion")
		return
	}

	stats := simulation.Aggregate(results)
	logger.Info("simulation complete",
		zap.Int("games", stats.Games),
		zap.Int("wins_a", stats.Wins[0]),
		zap.Int("wins_b", stats.Wins[1]),
		zap.Float64("win_rate_a", stats.WinRate(0)),
		zap.Float64("win_rate_b", stats.WinRate(1)),
		zap.Int("unfinished", stats.Unfinished),
		zap.Int("first_player_wins", stats.FirstPlayerWins),
		zap.Float64("avg_turns", stats.AvgTurns),
		zap.Float64("median_turns", stats.MedianTurns),
		zap.Int("rejected_actions", stats.Rejected),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// seat builds one side of the batch. An empty deck name picks the first
// loaded deck list.
func seat(b *content.Bundle, deckName, domain, label string, logger *zap.Logger) (simulation.Player, error) {
	if deckName == "" && len(b.Decks) > 0 {
		deckName = b.Decks[0].Name
	}
	deck, err := b.Deck(deckName)
	if err != nil {
		return simulation.Player{}, err
	}
	bot, err := b.Bot(domain, logger.With(zap.String("seat", label)))
	if err != nil {
		return simulation.Player{}, err
	}
	return simulation.Player{Name: deckName, Deck: deck, Bot: bot}, nil
}
