// Package simulation runs batches of bot-versus-bot matches in parallel.
// Every game draws from its own seeded source, so a batch is reproducible
// from its seed regardless of worker scheduling.
package simulation

import (
	"context"
	"errors"
	"fmt"
	mrand "math/rand/v2"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/cardclash/internal/config"
	"github.com/cory-johannsen/cardclash/internal/game/ai"
	"github.com/cory-johannsen/cardclash/internal/game/card"
	"github.com/cory-johannsen/cardclash/internal/game/dice"
	"github.com/cory-johannsen/cardclash/internal/game/engine"
	"github.com/cory-johannsen/cardclash/internal/game/match"
)

// Player is one seat of a batch. Deck is copied by every match and may be
// shared between games.
type Player struct {
	Name string
	Deck []card.Card
	Bot  *ai.Bot
}

// GameResult is the outcome of one game.
type GameResult struct {
	Index   int
	MatchID string
	Seed    uint64
	First   int
	// Winner is the winning seat, or -1 when the turn limit was reached.
	Winner   int
	Turns    int
	Scores   [2]int
	Rejected int
}

// Runner plays games through a match.Manager.
type Runner struct {
	mgr    *match.Manager
	logger *zap.Logger
}

// NewRunner returns a Runner hosting its games in mgr. A nil logger is
// replaced by a no-op logger.
//
// Precondition: mgr must not be nil.
func NewRunner(mgr *match.Manager, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{mgr: mgr, logger: logger}
}

// Seeds derives n game seeds from seed.
//
// Postcondition: the result depends only on seed and n.
func Seeds(seed uint64, n int) []uint64 {
	rng := mrand.New(mrand.NewPCG(seed, ^seed))
	out := make([]uint64, n)
	for i := range out {
		out[i] = rng.Uint64()
	}
	return out
}

// RunBatch plays cfg.Games games between a and b on cfg.Workers workers and
// returns the results in game order. The first failing game cancels the rest.
//
// Precondition: cfg passed config validation; a.Bot and b.Bot are non-nil.
func (r *Runner) RunBatch(ctx context.Context, cfg config.SimulationConfig, a, b Player) ([]GameResult, error) {
	seeds := Seeds(cfg.Seed, cfg.Games)
	results := make([]GameResult, cfg.Games)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, seed := range seeds {
		g.Go(func() error {
			res, err := r.RunGame(gctx, i, seed, cfg.MaxTurns, a, b)
			if err != nil {
				return fmt.Errorf("game %d (seed %d): %w", i, seed, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	r.logger.Info("batch finished",
		zap.Int("games", cfg.Games),
		zap.Int("workers", cfg.Workers),
		zap.Uint64("seed", cfg.Seed),
	)
	return results, nil
}

// RunGame plays one game to its end or to maxTurns. The match is removed from
// the manager when the game ends. Cancellation is checked between turns.
func (r *Runner) RunGame(ctx context.Context, index int, seed uint64, maxTurns int, a, b Player) (GameResult, error) {
	res := GameResult{Index: index, Seed: seed, Winner: -1}
	m, err := r.mgr.Create(
		engine.Seat{Name: a.Name, Deck: a.Deck},
		engine.Seat{Name: b.Name, Deck: b.Deck},
		dice.NewSeededSource(seed),
	)
	if err != nil {
		return res, err
	}
	res.MatchID = m.ID()
	defer func() {
		if err := r.mgr.Remove(m.ID()); err != nil && !errors.Is(err, match.ErrNotFound) {
			r.logger.Warn("removing match", zap.String("match", m.ID()), zap.Error(err))
		}
	}()

	bots := [2]*ai.Bot{a.Bot, b.Bot}
	for seat, bot := range bots {
		var idx int
		m.View(func(g *engine.Game) { idx = bot.ChooseStartingActive(g.Player(seat)) })
		if err := m.ChooseStartingActive(seat, idx); err != nil {
			return res, err
		}
	}

	for res.Turns < maxTurns {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if _, err := m.BeginTurn(); err != nil {
			return res, err
		}
		var actions engine.TurnActions
		var derr error
		m.View(func(g *engine.Game) { actions, derr = bots[g.CurrentPlayer()].Decide(g) })
		if derr != nil {
			return res, derr
		}
		log, err := m.ApplyActions(actions)
		if err != nil {
			return res, err
		}
		res.Turns++
		res.Rejected += len(log.Rejected)
		if log.GameOver {
			res.Winner = log.Winner
			break
		}
	}

	m.View(func(g *engine.Game) {
		res.First = g.FirstPlayer()
		res.Scores = [2]int{g.Player(0).Score, g.Player(1).Score}
	})
	r.logger.Debug("game finished",
		zap.String("match", res.MatchID),
		zap.Int("index", index),
		zap.Int("winner", res.Winner),
		zap.Int("turns", res.Turns),
	)
	return res, nil
}

// Stats summarizes a batch.
type Stats struct {
	Games      int
	Wins       [2]int
	Unfinished int
	// FirstPlayerWins counts games won by the seat that moved first.
	FirstPlayerWins int
	AvgTurns        float64
	// MedianTurns averages the two middle values for an even batch.
	MedianTurns float64
	Rejected    int
}

// WinRate returns the share of games won by seat, or 0 for an empty batch.
func (s Stats) WinRate(seat int) float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins[seat]) / float64(s.Games)
}

// Aggregate summarizes results.
func Aggregate(results []GameResult) Stats {
	s := Stats{Games: len(results)}
	if len(results) == 0 {
		return s
	}
	turns := make([]int, 0, len(results))
	total := 0
	for _, r := range results {
		switch r.Winner {
		case 0, 1:
			s.Wins[r.Winner]++
			if r.Winner == r.First {
				s.FirstPlayerWins++
			}
		default:
			s.Unfinished++
		}
		s.Rejected += r.Rejected
		total += r.Turns
		turns = append(turns, r.Turns)
	}
	sort.Ints(turns)
	s.AvgTurns = float64(total) / float64(len(results))
	mid := len(turns) / 2
	if len(turns)%2 == 0 {
		s.MedianTurns = float64(turns[mid-1]+turns[mid]) / 2
	} else {
		s.MedianTurns = float64(turns[mid])
	}
	return s
}
