// Package match hosts many games at once. The Manager is a registry of
// matches; each Match serializes every call into its engine.Game.
package match

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/cardclash/internal/game/dice"
	"github.com/cory-johannsen/cardclash/internal/game/engine"
)

// ErrNotFound is returned for unknown match IDs.
var ErrNotFound = errors.New("match not found")

// ErrAbandoned is returned for calls into a match closed for inactivity.
var ErrAbandoned = errors.New("match abandoned")

// Match is one hosted game. All methods are safe for concurrent use.
type Match struct {
	id     string
	seats  [2]string
	logger *zap.Logger

	mu        sync.Mutex
	game      *engine.Game
	watchers  []*watcher
	timer     *IdleTimer
	lastTurn  time.Time
	turns     int
	abandoned bool
}

// ID returns the match ID, which is also the game ID.
func (m *Match) ID() string { return m.id }

// Seats returns the player names.
func (m *Match) Seats() [2]string { return m.seats }

// ChooseStartingActive forwards to the game.
func (m *Match) ChooseStartingActive(seat, handIndex int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.abandoned {
		return ErrAbandoned
	}
	m.touch()
	return m.game.ChooseStartingActive(seat, handIndex)
}

// BeginTurn forwards to the game.
func (m *Match) BeginTurn() (*engine.TurnLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.abandoned {
		return nil, ErrAbandoned
	}
	m.touch()
	return m.game.BeginTurn()
}

// ApplyActions forwards to the game and publishes the finished turn log to
// every watcher.
func (m *Match) ApplyActions(a engine.TurnActions) (*engine.TurnLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.abandoned {
		return nil, ErrAbandoned
	}
	log, err := m.game.ApplyActions(a)
	if err != nil {
		return log, err
	}
	m.afterTurn(log)
	return log, nil
}

// PlayTurn forwards to the game and publishes the turn log.
func (m *Match) PlayTurn(a engine.TurnActions) (*engine.TurnLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.abandoned {
		return nil, ErrAbandoned
	}
	log, err := m.game.PlayTurn(a)
	if err != nil {
		return log, err
	}
	m.afterTurn(log)
	return log, nil
}

// View calls fn with the game while holding the match lock. fn must not
// retain the game or call other Match methods.
func (m *Match) View(fn func(g *engine.Game)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.game)
}

// Watch returns a channel receiving every subsequent turn log. The channel
// is closed when the match is removed or abandoned. Logs that do not fit in
// the buffer are dropped.
func (m *Match) Watch(buffer int) <-chan *engine.TurnLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := newWatcher(buffer)
	if m.abandoned {
		w.close()
	} else {
		m.watchers = append(m.watchers, w)
	}
	return w.logs
}

// Abandoned reports whether the match was closed for inactivity.
func (m *Match) Abandoned() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.abandoned
}

// Turns returns the number of completed turns.
func (m *Match) Turns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.turns
}

// LastActivity returns when the match was created or last completed a turn.
func (m *Match) LastActivity() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastTurn
}

// touch restarts the idle countdown. Caller holds m.mu.
func (m *Match) touch() {
	if m.timer != nil {
		m.timer.Touch()
	}
}

// afterTurn records a completed turn and fans the log out. Caller holds m.mu.
func (m *Match) afterTurn(log *engine.TurnLog) {
	m.turns++
	m.lastTurn = time.Now()
	m.touch()
	if log.GameOver && m.timer != nil {
		m.timer.Stop()
	}
	for _, w := range m.watchers {
		if err := w.push(log); err != nil {
			m.logger.Warn("dropping turn log", zap.Int("turn", log.Turn), zap.Error(err))
		}
	}
}

// close stops the timer and closes every watcher. Caller holds m.mu.
func (m *Match) close() {
	if m.timer != nil {
		m.timer.Stop()
	}
	for _, w := range m.watchers {
		w.close()
	}
	m.watchers = nil
}

// Manager tracks all hosted matches. All methods are safe for concurrent use.
type Manager struct {
	opts   engine.Options
	idle   time.Duration
	logger *zap.Logger

	mu      sync.RWMutex
	matches map[string]*Match
}

// NewManager creates an empty Manager creating matches with opts. An idle
// duration of zero disables abandonment.
//
// Precondition: idle >= 0. A nil logger is replaced by a no-op logger.
func NewManager(opts engine.Options, idle time.Duration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{opts: opts, idle: idle, logger: logger, matches: make(map[string]*Match)}
}

// Create starts a match between a and b drawing randomness from src. A nil
// src uses a crypto-backed source.
//
// Postcondition: Returns the registered match, or the engine's configuration error.
func (mgr *Manager) Create(a, b engine.Seat, src dice.Source) (*Match, error) {
	if src == nil {
		src = dice.NewCryptoSource()
	}
	opts := mgr.opts
	if opts.Logger == nil {
		opts.Logger = mgr.logger
	}
	g, err := engine.NewMatch(a, b, src, opts)
	if err != nil {
		return nil, fmt.Errorf("creating match: %w", err)
	}
	m := &Match{
		id:       g.ID(),
		seats:    [2]string{g.Player(0).Name, g.Player(1).Name},
		logger:   mgr.logger.With(zap.String("match", g.ID())),
		game:     g,
		lastTurn: time.Now(),
	}
	if mgr.idle > 0 {
		m.timer = NewIdleTimer(mgr.idle, func() { mgr.abandon(m.id) })
	}

	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	if _, exists := mgr.matches[m.id]; exists {
		m.close()
		return nil, fmt.Errorf("match %q already exists", m.id)
	}
	mgr.matches[m.id] = m
	mgr.logger.Info("match registered",
		zap.String("match", m.id),
		zap.String("seat_a", m.seats[0]),
		zap.String("seat_b", m.seats[1]),
	)
	return m, nil
}

// Get returns the match with the given ID.
//
// Postcondition: Returns (match, true) if found, or (nil, false) otherwise.
func (mgr *Manager) Get(id string) (*Match, bool) {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	m, ok := mgr.matches[id]
	return m, ok
}

// Remove unregisters a match and closes its watchers.
//
// Postcondition: Returns ErrNotFound if no such match is registered.
func (mgr *Manager) Remove(id string) error {
	mgr.mu.Lock()
	m, ok := mgr.matches[id]
	delete(mgr.matches, id)
	mgr.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	m.mu.Lock()
	m.close()
	m.mu.Unlock()
	return nil
}

// abandon closes a match that timed out.
func (mgr *Manager) abandon(id string) {
	mgr.mu.Lock()
	m, ok := mgr.matches[id]
	delete(mgr.matches, id)
	mgr.mu.Unlock()
	if !ok {
		return
	}
	m.mu.Lock()
	m.abandoned = true
	m.close()
	turns := m.turns
	m.mu.Unlock()
	mgr.logger.Info("match abandoned",
		zap.String("match", id),
		zap.Int("turns", turns),
		zap.Duration("idle", mgr.idle),
	)
}

// IDs returns the registered match IDs in sorted order.
func (mgr *Manager) IDs() []string {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	ids := make([]string, 0, len(mgr.matches))
	for id := range mgr.matches {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of registered matches.
func (mgr *Manager) Count() int {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	return len(mgr.matches)
}
