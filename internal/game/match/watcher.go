package match

import (
	"fmt"
	"sync"

	"github.com/cory-johannsen/cardclash/internal/game/engine"
)

// watcher delivers a match's turn logs to one reader through a buffered channel.
type watcher struct {
	logs   chan *engine.TurnLog
	mu     sync.Mutex
	closed bool
}

func newWatcher(buffer int) *watcher {
	if buffer <= 0 {
		buffer = 16
	}
	return &watcher{logs: make(chan *engine.TurnLog, buffer)}
}

// push enqueues log without blocking.
//
// Postcondition: returns an error when the watcher is closed or its buffer is full.
func (w *watcher) push(log *engine.TurnLog) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return fmt.Errorf("watcher closed")
	}
	select {
	case w.logs <- log:
		return nil
	default:
		return fmt.Errorf("watcher buffer full")
	}
}

func (w *watcher) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.closed = true
		close(w.logs)
	}
}
