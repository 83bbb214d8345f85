package match

import (
	"sync"
	"time"
)

// IdleTimer fires a callback when a match has seen no turn for a configured
// duration. It is safe for concurrent use.
type IdleTimer struct {
	mu      sync.Mutex
	timer   *time.Timer
	d       time.Duration
	onFire  func()
	stopped bool
	// gen identifies the live countdown; a fire from an earlier one is ignored.
	gen uint64
}

// NewIdleTimer creates and starts a timer that calls onFire after d.
// onFire is called in a separate goroutine.
//
// Precondition: d > 0; onFire must not be nil.
// Postcondition: onFire will be called unless Touch or Stop intervenes.
func NewIdleTimer(d time.Duration, onFire func()) *IdleTimer {
	t := &IdleTimer{d: d, onFire: onFire}
	t.arm()
	return t
}

// arm starts a new countdown. The caller must hold t.mu or own t exclusively.
func (t *IdleTimer) arm() {
	t.gen++
	gen := t.gen
	t.timer = time.AfterFunc(t.d, func() { t.fire(gen) })
}

func (t *IdleTimer) fire(gen uint64) {
	t.mu.Lock()
	if t.stopped || gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.stopped = true
	t.mu.Unlock()
	t.onFire()
}

// Touch restarts the countdown. It has no effect after the timer fired or
// was stopped.
func (t *IdleTimer) Touch() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.timer.Stop()
	t.arm()
}

// Stop prevents the callback from firing. Safe to call multiple times.
//
// Postcondition: onFire will not be called after Stop returns, unless it was
// already running.
func (t *IdleTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	t.timer.Stop()
}
