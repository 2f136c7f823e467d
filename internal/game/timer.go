package game

import (
	"sync"
	"time"
)

// RoundTimer is a per-round countdown. It ticks once per interval (one second
// in production, shorter in tests) and invokes its timeout callback exactly
// once when the countdown reaches zero.
//
// The callback receives the epoch captured when the countdown was armed. The
// engine bumps its epoch on every transition out of a round, so a tick that
// raced a selection carries a stale epoch and is discarded by the engine
// rather than locking a round that already advanced.
type RoundTimer struct {
	mu       sync.Mutex
	interval time.Duration

	remaining int
	running   bool
	stop      chan struct{}
}

// NewRoundTimer creates a timer. A non-positive interval defaults to one
// second.
func NewRoundTimer(interval time.Duration) *RoundTimer {
	if interval <= 0 {
		interval = time.Second
	}
	return &RoundTimer{interval: interval}
}

// Start arms the countdown for the given number of ticks, cancelling any
// countdown already running.
func (t *RoundTimer) Start(seconds int, epoch uint64, onTimeout func(epoch uint64)) {
	t.mu.Lock()
	t.stopLocked()
	t.remaining = seconds
	t.running = true
	stop := make(chan struct{})
	t.stop = stop
	t.mu.Unlock()

	go t.run(stop, epoch, onTimeout)
}

// Stop cancels the countdown. Safe to call repeatedly and from engine
// transitions; it never blocks on the tick goroutine.
func (t *RoundTimer) Stop() {
	t.mu.Lock()
	t.stopLocked()
	t.mu.Unlock()
}

func (t *RoundTimer) stopLocked() {
	if t.running {
		close(t.stop)
		t.running = false
	}
}

// Remaining returns the seconds left in the current countdown.
func (t *RoundTimer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

func (t *RoundTimer) run(stop chan struct{}, epoch uint64, onTimeout func(uint64)) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.mu.Lock()
			if !t.running || t.stop != stop {
				t.mu.Unlock()
				return
			}
			t.remaining--
			expired := t.remaining <= 0
			if expired {
				t.running = false
			}
			t.mu.Unlock()

			if expired {
				onTimeout(epoch)
				return
			}
		}
	}
}
