package watch

import (
	"sync"
	"time"
)

// Gate suppresses repeat triggers inside a debounce window. TryAcquire
// consumes the gate and ReleaseAfter re-arms it once the window has passed.
// It is the only state the event goroutine and the re-arm timer share.
type Gate struct {
	mu      sync.Mutex
	ready   bool
	closed  bool
	timer   *time.Timer
	pending sync.WaitGroup
}

// NewGate returns an open gate.
func NewGate() *Gate {
	return &Gate{ready: true}
}

// TryAcquire atomically tests and clears the gate. It returns false while a
// previous acquisition is still cooling down or after Close.
func (g *Gate) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || !g.ready {
		return false
	}
	g.ready = false
	return true
}

// ReleaseAfter reopens the gate once d has elapsed.
func (g *Gate) ReleaseAfter(d time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.stopTimerLocked()

	var t *time.Timer
	g.pending.Add(1)
	t = time.AfterFunc(d, func() {
		defer g.pending.Done()
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.timer == t {
			g.timer = nil
		}
		if !g.closed {
			g.ready = true
		}
	})
	g.timer = t
}

// Reopen makes the gate available immediately, discarding a pending re-arm.
// It is used when an acquisition turned out not to represent a real event.
func (g *Gate) Reopen() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.stopTimerLocked()
	g.ready = true
}

// Ready reports whether the next TryAcquire would succeed.
func (g *Gate) Ready() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ready && !g.closed
}

// Close cancels any pending re-arm and waits for a timer callback that has
// already started. The gate stays closed afterwards.
func (g *Gate) Close() {
	g.mu.Lock()
	g.closed = true
	g.stopTimerLocked()
	g.mu.Unlock()
	g.pending.Wait()
}

func (g *Gate) stopTimerLocked() {
	if g.timer == nil {
		return
	}
	if g.timer.Stop() {
		g.pending.Done()
	}
	g.timer = nil
}
