package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Window is a process-local sliding-window ledger.
//
// It is a best-effort, per-instance limit: several server instances each
// keep their own ledger, so a client may get Limit attempts per instance.
// Use Redis when the limit has to hold across instances.
type Window struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	clients map[string][]time.Time
}

// NewWindow creates a ledger allowing limit attempts per key within window.
func NewWindow(limit int, window time.Duration) *Window {
	return &Window{
		limit:   limit,
		window:  window,
		now:     time.Now,
		clients: make(map[string][]time.Time),
	}
}

// WithClock replaces the time source. Intended for tests.
func (w *Window) WithClock(now func() time.Time) *Window {
	w.now = now
	return w
}

// Allow prunes timestamps older than the window for key, then admits the
// attempt if fewer than limit remain.
func (w *Window) Allow(_ context.Context, key string) (bool, error) {
	now := w.now()

	w.mu.Lock()
	defer w.mu.Unlock()

	recent := prune(w.clients[key], now, w.window)
	if len(recent) >= w.limit {
		w.clients[key] = recent
		return false, nil
	}
	w.clients[key] = append(recent, now)
	return true, nil
}

// Remaining returns how many attempts key has left in the current window.
// It does not modify the ledger.
func (w *Window) Remaining(key string) int {
	now := w.now()

	w.mu.Lock()
	defer w.mu.Unlock()

	live := 0
	for _, t := range w.clients[key] {
		if now.Sub(t) < w.window {
			live++
		}
	}
	n := w.limit - live
	if n < 0 {
		return 0
	}
	return n
}

// Sweep drops every key whose timestamps have all left the window and
// returns how many keys were removed.
func (w *Window) Sweep() int {
	now := w.now()

	w.mu.Lock()
	defer w.mu.Unlock()

	removed := 0
	for key, ts := range w.clients {
		recent := prune(ts, now, w.window)
		if len(recent) == 0 {
			delete(w.clients, key)
			removed++
			continue
		}
		w.clients[key] = recent
	}
	return removed
}

// Run calls Sweep every interval until ctx is done.
func (w *Window) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := w.Sweep(); n > 0 {
				slog.Debug("rate limit ledger swept", "removed", n)
			}
		}
	}
}

// prune filters ts in place, keeping entries younger than window.
func prune(ts []time.Time, now time.Time, window time.Duration) []time.Time {
	valid := ts[:0]
	for _, t := range ts {
		if now.Sub(t) < window {
			valid = append(valid, t)
		}
	}
	return valid
}

var _ Limiter = (*Window)(nil)
