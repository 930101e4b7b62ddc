// Package ratelimit implements a per-identity fixed-window request counter.
//
// The window is approximate: a burst spanning a window boundary can pass up
// to twice the nominal rate. That is the accepted trade-off for O(1) memory
// per identity and no per-request timers.
package ratelimit

import (
	"sync"
	"time"
)

// Config holds limiter parameters.
type Config struct {
	// MaxRequests allowed per identity within one window. Defaults to 100.
	MaxRequests int
	// Window is the fixed counting window. Defaults to 60s.
	Window time.Duration
	// SweepInterval between background purges of expired windows.
	// Defaults to 5 minutes.
	SweepInterval time.Duration
}

type window struct {
	count   int
	resetAt time.Time
}

// Limiter counts requests per identity in fixed windows. All state lives in
// process memory and is guarded by a single mutex; contention is low because
// the critical section is a map lookup and an increment.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window

	max    int
	window time.Duration

	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// New creates a limiter and starts its background sweep.
func New(conf Config) *Limiter {
	max := conf.MaxRequests
	if max <= 0 {
		max = 100
	}
	win := conf.Window
	if win <= 0 {
		win = 60 * time.Second
	}
	sweep := conf.SweepInterval
	if sweep <= 0 {
		sweep = 5 * time.Minute
	}

	l := &Limiter{
		windows: make(map[string]*window),
		max:     max,
		window:  win,
		done:    make(chan struct{}),
	}

	l.wg.Add(1)
	go l.sweepLoop(sweep)

	return l
}

// Allow records one request for identity and reports whether it is within
// the window's budget. The first request of a window (or of a fresh window
// after expiry) resets the count to 1. Once the count reaches the limit,
// further requests in the same window are denied without incrementing, so
// the counter freezes at the threshold.
func (l *Limiter) Allow(identity string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[identity]
	if !ok || now.After(w.resetAt) {
		l.windows[identity] = &window{count: 1, resetAt: now.Add(l.window)}
		return true
	}

	if w.count >= l.max {
		return false
	}
	w.count++
	return true
}

// ActiveIdentities returns the number of identities currently tracked,
// including ones whose window has expired but has not been swept yet.
func (l *Limiter) ActiveIdentities() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

func (l *Limiter) sweepLoop(interval time.Duration) {
	defer l.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.done:
			return
		}
	}
}

// sweep removes identities whose window has fully expired, bounding memory
// to identities seen within roughly one sweep interval.
func (l *Limiter) sweep() {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for identity, w := range l.windows {
		if now.After(w.resetAt) {
			delete(l.windows, identity)
		}
	}
}

// Stop terminates the background sweep. Safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
		l.wg.Wait()
	})
}
