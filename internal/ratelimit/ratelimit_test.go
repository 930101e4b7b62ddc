package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestLimiter(t *testing.T, conf Config) *Limiter {
	t.Helper()
	l := New(conf)
	t.Cleanup(l.Stop)
	return l
}

func TestAllow_WithinBudget(t *testing.T) {
	l := newTestLimiter(t, Config{MaxRequests: 3, Window: time.Minute})

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("4th request allowed, want denied")
	}
}

func TestAllow_IdentitiesAreIndependent(t *testing.T) {
	l := newTestLimiter(t, Config{MaxRequests: 1, Window: time.Minute})

	if !l.Allow("10.0.0.1") {
		t.Fatal("first identity denied")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("second identity denied, want independent budget")
	}
	if l.Allow("10.0.0.1") {
		t.Error("first identity allowed past its budget")
	}
}

func TestAllow_WindowExpiryResets(t *testing.T) {
	l := newTestLimiter(t, Config{MaxRequests: 1, Window: 30 * time.Millisecond})

	if !l.Allow("10.0.0.1") {
		t.Fatal("first request denied")
	}
	if l.Allow("10.0.0.1") {
		t.Fatal("second request within window allowed")
	}

	time.Sleep(50 * time.Millisecond)

	if !l.Allow("10.0.0.1") {
		t.Error("request after window expiry denied, want allowed")
	}
}

func TestAllow_ConcurrentSameIdentity(t *testing.T) {
	const max = 50
	l := newTestLimiter(t, Config{MaxRequests: max, Window: time.Minute})

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < max*2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("10.0.0.1") {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := allowed.Load(); got != max {
		t.Errorf("allowed = %d, want exactly %d", got, max)
	}
}

func TestSweep_RemovesExpiredWindows(t *testing.T) {
	l := newTestLimiter(t, Config{MaxRequests: 5, Window: 10 * time.Millisecond, SweepInterval: time.Hour})

	l.Allow("10.0.0.1")
	l.Allow("10.0.0.2")
	if got := l.ActiveIdentities(); got != 2 {
		t.Fatalf("ActiveIdentities = %d, want 2", got)
	}

	time.Sleep(20 * time.Millisecond)
	l.sweep()

	if got := l.ActiveIdentities(); got != 0 {
		t.Errorf("ActiveIdentities after sweep = %d, want 0", got)
	}
}

func TestStop_IsIdempotent(t *testing.T) {
	l := New(Config{})
	l.Stop()
	l.Stop()
}
