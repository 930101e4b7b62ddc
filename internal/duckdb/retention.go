package duckdb

import (
	"log"
	"sync"
	"time"
)

// RetentionConfig holds configuration for the retention cleaner.
type RetentionConfig struct {
	// MaxAge is how long entries are kept. Zero disables retention.
	MaxAge time.Duration
	// Interval between cleanup runs. Defaults to one hour.
	Interval time.Duration
}

// RetentionCleaner periodically deletes log entries older than the configured
// maximum age. A cleanup also runs once at construction to catch up after
// downtime.
type RetentionCleaner struct {
	store    *Store
	maxAge   time.Duration
	interval time.Duration
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewRetentionCleaner starts a retention cleaner for the store.
// Returns nil when retention is disabled.
func NewRetentionCleaner(store *Store, conf RetentionConfig) *RetentionCleaner {
	if conf.MaxAge <= 0 {
		return nil
	}
	interval := conf.Interval
	if interval <= 0 {
		interval = time.Hour
	}

	rc := &RetentionCleaner{
		store:    store,
		maxAge:   conf.MaxAge,
		interval: interval,
		done:     make(chan struct{}),
	}

	rc.cleanup()

	rc.wg.Add(1)
	go rc.tickLoop()

	return rc
}

func (rc *RetentionCleaner) tickLoop() {
	defer rc.wg.Done()
	ticker := time.NewTicker(rc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rc.cleanup()
		case <-rc.done:
			return
		}
	}
}

// cleanup failures are logged and retried on the next tick.
func (rc *RetentionCleaner) cleanup() {
	cutoff := time.Now().Add(-rc.maxAge).UnixMilli()

	rows, err := rc.store.DeleteLogsBefore(cutoff)
	if err != nil {
		log.Printf("duckdb: retention cleanup error: %v", err)
		return
	}
	if rows > 0 {
		log.Printf("duckdb: retention cleanup deleted %d expired logs (older than %s)", rows, rc.maxAge)
	}
}

// Stop signals the cleaner to stop and waits for it to finish.
func (rc *RetentionCleaner) Stop() {
	rc.stopOnce.Do(func() {
		close(rc.done)
		rc.wg.Wait()
	})
}
