package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/logpulse/logpulse/internal/duckdb"
	"github.com/logpulse/logpulse/internal/httpserver"
	"github.com/logpulse/logpulse/internal/hub"
	"github.com/logpulse/logpulse/internal/ratelimit"
	"golang.org/x/sync/errgroup"
)

// runServer wires the store, retention cleaner, rate limiter, broadcast hub,
// and HTTP API together and blocks until shutdown.
func runServer(cfg appConfig) error {
	store, err := duckdb.NewStore(cfg.DBPath, cfg.QueryTimeout)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer store.Close()

	retention := duckdb.NewRetentionCleaner(store, duckdb.RetentionConfig{
		MaxAge:   cfg.LogRetention,
		Interval: cfg.RetentionInterval,
	})
	if retention != nil {
		defer retention.Stop()
	}

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequests:   cfg.RateLimitMax,
		Window:        cfg.RateLimitWindow,
		SweepInterval: cfg.RateLimitSweep,
	})
	defer limiter.Stop()

	broadcast := hub.New()

	api := httpserver.NewServer(httpserver.Config{
		Addr:                  cfg.Addr,
		AdminRequireWhitelist: cfg.AdminRequireWhitelist,
	}, store, limiter, broadcast)
	if err := api.Start(); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}

	dbDesc := cfg.DBPath
	if dbDesc == "" {
		dbDesc = "(in-memory)"
	}
	log.Printf("logpulse listening on %s, db=%s", api.Addr(), dbDesc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Printf("shutting down gracefully...")
		cancel()
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(api.Serve)
	g.Go(func() error {
		<-gctx.Done()
		return api.Stop()
	})
	return g.Wait()
}
