package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"tabtime/internal/browser"
	"tabtime/internal/daemon"
	"tabtime/internal/session"
)

// Execute implements the go-flags Commander interface for TrackCommand.
// It runs the ingest daemon and the session tracker loop in the
// foreground until SIGINT/SIGTERM; shutdown closes the open session and
// forces a final flush before the process exits.
func (c *TrackCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if c.Port != 0 {
		cfg.Daemon.Port = c.Port
	}
	if c.LogLevel != "" {
		cfg.Logging.Level = c.LogLevel
	}

	logger := newLogger(cfg, c.globals != nil && c.globals.Verbose)

	store, kv, db, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	defer kv.Close()

	registry := browser.NewRegistry()
	batcher := session.NewBatcher(store,
		session.WithFlushWindow(cfg.FlushWindow()),
		session.WithBatcherLogger(logger),
	)
	tracker := session.NewTracker(batcher, registry,
		session.WithTrackerLogger(logger),
	)
	adapter := browser.NewAdapter(tracker, registry,
		browser.WithAdapterLogger(logger),
		browser.WithEventBuffer(cfg.Tracker.EventBuffer),
	)
	server := daemon.New(cfg.Daemon, registry, adapter, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A daemon failure (e.g. port already bound) cancels the loop so the
	// process doesn't keep running without an ingest surface.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("ingest daemon stopped", slog.String("error", err.Error()))
		}
		cancel()
	}()

	// Blocks until shutdown; the adapter tears the tracker down (final
	// session close + forced flush) before returning.
	if err := adapter.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("tabtime stopped")
	return nil
}
