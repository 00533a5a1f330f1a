// Package internal provides the application configuration and the watch
// daemon that keeps the journal index current.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/daybook/internal/events"
	"github.com/starford/daybook/internal/index"
	"github.com/starford/daybook/internal/storage"
)

// NewLogger returns the JSON logger used by long-running commands.
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// OpenIndex opens the configured index, creating its directory if needed.
func OpenIndex(cfg *Config) (*index.DB, error) {
	if !cfg.Index.Enabled() {
		return nil, fmt.Errorf("index path is not configured")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Index.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}
	return index.Open(cfg.Index.Path)
}

// Run syncs the index of every configured journal and keeps it current
// until ctx is cancelled or a shutdown signal arrives.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := app.logger
	if logger == nil {
		logger = NewLogger(cfg.App.LogLevel)
	}
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("global_journal", cfg.Journal.GlobalPath),
		slog.String("project_journal", cfg.Journal.ProjectPath),
		slog.String("index_path", cfg.Index.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	db, err := OpenIndex(cfg)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	var journals []*storage.Journal
	for _, path := range []string{cfg.Journal.GlobalPath, cfg.Journal.ProjectPath} {
		if path == "" {
			continue
		}
		j, err := storage.OpenJournal(path)
		if err != nil {
			return fmt.Errorf("init journal: %w", err)
		}
		if _, err := index.Sync(db, j, logger); err != nil {
			logger.Warn("initial sync failed", slog.String("journal", j.Path()), slog.String("error", err.Error()))
		}
		journals = append(journals, j)
	}

	g, gCtx := errgroup.WithContext(ctx)
	watchCtx, stop := context.WithCancel(gCtx)
	defer stop()

	for _, j := range journals {
		g.Go(func() error {
			return index.Watch(watchCtx, db, j, logger, func(path string) {
				logger.Info("Journal reindexed", slog.String("journal", path))
				if app.broker != nil {
					app.broker.Publish(events.Event{Kind: events.JournalReindexed, Journal: path})
				}
			})
		})
	}

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}
		stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Watcher stopped successfully")
	return nil
}
