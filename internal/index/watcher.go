package index

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/daybook/internal/storage"
)

// debounce coalesces the burst of events an atomic save produces.
const debounce = 150 * time.Millisecond

// SyncCallback is called after a watcher-driven sync changed the index.
type SyncCallback func(path string)

// Watch starts an fsnotify watcher on the journal's directory and re-syncs
// the index whenever the journal file is written, created, renamed or
// removed, until ctx is cancelled. Events for other files are ignored.
//
// The directory is watched instead of the file so atomic replacement
// (write temp, rename over) keeps being observed.
func Watch(ctx context.Context, db *DB, j *storage.Journal, logger *slog.Logger, cb SyncCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	target := filepath.Clean(j.Path())
	if err := w.Add(filepath.Dir(target)); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("journal", target))

	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			changed, syncErr := Sync(db, j, logger)
			if syncErr != nil {
				logger.Warn("watcher: sync failed", slog.String("journal", target), slog.String("error", syncErr.Error()))
				continue
			}
			if changed {
				logger.Debug("watcher: synced", slog.String("journal", target))
				if cb != nil {
					cb(target)
				}
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
