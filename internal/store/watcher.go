package store

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const refreshDebounce = 150 * time.Millisecond

// Watch observes the database file for writes made by other processes (for
// example a CLI invocation while the server runs) and refreshes the live
// query until ctx is cancelled. Bursts of events are debounced into a single
// refresh; writes made through this DB are deduplicated by Refresh.
func (db *DB) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(db.path)
	if err := w.Add(dir); err != nil {
		return err
	}

	base := filepath.Base(db.path)
	watched := map[string]struct{}{
		base:          {},
		base + "-wal": {},
	}

	db.logger.Info("watcher: started", slog.String("path", db.path))

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(refreshDebounce)
			timerCh = timer.C
		} else {
			timer.Reset(refreshDebounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			db.logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			if err := db.Refresh(ctx); err != nil {
				db.logger.Warn("watcher: refresh failed", slog.String("error", err.Error()))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if _, ok := watched[filepath.Base(ev.Name)]; !ok {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			db.logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
