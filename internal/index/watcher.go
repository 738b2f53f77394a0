package index

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jinsol/rememberme/internal/journal"
)

// EventCallback is called for each memory change a sync pass discovered.
// kind is one of "created", "updated", "deleted".
type EventCallback func(kind string, id string)

// Watch starts an fsnotify watcher on the journal data directory and
// re-syncs the index whenever a collection file changes, until ctx is
// cancelled. It calls cb (if non-nil) for every discovered change.
//
// This is how a second writer sharing the data directory becomes visible:
// its whole-collection rewrites land as file events here, and the diff
// against the index turns them into per-memory notifications.
func Watch(ctx context.Context, db *DB, store *journal.Store, dataDir string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dataDir); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", dataDir))

	// Collection rewrites arrive as tmp-create + rename bursts; a short
	// debounce collapses each burst into one sync pass.
	var syncTimer *time.Timer
	var syncCh <-chan time.Time

	scheduleSync := func() {
		if syncTimer == nil {
			syncTimer = time.NewTimer(200 * time.Millisecond)
			syncCh = syncTimer.C
		} else {
			syncTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if syncTimer != nil {
				syncTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-syncCh:
			changes, err := Sync(db, store, logger)
			if err != nil {
				logger.Warn("watcher: sync failed", slog.String("error", err.Error()))
				continue
			}
			if cb != nil {
				for _, c := range changes {
					cb(c.Kind, c.ID)
				}
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(ev) {
				continue
			}
			logger.Debug("watcher: event",
				slog.String("op", ev.Op.String()),
				slog.String("path", ev.Name))
			scheduleSync()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: error", slog.String("error", err.Error()))
		}
	}
}

// relevantEvent filters for committed collection files, skipping the
// atomic-write temp files.
func relevantEvent(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.HasSuffix(base, ".json")
}
