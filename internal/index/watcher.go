package index

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/inkwell/internal/parser"
	"github.com/starford/inkwell/internal/storage"
)

// Change kinds reported to an EventCallback.
const (
	Created = "created"
	Updated = "updated"
	Deleted = "deleted"
)

// EventCallback is called after a watcher-driven change.
// kind is one of Created, Updated, Deleted.
type EventCallback func(kind string, filename string)

const reconcileDelay = 200 * time.Millisecond

// Watch starts an fsnotify watcher on the library root and processes
// document changes until ctx is cancelled. The library is flat, so only
// the root directory is watched.
//
// db may be nil, in which case changes are only reported to cb (if non-nil).
// Otherwise cb runs after each successful index mutation. Rename events
// trigger a debounced reconciliation pass against the directory listing.
func Watch(ctx context.Context, db *DB, store storage.Provider, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	root := store.Root()
	if err := w.Add(root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	notify := func(kind, name string) {
		if cb != nil {
			cb(kind, name)
		}
	}

	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	scheduleReconcile := func() {
		if db == nil {
			return
		}
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(reconcileDelay)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(reconcileDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			reconcile(db, store, logger, notify)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Dir(ev.Name) != root {
				continue
			}
			name := filepath.Base(ev.Name)
			if !parser.IsDocument(name) {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				kind := Updated
				if ev.Op&fsnotify.Create != 0 {
					kind = Created
				}
				if db != nil {
					data, readErr := store.Read(name)
					if readErr != nil {
						logger.Warn("watcher: read failed", slog.String("file", name), slog.String("error", readErr.Error()))
						continue
					}
					if idxErr := indexFile(db, name, data); idxErr != nil {
						logger.Warn("watcher: index failed", slog.String("file", name), slog.String("error", idxErr.Error()))
						continue
					}
				}
				logger.Debug("watcher: changed", slog.String("file", name), slog.String("op", kind))
				notify(kind, name)

			case ev.Op&fsnotify.Remove != 0:
				if db != nil {
					if delErr := db.DeletePage(name); delErr != nil {
						logger.Warn("watcher: delete failed", slog.String("file", name), slog.String("error", delErr.Error()))
						continue
					}
				}
				logger.Debug("watcher: deleted", slog.String("file", name))
				notify(Deleted, name)

			case ev.Op&fsnotify.Rename != 0:
				// fsnotify reports the old name only; the new name arrives
				// as a Create if it stays in the library.
				if db != nil {
					if delErr := db.DeletePage(name); delErr != nil {
						logger.Warn("watcher: rename delete failed", slog.String("file", name), slog.String("error", delErr.Error()))
					}
				}
				notify(Deleted, name)
				scheduleReconcile()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// reconcile removes index entries without a file on disk and indexes
// documents that are missing or stale.
func reconcile(db *DB, store storage.Provider, logger *slog.Logger, notify func(kind, name string)) {
	checksums, err := db.AllChecksums()
	if err != nil {
		logger.Warn("reconcile: all checksums failed", slog.String("error", err.Error()))
		return
	}
	metas, err := store.List()
	if err != nil {
		logger.Warn("reconcile: list failed", slog.String("error", err.Error()))
		return
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Filename] = struct{}{}
	}

	for name := range checksums {
		if _, ok := disk[name]; ok {
			continue
		}
		if delErr := db.DeletePage(name); delErr == nil {
			logger.Debug("reconcile: removed stale", slog.String("file", name))
			notify(Deleted, name)
		}
	}

	for name := range disk {
		data, readErr := store.Read(name)
		if readErr != nil {
			continue
		}
		cs, known := checksums[name]
		if known && cs == Checksum(data) {
			continue
		}
		if idxErr := indexFile(db, name, data); idxErr == nil {
			kind := Updated
			if !known {
				kind = Created
			}
			logger.Debug("reconcile: indexed", slog.String("file", name))
			notify(kind, name)
		}
	}
}
