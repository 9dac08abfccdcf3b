package store

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadCallback is called after the watcher reloads an externally
// replaced document.
type ReloadCallback func()

// Watch monitors the document file of a FileProvider and reloads the
// store when another process replaces it (for example a backup dropped
// in place). The store's own atomic writes are recognized by checksum
// and ignored. Runs until ctx is cancelled.
//
// The parent directory is watched rather than the file itself: atomic
// rename-based writers briefly remove the watched path, which would
// otherwise drop the watch.
func Watch(ctx context.Context, s *Store, provider *FileProvider, logger *slog.Logger, cb ReloadCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(provider.Path())
	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("file", provider.Path()))

	// Debounce bursts of events from a single replacement.
	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(200 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reloadCh:
			blob, readErr := os.ReadFile(provider.Path())
			if readErr != nil {
				logger.Warn("watcher: read failed", slog.String("error", readErr.Error()))
				continue
			}
			if s.OwnWrite(blob) {
				continue
			}
			if reloadErr := s.Reload(); reloadErr != nil {
				logger.Warn("watcher: reload rejected", slog.String("error", reloadErr.Error()))
				continue
			}
			logger.Info("watcher: document reloaded from disk")
			if cb != nil {
				cb()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Name != provider.Path() {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				scheduleReload()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
