package template

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads template assets when the asset directory changes, so
// markup edits show up in subsequent exports without a restart. Schema
// changes still go through Register and keep its duplicate protection.
type Watcher struct {
	registry *Registry
	dir      string
	logger   *slog.Logger

	// debounce collapses the bursts of events editors emit per save.
	debounce time.Duration
}

// NewWatcher creates a watcher over the given asset directory.
func NewWatcher(registry *Registry, dir string, logger *slog.Logger) *Watcher {
	return &Watcher{
		registry: registry,
		dir:      dir,
		logger:   logger.With("component", "template_watcher"),
		debounce: 500 * time.Millisecond,
	}
}

// Run watches the asset directory until the context is cancelled. It is
// intended to run on its own goroutine; errors from the underlying
// watcher are logged, not fatal.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		if err := fw.Close(); err != nil {
			w.logger.Warn("failed to close fs watcher", "error", err)
		}
	}()

	if err := fw.Add(w.dir); err != nil {
		// Directory may not exist; built-ins still cover the registry.
		w.logger.Warn("template directory not watchable", "dir", w.dir, "error", err)
		return nil
	}

	var timer *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("template watcher error", "error", err)
		case <-reload:
			w.logger.Info("template assets changed, reloading", "dir", w.dir)
			if err := LoadDir(w.registry, w.dir); err != nil {
				w.logger.Error("template reload failed", "error", err)
			}
		}
	}
}
