package catalog

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce collapses bursts of file events (editors write several times)
const debounce = 500 * time.Millisecond

// Reloadable is anything that can republish the catalog. *Store is one.
type Reloadable interface {
	Reload(ctx context.Context) (int, error)
}

// Reloader refreshes a catalog periodically and, optionally, whenever a
// watched catalog directory changes
type Reloader struct {
	target   Reloadable
	interval time.Duration
	watchDir string
	done     chan struct{}
}

// NewReloader creates a reloader. An interval <= 0 disables periodic
// reloads; an empty watchDir disables file watching.
func NewReloader(target Reloadable, interval time.Duration, watchDir string) *Reloader {
	return &Reloader{
		target:   target,
		interval: interval,
		watchDir: watchDir,
		done:     make(chan struct{}),
	}
}

// Start begins the reload worker in a goroutine
func (r *Reloader) Start(ctx context.Context) {
	go r.run(ctx)
}

// Wait blocks until the worker has exited after its context was cancelled
func (r *Reloader) Wait() {
	<-r.done
}

// run is the main loop for the reload worker
func (r *Reloader) run(ctx context.Context) {
	defer close(r.done)

	slog.Info("catalog reloader started", "interval", r.interval, "watch_dir", r.watchDir)

	var tick <-chan time.Time
	if r.interval > 0 {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	var events <-chan fsnotify.Event
	var watchErrors <-chan error
	if r.watchDir != "" {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			slog.Error("failed to create catalog watcher", "error", err)
		} else {
			defer watcher.Close()
			if err := watcher.Add(r.watchDir); err != nil {
				slog.Error("failed to watch catalog directory", "dir", r.watchDir, "error", err)
			} else {
				events = watcher.Events
				watchErrors = watcher.Errors
			}
		}
	}

	var pending <-chan time.Time
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Info("catalog reloader stopped")
			return
		case <-tick:
			r.reload(ctx, "interval")
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if !isCatalogFile(ev.Name) {
				continue
			}
			slog.Debug("catalog file changed", "file", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			r.reload(ctx, "watch")
		case err, ok := <-watchErrors:
			if !ok {
				watchErrors = nil
				continue
			}
			slog.Warn("catalog watcher error", "error", err)
		}
	}
}

// reload refreshes the catalog; a failed reload keeps the previous snapshot
func (r *Reloader) reload(ctx context.Context, trigger string) {
	n, err := r.target.Reload(ctx)
	if err != nil {
		slog.Error("catalog reload failed", "trigger", trigger, "error", err)
		return
	}
	slog.Info("catalog reloaded", "trigger", trigger, "projects", n)
}

func isCatalogFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
