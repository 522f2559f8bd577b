package audio

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"
)

const defaultSweepInterval = 2 * time.Second

// invalidator drops cached decodes for a path.
type invalidator interface {
	InvalidateCache(path string)
}

// Watcher re-stats resolved sound files on an interval. When an icon theme
// update replaces a file, its cached decode is dropped so the next cue
// reads the new one.
type Watcher struct {
	cache  invalidator
	logger *slog.Logger

	mu       sync.Mutex
	stamps   map[string]time.Time
	interval time.Duration
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewWatcher creates a watcher that reports changes to cache.
func NewWatcher(cache invalidator, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		cache:    cache,
		logger:   logger,
		stamps:   map[string]time.Time{},
		interval: defaultSweepInterval,
	}
}

// SetPollInterval changes the sweep interval. It applies from the next Start.
func (w *Watcher) SetPollInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	w.mu.Lock()
	w.interval = d
	w.mu.Unlock()
}

// Watch records path with its current mtime. Repeat calls are ignored.
func (w *Watcher) Watch(path string) {
	if path == "" {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, seen := w.stamps[path]; !seen {
		w.stamps[path] = mtime(path)
	}
}

// Start launches the sweep loop. It is a no-op while already running.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return nil
	}

	ctx, w.cancel = context.WithCancel(ctx)
	tick := time.NewTicker(w.interval)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				w.sweep()
			}
		}
	}()

	w.logger.Debug("sound watcher started", "interval", w.interval)
	return nil
}

// Stop ends the sweep loop and waits for it.
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	w.wg.Wait()
	w.logger.Debug("sound watcher stopped")
}

// IsRunning reports whether the sweep loop is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cancel != nil
}

// sweep invalidates each watched file whose mtime moved forward.
func (w *Watcher) sweep() {
	var changed []string

	w.mu.Lock()
	for path, seen := range w.stamps {
		if now := mtime(path); now.After(seen) {
			w.stamps[path] = now
			changed = append(changed, path)
		}
	}
	w.mu.Unlock()

	for _, path := range changed {
		w.logger.Debug("sound file replaced", "path", path)
		if w.cache != nil {
			w.cache.InvalidateCache(path)
		}
	}
}

// mtime returns the zero time for files that cannot be stat'ed.
func mtime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
