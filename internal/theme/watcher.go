package theme

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay coalesces the burst of events an editor save produces.
const settleDelay = 100 * time.Millisecond

// Watcher reloads a user stylesheet when it changes on disk and reports
// the new CSS. The directory is watched so atomic renames are seen.
type Watcher struct {
	theme  *Theme
	logger *slog.Logger

	mu       sync.Mutex
	onChange func(css string)
	fs       *fsnotify.Watcher
	exited   chan struct{}
}

// NewWatcher creates a watcher for theme.
func NewWatcher(theme *Theme, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{theme: theme, logger: logger}
}

// SetChangeCallback sets the callback invoked with the new CSS.
// It runs on the watcher goroutine.
func (w *Watcher) SetChangeCallback(callback func(css string)) {
	w.mu.Lock()
	w.onChange = callback
	w.mu.Unlock()
}

// Start begins watching until ctx is done or Stop is called. The bundled
// default has no file and is never watched.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fs != nil {
		return
	}
	if w.theme == nil || w.theme.IsDefault {
		w.logger.Debug("not watching bundled theme")
		return
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Warn("theme hot-reload unavailable", "error", err)
		return
	}
	if err := fw.Add(filepath.Dir(w.theme.Path)); err != nil {
		_ = fw.Close()
		w.logger.Warn("theme hot-reload unavailable", "path", w.theme.Path, "error", err)
		return
	}

	w.fs = fw
	w.exited = make(chan struct{})
	go w.loop(ctx, fw, w.exited)

	w.logger.Debug("theme watcher started", "path", w.theme.Path)
}

// Stop stops watching and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	fw, exited := w.fs, w.exited
	w.fs = nil
	w.mu.Unlock()

	if fw == nil {
		return
	}
	_ = fw.Close()
	<-exited
	w.logger.Debug("theme watcher stopped")
}

// IsRunning reports whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fs != nil
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, exited chan struct{}) {
	defer close(exited)

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			_ = fw.Close()
			return
		case <-settle:
			settle = nil
			w.reload()
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) == filepath.Clean(w.theme.Path) {
				settle = time.After(settleDelay)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Debug("theme watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	changed, err := w.theme.Reload()
	if err != nil {
		w.logger.Debug("failed to reload theme", "path", w.theme.Path, "error", err)
		return
	}
	if !changed {
		return
	}

	w.mu.Lock()
	callback := w.onChange
	w.mu.Unlock()

	w.logger.Info("theme file changed, reloading", "path", w.theme.Path)
	if callback != nil {
		callback(w.theme.CSS)
	}
}
