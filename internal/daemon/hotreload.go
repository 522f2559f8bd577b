package daemon

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/jmylchreest/recnotify/internal/config"
)

// SettingsWatcher reloads the settings file when it changes on disk.
type SettingsWatcher struct {
	mu      sync.Mutex
	logger  *slog.Logger
	watcher *fsnotify.Watcher

	// Path to watch
	path string

	// Callbacks
	onReload func(s config.Settings)
	onError  func(err error)

	done    chan struct{}
	exited  chan struct{}
	running bool
}

// NewSettingsWatcher creates a watcher for path. Empty means the default
// settings path.
func NewSettingsWatcher(path string, logger *slog.Logger) (*SettingsWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		p, err := config.SettingsPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	return &SettingsWatcher{
		logger: logger,
		path:   path,
	}, nil
}

// SetReloadCallback sets the callback invoked with newly loaded settings.
func (w *SettingsWatcher) SetReloadCallback(callback func(s config.Settings)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = callback
}

// SetErrorCallback sets the callback invoked when the file fails to parse.
func (w *SettingsWatcher) SetErrorCallback(callback func(err error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = callback
}

// Start begins watching. The settings directory is created if missing so
// that a file written later is still seen.
func (w *SettingsWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory containing the file (more reliable for atomic renames)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return err
	}

	w.watcher = watcher
	w.done = make(chan struct{})
	w.exited = make(chan struct{})
	w.running = true

	go w.watch(watcher, w.done, w.exited)

	w.logger.Debug("settings watcher started", "path", w.path)
	return nil
}

// watch is the main watch loop.
func (w *SettingsWatcher) watch(watcher *fsnotify.Watcher, done, exited chan struct{}) {
	defer close(exited)
	filename := filepath.Base(w.path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			// Only care about our file
			if filepath.Base(event.Name) != filename {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.reload()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("settings watcher error", "error", err)

		case <-done:
			return
		}
	}
}

func (w *SettingsWatcher) reload() {
	w.mu.Lock()
	onReload := w.onReload
	onError := w.onError
	w.mu.Unlock()

	s, err := config.LoadSettings(w.path)
	if err != nil {
		w.logger.Warn("settings file changed but failed to load", "error", err)
		if onError != nil {
			onError(err)
		}
		return
	}

	w.logger.Debug("settings file changed", "path", w.path)
	if onReload != nil {
		onReload(s)
	}
}

// Stop stops the watcher and waits for the loop to exit.
func (w *SettingsWatcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	close(w.done)
	watcher := w.watcher
	exited := w.exited
	w.mu.Unlock()

	err := watcher.Close()
	<-exited
	w.logger.Debug("settings watcher stopped")
	return err
}
