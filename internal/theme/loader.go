package theme

import (
	"context"
	"log/slog"
	"sync"

	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// Loader applies the popup stylesheet to a display and keeps it current.
// Methods other than StopHotReload must be called on the UI thread.
type Loader struct {
	mu       sync.Mutex
	logger   *slog.Logger
	path     string
	provider *gtk.CSSProvider
	theme    *Theme
	watcher  *Watcher
}

// NewLoader creates a loader for the stylesheet at path.
// Empty path means the user stylesheet in the config directory.
func NewLoader(path string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:   logger,
		path:     path,
		provider: gtk.NewCSSProvider(),
	}
}

// Load reads the stylesheet into the provider. The embedded default is
// loaded whenever the user file is missing or unreadable.
func (l *Loader) Load() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, err := Resolve(l.path)
	l.theme = t
	l.provider.LoadFromString(t.CSS)

	if t.IsDefault {
		l.logger.Info("loaded bundled theme", "name", t.Name)
	} else {
		l.logger.Info("loaded user theme", "name", t.Name, "path", t.Path)
	}
	return err
}

// Theme returns the loaded stylesheet.
func (l *Loader) Theme() *Theme {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.theme
}

// Apply installs the provider on display, or on the default display when nil.
func (l *Loader) Apply(display *gdk.Display) {
	if display == nil {
		display = gdk.DisplayGetDefault()
	}
	if display == nil {
		l.logger.Warn("no display available, cannot apply theme")
		return
	}

	gtk.StyleContextAddProviderForDisplay(
		display,
		l.provider,
		gtk.STYLE_PROVIDER_PRIORITY_APPLICATION,
	)
	l.logger.Debug("applied theme to display")
}

// StartHotReload watches the user stylesheet and reloads the provider on
// the main loop when it changes.
func (l *Loader) StartHotReload(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.theme == nil || l.theme.IsDefault {
		l.logger.Debug("not starting hot-reload for default theme")
		return
	}
	if l.watcher != nil {
		l.watcher.Stop()
	}

	provider := l.provider
	l.watcher = NewWatcher(l.theme, l.logger)
	l.watcher.SetChangeCallback(func(css string) {
		glib.IdleAdd(func() {
			provider.LoadFromString(css)
		})
	})
	l.watcher.Start(ctx)
}

// StopHotReload stops watching the stylesheet.
func (l *Loader) StopHotReload() {
	l.mu.Lock()
	w := l.watcher
	l.watcher = nil
	l.mu.Unlock()

	if w != nil {
		w.Stop()
	}
}
