package display

import (
	"context"
	"log/slog"
	"sync"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gio/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/recnotify/internal/daemon"
	"github.com/jmylchreest/recnotify/internal/engine"
	"github.com/jmylchreest/recnotify/internal/theme"
)

// ApplicationID is the GApplication id of the popup.
// It differs from the D-Bus endpoint name owned by the daemon.
const ApplicationID = "io.github.jmylchreest.RecNotify.Popup"

// App runs the popup's GTK application on the UI thread.
// It implements daemon.Runner; each App runs at most once.
type App struct {
	placement Placement
	themePath string
	logger    *slog.Logger

	mu     sync.Mutex
	app    *adw.Application
	quit   bool
	cancel context.CancelFunc
	engine *engine.Engine
	popup  *Popup
	themes *theme.Loader
}

// NewApp creates an App. themePath overrides the user stylesheet location;
// empty means the default.
func NewApp(placement Placement, themePath string, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		placement: placement,
		themePath: themePath,
		logger:    logger,
	}
}

// Run initialises GTK and runs the main loop until Quit.
// ready receives the engine once the popup exists.
func (a *App) Run(ready func(daemon.Target)) error {
	if !gtk.InitCheck() {
		return &DisplayError{Message: "no display available"}
	}

	app := adw.NewApplication(ApplicationID, gio.ApplicationNonUnique)

	a.mu.Lock()
	if a.quit {
		a.mu.Unlock()
		return nil
	}
	a.app = app
	a.mu.Unlock()

	app.ConnectActivate(func() { a.activate(app, ready) })
	app.ConnectShutdown(a.shutdown)

	status := app.Run([]string{"recnotifyd"})
	if status != 0 {
		return &DisplayError{Message: "application exited with non-zero status"}
	}
	return nil
}

func (a *App) activate(app *adw.Application, ready func(daemon.Target)) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.engine != nil {
		a.logger.Warn("popup already active")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.themes = theme.NewLoader(a.themePath, a.logger)
	if err := a.themes.Load(); err != nil {
		a.logger.Warn("failed to load popup stylesheet, using default", "error", err)
	}
	a.themes.Apply(nil)
	a.themes.StartHotReload(ctx)

	app.Hold()
	a.popup = NewPopup(&app.Application, a.placement, a.logger)
	a.engine = engine.New(NewLoop(), a.popup, a.logger)
	a.engine.Start()

	a.logger.Info("popup ready")
	ready(a.engine)
}

func (a *App) shutdown() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.engine != nil {
		a.engine.Stop()
	}
	if a.popup != nil {
		a.popup.Close()
	}
	if a.themes != nil {
		a.themes.StopHotReload()
	}
	if a.cancel != nil {
		a.cancel()
	}
	a.logger.Info("popup stopped")
}

// Quit asks the main loop to exit. Safe to call from any goroutine, and
// before Run has started.
func (a *App) Quit() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.quit = true
	app := a.app
	if app == nil {
		return
	}
	glib.IdleAdd(func() {
		app.Release()
		app.Quit()
	})
}

// DisplayError represents a display-related error.
type DisplayError struct {
	Message string
	Cause   error
}

func (e *DisplayError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DisplayError) Unwrap() error {
	return e.Cause
}
