// Package main is the entry point for the recnotifyd overlay daemon.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmylchreest/recnotify/internal/adapter/input"
	"github.com/jmylchreest/recnotify/internal/audio"
	"github.com/jmylchreest/recnotify/internal/config"
	"github.com/jmylchreest/recnotify/internal/daemon"
	"github.com/jmylchreest/recnotify/internal/dbus"
	"github.com/jmylchreest/recnotify/internal/dispatch"
	"github.com/jmylchreest/recnotify/internal/display"
	"github.com/jmylchreest/recnotify/internal/model"
)

// shutdownTimeout bounds how long shutdown waits for the UI thread.
const shutdownTimeout = 5 * time.Second

var (
	// Build-time variables
	version = "dev"
)

type options struct {
	settingsPath string
	themePath    string
	stdin        bool
	startUI      bool
}

func main() {
	showVersion := flag.Bool("version", false, "Show version and exit")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	readStdin := flag.Bool("stdin", false, "Read host events from standard input, one name per line; exit when it closes")
	startUI := flag.Bool("start-ui", false, "Start the popup immediately instead of waiting for finished-loading")
	settingsPath := flag.String("config", "", "Settings file (default ~/.config/recnotify/settings.toml)")
	themePath := flag.String("theme", "", "Popup stylesheet (default ~/.config/recnotify/popup.css)")
	flag.Parse()

	if *showVersion {
		fmt.Println("recnotifyd version", version)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	opts := options{
		settingsPath: *settingsPath,
		themePath:    *themePath,
		stdin:        *readStdin,
		startUI:      *startUI,
	}
	if err := run(logger, opts); err != nil {
		logger.Error("recnotifyd failed", "error", err)
		os.Exit(1)
	}
	logger.Info("recnotifyd stopped")
}

func run(logger *slog.Logger, opts options) error {
	logger.Info("starting recnotifyd", "version", version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	settings, err := config.LoadSettings(opts.settingsPath)
	if err != nil {
		logger.Warn("failed to load settings, using defaults", "error", err)
	}
	live := config.NewLive(settings)
	logger.Info("settings loaded",
		"sounds_enabled", settings.SoundsEnabled,
		"position_center", settings.PositionCenter,
	)

	sounds := audio.NewManager(live, logger)
	if err := sounds.Start(ctx); err != nil {
		logger.Warn("audio output unavailable, sounds disabled", "error", err)
	}

	ui := daemon.NewUIThread(func() daemon.Runner {
		return display.NewApp(live, opts.themePath, logger)
	}, logger)
	dispatcher := dispatch.New(ui, sounds, logger)
	controller := daemon.NewSettingsController(live, ui, opts.settingsPath, logger)

	server := dbus.NewServer(daemon.NewService(dispatcher, controller, ui, sounds), logger)
	// signals outlives a failed Start; emitting on a stopped server is a no-op.
	signals := server

	watcher, err := daemon.NewSettingsWatcher(opts.settingsPath, logger)
	if err != nil {
		logger.Warn("failed to create settings watcher", "error", err)
	} else {
		watcher.SetReloadCallback(func(s config.Settings) {
			if controller.Apply(s) {
				signals.NotifySettingsChanged(s)
			}
		})
		watcher.SetErrorCallback(signals.NotifySettingsError)
		if err := watcher.Start(); err != nil {
			logger.Warn("failed to start settings watcher", "error", err)
			watcher = nil
		}
	}

	if err := server.Start(); err != nil {
		if !opts.stdin {
			shutdown(logger, ui, sounds, watcher, nil)
			return fmt.Errorf("failed to start D-Bus endpoint: %w", err)
		}
		logger.Warn("D-Bus endpoint unavailable, reading stdin only", "error", err)
		server = nil
	}

	if opts.startUI {
		dispatcher.OnHostEvent(model.EventFinishedLoading)
	}

	if opts.stdin {
		reader := input.NewStdinReader(logger)
		reader.SetErrorCallback(func(err error) {
			logger.Warn("ignoring unrecognised host event", "error", err)
		})
		go func() {
			err := reader.Run(ctx, dispatcher.OnHostEvent)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("stdin reader stopped", "error", err)
			}
			logger.Info("stdin closed, shutting down")
			cancel()
		}()
	}

	<-ctx.Done()
	shutdown(logger, ui, sounds, watcher, server)
	return nil
}

// shutdown stops components in reverse start order.
func shutdown(logger *slog.Logger, ui *daemon.UIThread, sounds *audio.Manager, watcher *daemon.SettingsWatcher, server *dbus.Server) {
	if server != nil {
		if err := server.Stop(); err != nil {
			logger.Warn("failed to stop D-Bus endpoint", "error", err)
		}
	}
	if watcher != nil {
		if err := watcher.Stop(); err != nil {
			logger.Warn("failed to stop settings watcher", "error", err)
		}
	}

	ui.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := ui.Wait(ctx); err != nil {
		logger.Warn("ui thread did not stop in time", "error", err)
	}

	sounds.Stop()
}
