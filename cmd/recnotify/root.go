package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/recnotify/internal/dbus"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

var (
	globalOpts struct {
		verbose    bool
		configPath string
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "recnotify",
	Short: "Control the recording notification overlay",
	Long: `recnotify controls recnotifyd, the on-screen overlay that announces
recording and replay-buffer events with a short popup and sound.

Host integrations report events with 'recnotify send'. Settings changes
apply to the running daemon immediately.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to settings file (default: ~/.config/recnotify/settings.toml)")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// connect returns a client for the running daemon.
func connect() (*dbus.Client, error) {
	c, err := dbus.Connect()
	if err != nil {
		if errors.Is(err, dbus.ErrNotRunning) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to reach recnotifyd: %w", err)
	}
	return c, nil
}
