package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/recnotify/internal/config"
	"github.com/jmylchreest/recnotify/internal/dbus"
)

var settingsOpts struct {
	output string
	sounds bool
	center bool
}

// settingsCmd represents the settings command group.
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change overlay settings",
	Long: `Show or change the overlay settings.

Settings are read from and written to the running daemon, which applies
them immediately and saves them. When the daemon is not running, the
settings file is used directly.`,
	RunE: runSettingsGet,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show current settings",
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change settings",
	Long: `Change settings. Only the flags given are changed.

  recnotify settings set --sounds=false
  recnotify settings set --center=false   # top-right corner`,
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)

	for _, cmd := range []*cobra.Command{settingsCmd, settingsGetCmd} {
		cmd.Flags().StringVarP(&settingsOpts.output, "output", "o", formatText,
			"Output format (text, json, yaml)")
	}
	settingsSetCmd.Flags().BoolVar(&settingsOpts.sounds, "sounds", config.DefaultSoundsEnabled,
		"Play a sound with each notification")
	settingsSetCmd.Flags().BoolVar(&settingsOpts.center, "center", config.DefaultPositionCenter,
		"Center the popup instead of the top-right corner")

	rootCmd.AddCommand(settingsCmd)
}

// settingsSource reads and writes settings through the daemon when it is
// running and through the settings file otherwise.
type settingsSource struct {
	client *dbus.Client
}

func openSettings() (*settingsSource, error) {
	client, err := connect()
	if err != nil {
		if !errors.Is(err, dbus.ErrNotRunning) {
			logger.Warn("falling back to settings file", "error", err)
		}
		return &settingsSource{}, nil
	}
	return &settingsSource{client: client}, nil
}

func (s *settingsSource) get() (config.Settings, error) {
	if s.client != nil {
		return s.client.GetSettings()
	}
	return config.LoadSettings(globalOpts.configPath)
}

func (s *settingsSource) set(next config.Settings) error {
	if s.client != nil {
		return s.client.SetSettings(next)
	}
	return config.SaveSettings(globalOpts.configPath, next)
}

func (s *settingsSource) close() {
	if s.client != nil {
		_ = s.client.Close()
	}
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	src, err := openSettings()
	if err != nil {
		return err
	}
	defer src.close()

	cur, err := src.get()
	if err != nil {
		return err
	}
	return writeSettings(cmd.OutOrStdout(), settingsOpts.output, cur)
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if !flags.Changed("sounds") && !flags.Changed("center") {
		return errors.New("nothing to change: pass --sounds and/or --center")
	}

	src, err := openSettings()
	if err != nil {
		return err
	}
	defer src.close()

	next, err := src.get()
	if err != nil {
		return err
	}
	if flags.Changed("sounds") {
		next.SoundsEnabled = settingsOpts.sounds
	}
	if flags.Changed("center") {
		next.PositionCenter = settingsOpts.center
	}

	if err := src.set(next); err != nil {
		return err
	}
	return writeSettings(cmd.OutOrStdout(), formatText, next)
}

func writeSettings(w io.Writer, format string, s config.Settings) error {
	return writeFormatted(w, format, s, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "sounds_enabled   %t\nposition_center  %t\n",
			s.SoundsEnabled, s.PositionCenter)
		return err
	})
}
