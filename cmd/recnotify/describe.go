package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/recnotify/internal/config"
	"github.com/jmylchreest/recnotify/internal/dispatch"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print the overlay description",
	Long: `Print the human-readable description of the overlay: the events it
reacts to and the current settings. Works without a running daemon.`,
	RunE: runDescribe,
}

func init() {
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if client, err := connect(); err == nil {
		defer func() { _ = client.Close() }()
		d, err := client.Description()
		if err == nil {
			_, err = fmt.Fprint(out, d)
			return err
		}
		logger.Warn("failed to get description from daemon", "error", err)
	}

	s, err := config.LoadSettings(globalOpts.configPath)
	if err != nil {
		logger.Warn("failed to load settings, using defaults", "error", err)
	}
	_, err = fmt.Fprint(out, dispatch.Description(s))
	return err
}
