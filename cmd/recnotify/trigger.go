package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/recnotify/internal/tui"
)

var triggerCmd = &cobra.Command{
	Use:   "trigger",
	Short: "Launch the interactive trigger panel",
	Long: `Launch a terminal panel for sending host events to the running daemon
by hand and toggling settings.

Key bindings:
  j/k, ↑/↓    Select event
  enter       Send selected event
  s           Toggle sounds
  c           Toggle centered placement
  r           Refresh status
  ?           Show help
  q           Quit`,
	RunE: runTrigger,
}

func init() {
	rootCmd.AddCommand(triggerCmd)
}

func runTrigger(cmd *cobra.Command, args []string) error {
	client, err := connect()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	return tui.Run(client)
}
