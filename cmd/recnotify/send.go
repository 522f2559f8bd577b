package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/recnotify/internal/model"
)

var sendCmd = &cobra.Command{
	Use:   "send <event>...",
	Short: "Send host events to recnotifyd",
	Long: `Send one or more host events to the running daemon, in order.

Events are named as listed by 'recnotify events'. Native host constants
such as OBS_FRONTEND_EVENT_RECORDING_STARTING are accepted too.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	// Reject unknown names before touching the bus
	for _, name := range args {
		if _, err := model.ParseHostEvent(name); err != nil {
			return err
		}
	}

	client, err := connect()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	for _, name := range args {
		ok, err := client.Event(name)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("recnotifyd did not recognise event %q", name)
		}
		logger.Debug("event sent", "event", name)
	}
	return nil
}
