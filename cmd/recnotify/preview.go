package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/recnotify/internal/model"
)

var previewCmd = &cobra.Command{
	Use:   "preview <type> <state>",
	Short: "Show the popup for a notification without a sound",
	Long: `Show the popup for a type/state pairing without playing its sound.

Types are recording and replay; states are started, paused, unpaused
(or resumed) and saved. Pairings the host never sends, such as
replay/paused, show the placeholder popup. The popup must already be up.`,
	Args: cobra.ExactArgs(2),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	req, err := model.ParseRequest(args[0], args[1])
	if err != nil {
		return err
	}

	client, err := connect()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	shown, err := client.Preview(req.Type.String(), req.State.String())
	if err != nil {
		return err
	}
	if !shown {
		return fmt.Errorf("popup is not running; send finished-loading first")
	}
	logger.Debug("preview sent", "request", req.String(), "label", req.Label())
	return nil
}
