package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/recnotify/internal/dbus"
)

var statusOpts struct {
	output string
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Long: `Show whether the popup is running and when it started, whether audio
output is available, and the last host event the daemon handled.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVarP(&statusOpts.output, "output", "o", formatText,
		"Output format (text, json, yaml)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, err := connect()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	st, err := client.Status()
	if err != nil {
		return err
	}
	return writeStatus(cmd.OutOrStdout(), statusOpts.output, st)
}

func writeStatus(w io.Writer, format string, st dbus.Status) error {
	return writeFormatted(w, format, st, func(w io.Writer) error {
		popup := "stopped"
		if st.UIRunning {
			popup = "running"
			if !st.StartedAt.IsZero() {
				popup += " since " + relative(st.StartedAt)
			}
		}

		audio := "unavailable"
		if st.Audio {
			audio = "available"
		}

		last := "none"
		if st.LastEvent != "" {
			last = st.LastEvent + " " + relative(st.LastEventAt)
		}

		_, err := fmt.Fprintf(w, "popup       %s\naudio       %s\nlast event  %s\n", popup, audio, last)
		return err
	})
}

// relative formats t like "3 minutes ago".
func relative(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}
