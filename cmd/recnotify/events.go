package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/recnotify/internal/audio"
	"github.com/jmylchreest/recnotify/internal/model"
)

var eventsOpts struct {
	output string
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List host events and what they trigger",
	RunE:  runEvents,
}

func init() {
	rootCmd.AddCommand(eventsCmd)

	eventsCmd.Flags().StringVarP(&eventsOpts.output, "output", "o", formatText,
		"Output format (text, json, yaml)")
}

// eventInfo is one row of the events listing.
type eventInfo struct {
	Name       string  `json:"name" yaml:"name"`
	Constant   string  `json:"constant" yaml:"constant"`
	Popup      string  `json:"popup,omitempty" yaml:"popup,omitempty"`
	Sound      string  `json:"sound,omitempty" yaml:"sound,omitempty"`
	ThemeSound string  `json:"theme_sound,omitempty" yaml:"theme_sound,omitempty"`
	FallbackHz float64 `json:"fallback_hz,omitempty" yaml:"fallback_hz,omitempty"`
	FallbackMs int     `json:"fallback_ms,omitempty" yaml:"fallback_ms,omitempty"`
	Repeats    int     `json:"repeats,omitempty" yaml:"repeats,omitempty"`
}

func listEvents() []eventInfo {
	var rows []eventInfo
	for _, e := range model.AllHostEvents() {
		row := eventInfo{Name: e.String(), Constant: e.HostConstant()}
		if sound, req, ok := model.Action(e); ok {
			row.Popup = req.Label()
			row.Sound = sound.Name
			row.ThemeSound, _ = audio.ThemeName(sound.Name)
			row.FallbackHz = sound.FallbackHz
			row.FallbackMs = sound.FallbackMs
			row.Repeats = sound.Repeats
		}
		rows = append(rows, row)
	}
	return rows
}

func runEvents(cmd *cobra.Command, args []string) error {
	rows := listEvents()
	return writeFormatted(cmd.OutOrStdout(), eventsOpts.output, rows, func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "EVENT\tPOPUP\tSOUND\tFALLBACK")
		for _, r := range rows {
			popup, sound, fallback := "-", "-", "-"
			if r.Sound != "" {
				popup, sound = r.Popup, r.Sound
				if r.ThemeSound != "" {
					sound += " (" + r.ThemeSound + ")"
				}
				fallback = fmt.Sprintf("%g Hz %d ms x%d", r.FallbackHz, r.FallbackMs, r.Repeats)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Name, popup, sound, fallback)
		}
		return tw.Flush()
	})
}
