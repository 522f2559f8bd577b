package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the trigger panel.
type KeyMap struct {
	// Navigation
	Up   key.Binding
	Down key.Binding

	// Actions
	Send         key.Binding
	ToggleSounds key.Binding
	ToggleCenter key.Binding
	Refresh      key.Binding

	// Global
	Quit key.Binding
	Help key.Binding
}

// ShortHelp returns a short help message.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.ToggleSounds, k.ToggleCenter, k.Help, k.Quit}
}

// FullHelp returns a full help message.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Send},
		{k.ToggleSounds, k.ToggleCenter, k.Refresh},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Send: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "send event"),
		),
		ToggleSounds: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "toggle sounds"),
		),
		ToggleCenter: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "toggle centered"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}
