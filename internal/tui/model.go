// Package tui provides the BubbleTea trigger panel used to send host events
// to a running recnotifyd by hand.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/recnotify/internal/config"
	"github.com/jmylchreest/recnotify/internal/dbus"
	"github.com/jmylchreest/recnotify/internal/model"
)

// RefreshInterval is how often the panel polls daemon status.
const RefreshInterval = 2 * time.Second

// Controller is the daemon endpoint the panel drives.
type Controller interface {
	Event(name string) (bool, error)
	GetSettings() (config.Settings, error)
	SetSettings(s config.Settings) error
	Status() (dbus.Status, error)
}

// eventItem wraps a host event for the list component.
type eventItem struct {
	event model.HostEvent
}

func (i eventItem) Title() string {
	return i.event.String()
}

func (i eventItem) Description() string {
	return describeEvent(i.event)
}

func (i eventItem) FilterValue() string {
	return i.event.String()
}

// describeEvent summarises what the daemon does for e.
func describeEvent(e model.HostEvent) string {
	if sound, req, ok := model.Action(e); ok {
		return fmt.Sprintf("%s · %s", req.Label(), sound.Name)
	}
	switch e {
	case model.EventFinishedLoading:
		return "start the popup and warm up audio"
	case model.EventExit:
		return "stop the popup"
	default:
		return ""
	}
}

// Model is the trigger panel.
type Model struct {
	ctl Controller

	list list.Model
	help help.Model
	keys KeyMap

	settings config.Settings
	status   dbus.Status
	width    int
	height   int
	ready    bool

	// Status message
	statusMsg string
	statusErr bool
}

type stateMsg struct {
	settings config.Settings
	status   dbus.Status
	err      error
}

type sentMsg struct {
	event string
	ok    bool
	err   error
}

type settingsMsg struct {
	settings config.Settings
	err      error
}

type tickMsg time.Time

// New creates a panel driving ctl.
func New(ctl Controller) Model {
	events := model.AllHostEvents()
	items := make([]list.Item, 0, len(events))
	for _, e := range events {
		items = append(items, eventItem{event: e})
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Host Events"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return Model{
		ctl:  ctl,
		list: l,
		help: help.New(),
		keys: DefaultKeyMap(),
	}
}

// Init loads the daemon state and starts polling.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refresh, tick())
}

func tick() tea.Cmd {
	return tea.Tick(RefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) refresh() tea.Msg {
	s, err := m.ctl.GetSettings()
	if err != nil {
		return stateMsg{err: err}
	}
	st, err := m.ctl.Status()
	return stateMsg{settings: s, status: st, err: err}
}

func (m Model) send(e model.HostEvent) tea.Cmd {
	return func() tea.Msg {
		ok, err := m.ctl.Event(e.String())
		return sentMsg{event: e.String(), ok: ok, err: err}
	}
}

func (m Model) apply(s config.Settings) tea.Cmd {
	return func() tea.Msg {
		if err := m.ctl.SetSettings(s); err != nil {
			return settingsMsg{err: err}
		}
		return settingsMsg{settings: s}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.list.SetSize(msg.Width, max(msg.Height-4, 0))
		return m, nil

	case stateMsg:
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
			return m, nil
		}
		m.settings = msg.settings
		m.status = msg.status
		return m, nil

	case sentMsg:
		switch {
		case msg.err != nil:
			m.setStatus(msg.err.Error(), true)
		case !msg.ok:
			m.setStatus("daemon did not recognise "+msg.event, true)
		default:
			m.setStatus("sent "+msg.event, false)
		}
		return m, m.refresh

	case settingsMsg:
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
			return m, nil
		}
		m.settings = msg.settings
		m.setStatus("settings updated", false)
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.refresh, tick())
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) setStatus(text string, isErr bool) {
	m.statusMsg = text
	m.statusErr = isErr
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Send):
		item, ok := m.list.SelectedItem().(eventItem)
		if !ok {
			return m, nil
		}
		return m, m.send(item.event)

	case key.Matches(msg, m.keys.ToggleSounds):
		s := m.settings
		s.SoundsEnabled = !s.SoundsEnabled
		return m, m.apply(s)

	case key.Matches(msg, m.keys.ToggleCenter):
		s := m.settings
		s.PositionCenter = !s.PositionCenter
		return m, m.apply(s)

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the panel.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle := lipgloss.NewStyle().Bold(true)

	var b strings.Builder
	b.WriteString(m.list.View())
	b.WriteString("\n")

	placement := "top-right"
	if m.settings.PositionCenter {
		placement = "centered"
	}
	fmt.Fprintf(&b, "%s %s  %s %s  %s %s\n",
		labelStyle.Render("sounds:"), valueStyle.Render(onOff(m.settings.SoundsEnabled)),
		labelStyle.Render("placement:"), valueStyle.Render(placement),
		labelStyle.Render("popup:"), valueStyle.Render(m.popupState()),
	)

	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		b.WriteString(statusStyle.Render(m.statusMsg))
	} else if m.status.LastEvent != "" {
		b.WriteString(labelStyle.Render(fmt.Sprintf("last event %s %s",
			m.status.LastEvent, humanize.Time(m.status.LastEventAt))))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m Model) popupState() string {
	if !m.status.UIRunning {
		return "stopped"
	}
	if m.status.StartedAt.IsZero() {
		return "running"
	}
	return "running since " + humanize.Time(m.status.StartedAt)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// Run starts the panel in the alternate screen and blocks until it quits.
func Run(ctl Controller) error {
	p := tea.NewProgram(New(ctl), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
