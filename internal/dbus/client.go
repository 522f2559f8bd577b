package dbus

import (
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/recnotify/internal/config"
)

// ErrNotRunning is returned when no daemon owns BusName.
var ErrNotRunning = errors.New("recnotifyd is not running")

// Client calls the endpoint of a running recnotifyd.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// Connect opens a private session bus connection and checks that the
// daemon is running.
func Connect() (*Client, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return newClient(conn)
}

func newClient(conn *dbus.Conn) (*Client, error) {
	var owned bool
	if err := conn.BusObject().Call("org.freedesktop.DBus.NameHasOwner", 0, BusName).Store(&owned); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to query bus name: %w", err)
	}
	if !owned {
		_ = conn.Close()
		return nil, ErrNotRunning
	}

	return &Client{
		conn: conn,
		obj:  conn.Object(BusName, Path),
	}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Event sends a host event by name and reports whether it was recognised.
func (c *Client) Event(name string) (bool, error) {
	var ok bool
	if err := c.obj.Call(Interface+".Event", 0, name).Store(&ok); err != nil {
		return false, fmt.Errorf("failed to send event: %w", err)
	}
	return ok, nil
}

// GetSettings returns the daemon's live settings.
func (c *Client) GetSettings() (config.Settings, error) {
	var s config.Settings
	if err := c.obj.Call(Interface+".GetSettings", 0).Store(&s.SoundsEnabled, &s.PositionCenter); err != nil {
		return config.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return s, nil
}

// SetSettings replaces the daemon's settings.
func (c *Client) SetSettings(s config.Settings) error {
	if call := c.obj.Call(Interface+".SetSettings", 0, s.SoundsEnabled, s.PositionCenter); call.Err != nil {
		return fmt.Errorf("failed to set settings: %w", call.Err)
	}
	return nil
}

// Status returns the daemon status.
func (c *Client) Status() (Status, error) {
	var (
		running     bool
		audio       bool
		startedAt   int64
		lastEvent   string
		lastEventAt int64
	)
	if err := c.obj.Call(Interface+".Status", 0).Store(&running, &audio, &startedAt, &lastEvent, &lastEventAt); err != nil {
		return Status{}, fmt.Errorf("failed to get status: %w", err)
	}
	return statusFromWire(running, audio, startedAt, lastEvent, lastEventAt), nil
}

// Preview asks the daemon to show a popup for a type/state pairing. It
// reports whether the popup was up to show it.
func (c *Client) Preview(typ, state string) (bool, error) {
	var shown bool
	if err := c.obj.Call(Interface+".Preview", 0, typ, state).Store(&shown); err != nil {
		return false, fmt.Errorf("failed to preview notification: %w", err)
	}
	return shown, nil
}

// Description returns the daemon's description text.
func (c *Client) Description() (string, error) {
	var d string
	if err := c.obj.Call(Interface+".Description", 0).Store(&d); err != nil {
		return "", fmt.Errorf("failed to get description: %w", err)
	}
	return d, nil
}
