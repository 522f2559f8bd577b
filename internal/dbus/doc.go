// Package dbus exposes recnotifyd's host endpoint on the session bus and
// provides the client used by the recnotify CLI.
//
// The host reports lifecycle events by name through Event. Settings and
// status are available to any session client.
package dbus
