// Package daemon provides the lifecycle glue for recnotifyd.
// It owns the UI thread, applies settings changes to the live view and the
// popup, and reloads the settings file when it changes on disk.
package daemon
