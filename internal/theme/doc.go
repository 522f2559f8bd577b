// Package theme supplies the popup stylesheet.
// A user file at ~/.config/recnotify/popup.css replaces the embedded
// default and is reloaded when it changes.
package theme
