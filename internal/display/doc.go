// Package display realises the notification popup with GTK4.
//
// Everything in this package runs on the UI thread: the App owns the GLib
// main loop, the Popup draws the glyph and label, and the Loop adapts GLib
// sources to the engine's timer model.
package display
