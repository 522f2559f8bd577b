// Package engine drives the single notification popup.
// It serializes overlapping requests into one visible popup, interrupting
// the current animation when a newer request arrives, and runs the
// fade-in, hold and fade-out timeline on an event loop supplied by the caller.
package engine
