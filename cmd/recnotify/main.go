// Package main provides the recnotify CLI, which talks to a running
// recnotifyd over the session bus.
package main

func main() {
	Execute()
}
