// Package input reads host events from line-oriented sources such as a
// pipe from the host process.
package input

import (
	"context"

	"github.com/jmylchreest/recnotify/internal/model"
)

// Source delivers host events until it is exhausted or ctx is done.
type Source interface {
	// Name returns the source identifier (e.g., "stdin").
	Name() string

	// Run calls handle for every recognised event in order.
	Run(ctx context.Context, handle func(model.HostEvent)) error
}

// AdapterError represents a source-related error.
type AdapterError struct {
	Source  string
	Message string
	Err     error
}

func (e *AdapterError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}
