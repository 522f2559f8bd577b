package input

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jmylchreest/recnotify/internal/model"
)

// EventReader reads one host event name per line.
// Blank lines and lines starting with # are skipped.
type EventReader struct {
	name    string
	reader  io.Reader
	logger  *slog.Logger
	onError func(err error)
}

// NewStdinReader creates an EventReader on os.Stdin.
func NewStdinReader(logger *slog.Logger) *EventReader {
	return NewEventReader("stdin", os.Stdin, logger)
}

// NewEventReader creates an EventReader on r.
func NewEventReader(name string, r io.Reader, logger *slog.Logger) *EventReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventReader{
		name:   name,
		reader: r,
		logger: logger,
	}
}

// Name returns the source identifier.
func (r *EventReader) Name() string {
	return r.name
}

// SetErrorCallback sets the callback invoked for lines that do not name
// a host event. Reading continues afterwards.
func (r *EventReader) SetErrorCallback(callback func(err error)) {
	r.onError = callback
}

// Run reads until EOF or ctx is done. EOF is not an error.
func (r *EventReader) Run(ctx context.Context, handle func(model.HostEvent)) error {
	lines := make(chan string)
	errCh := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r.reader)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errCh <- scanner.Err()
	}()

	lineNo := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				if err := <-errCh; err != nil {
					return &AdapterError{Source: r.name, Message: "failed to read events", Err: err}
				}
				r.logger.Debug("event source exhausted", "source", r.name, "lines", lineNo)
				return nil
			}
			lineNo++
			r.handleLine(lineNo, line, handle)
		}
	}
}

func (r *EventReader) handleLine(lineNo int, line string, handle func(model.HostEvent)) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}

	e, err := model.ParseHostEvent(line)
	if err != nil {
		r.logger.Warn("ignoring input line", "source", r.name, "line", lineNo, "error", err)
		if r.onError != nil {
			r.onError(&AdapterError{
				Source:  r.name,
				Message: fmt.Sprintf("line %d", lineNo),
				Err:     err,
			})
		}
		return
	}
	handle(e)
}
