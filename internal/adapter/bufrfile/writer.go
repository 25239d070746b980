// Package bufrfile appends encoded BUFR messages to a destination file.
// BUFR files are multi-message containers: one file per run holds one
// message per successfully converted row, in row order.
package bufrfile

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/promice/aws2bufr/internal/domain"
)

// Writer owns one output file for the duration of a run and implements
// pipeline.Sink. Each message arrives fully encoded, so a single append
// either writes a complete message or fails the run; cancellation can never
// leave partial message bytes behind.
type Writer struct {
	f      *os.File
	path   string
	logger *slog.Logger
	count  int
}

// Open creates (or truncates) the destination file.
func Open(path string, logger *slog.Logger) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open output file: %w", err)
	}
	return &Writer{f: f, path: path, logger: logger}, nil
}

// Write appends one complete encoded message.
func (w *Writer) Write(_ context.Context, msg domain.EncodedMessage) error {
	if _, err := w.f.Write(msg.Data); err != nil {
		return fmt.Errorf("append message to %s: %w", w.path, err)
	}
	w.count++
	return nil
}

// Count returns the number of messages written so far.
func (w *Writer) Count() int { return w.count }

// Close flushes and releases the file.
func (w *Writer) Close() error {
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", w.path, err)
	}
	w.logger.Debug("output file closed", "path", w.path, "messages", w.count)
	return nil
}
