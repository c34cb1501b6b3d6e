// Package errlog appends recoverable errors to a plain text log file that is
// shared by every stage of a run.
package errlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Log is an append-only error sink.
type Log struct {
	logger *slog.Logger
	closer io.Closer
	once   sync.Once
}

// Open appends to path, creating it and its directory when needed.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create error log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open error log: %w", err)
	}
	return New(f, f), nil
}

// New writes to w; closer may be nil.
func New(w io.Writer, closer io.Closer) *Log {
	return &Log{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelWarn})),
		closer: closer,
	}
}

// Discard returns a Log that drops everything.
func Discard() *Log {
	return New(io.Discard, nil)
}

// Logger returns the logger errors are written to.
func (l *Log) Logger() *slog.Logger {
	return l.logger
}

// Close closes the underlying file. It is safe to call more than once.
func (l *Log) Close() error {
	var err error
	l.once.Do(func() {
		if l.closer != nil {
			err = l.closer.Close()
		}
	})
	return err
}
