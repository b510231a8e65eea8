// Package logging builds the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where logs go and how much is kept.
type Options struct {
	Level slog.Level
	// File switches output to a rotated file. Empty means Writer.
	File       string
	MaxSizeMB  int
	MaxBackups int
	// Writer defaults to os.Stderr.
	Writer io.Writer
}

// New returns a JSON logger and a close func for the underlying sink.
func New(opts Options) (*slog.Logger, func() error) {
	var (
		w       io.Writer = os.Stderr
		closeFn           = func() error { return nil }
	)

	switch {
	case opts.File != "":
		rotated := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
		}
		w = rotated
		closeFn = rotated.Close
	case opts.Writer != nil:
		w = opts.Writer
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: opts.Level})
	return slog.New(handler), closeFn
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
