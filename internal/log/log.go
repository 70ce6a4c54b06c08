// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package log constructs the slog loggers graphchat components receive
// through dependency injection. Components take a *slog.Logger in their
// constructors and add context with Logger.With; tests pass Nop() or a
// buffer-backed logger to assert on output.
package log

import (
	"io"
	"log/slog"
	"os"
)

// Config defines logger options.
type Config struct {
	// Level is the minimum level emitted (default slog.LevelInfo).
	Level slog.Level

	// JSON switches output from text to JSON records.
	JSON bool
}

// New returns a logger writing to stderr with the given configuration.
func New(cfg Config) *slog.Logger {
	return NewWithWriter(os.Stderr, cfg)
}

// NewWithWriter returns a logger writing to w.
func NewWithWriter(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.JSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
}
