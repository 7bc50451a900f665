package config

import (
	"io"
	"log/slog"
)

// NewLogger builds the root logger from LogLevel and LogFormat. Call
// Validate first; unknown values fall back to info and text.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	lvl, err := c.SlogLevel()
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
