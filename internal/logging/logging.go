// Package logging builds the process logger. The terminal belongs to the UI,
// so records go to a file or nowhere.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ParseLevel maps a config level name to a slog level. ok is false for "off".
func ParseLevel(s string) (level slog.Level, ok bool, err error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true, nil
	case "info", "":
		return slog.LevelInfo, true, nil
	case "warn", "warning":
		return slog.LevelWarn, true, nil
	case "error":
		return slog.LevelError, true, nil
	case "off":
		return 0, false, nil
	default:
		return 0, false, fmt.Errorf("unknown log level %q", s)
	}
}

// New returns a text logger at levelName writing to w.
func New(w io.Writer, levelName string) (*slog.Logger, error) {
	level, enabled, err := ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return slog.New(slog.DiscardHandler), nil
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// Open creates the log file (and its directory) and returns a logger writing
// to it. The returned close func is never nil.
func Open(path, levelName string) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }
	_, enabled, err := ParseLevel(levelName)
	if err != nil {
		return nil, noop, err
	}
	if !enabled {
		return slog.New(slog.DiscardHandler), noop, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, noop, fmt.Errorf("create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, noop, fmt.Errorf("open log file: %w", err)
	}
	logger, err := New(f, levelName)
	if err != nil {
		_ = f.Close()
		return nil, noop, err
	}
	return logger, f.Close, nil
}
