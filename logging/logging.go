// Package logging builds the *slog.Logger used across the library from
// configuration.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/secureexorg/libsecureex-go/config"
)

// ErrInvalidLevel indicates an unrecognized level string.
var ErrInvalidLevel = errors.New("logging: invalid level")

// ParseLevel parses debug, info, warn (or warning) and error, case
// insensitively. An empty string is info.
func ParseLevel(raw string) (slog.Level, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return slog.LevelInfo, nil
	}
	if strings.EqualFold(value, "warning") {
		value = "warn"
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, raw)
	}
	return level, nil
}

// New returns a logger writing to cfg.LogFile, or stderr when unset, at
// cfg.LogLevel in cfg.LogFormat ("text" or "json"). The returned Closer
// releases the log file; it is a no-op for stderr.
func New(cfg config.Config) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0700); err != nil {
			return nil, nil, fmt.Errorf("logging: create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("logging: open %s: %w", cfg.LogFile, err)
		}
		w, closer = f, f
	}

	return slog.New(NewHandler(w, cfg.LogFormat, level)), closer, nil
}

// NewHandler returns a JSON handler when format is "json" and a text handler
// otherwise.
func NewHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
