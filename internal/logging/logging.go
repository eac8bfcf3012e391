// Package logging builds the JSON slog loggers used by both binaries.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/flicky/storefront/internal/config"
)

// New returns a logger writing JSON lines to a rotated file and, when console is
// non-nil, to console as well. The returned writer is the rotated file itself.
func New(cfg config.LogConfig, component string, console io.Writer) (*slog.Logger, io.WriteCloser, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	rot := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
	var w io.Writer = rot
	if console != nil {
		w = io.MultiWriter(console, rot)
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("component", component), rot, nil
}
