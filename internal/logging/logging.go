// Package logging configures the package-level structured logger used for
// every recoverable error class in spec.md §7: enumeration, fingerprint,
// comparison and deletion errors are all slog records, not fatal
// terminations.
package logging

import (
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls the rotating file sink, mirroring the teacher pack's
// lumberjack-backed slog setup.
type Config struct {
	Filename   string
	Verbose    bool
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultConfig matches gooze's defaults for the same knobs.
func DefaultConfig() Config {
	return Config{
		Filename:   ".dedupe.log",
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
		Compress:   true,
	}
}

// New builds a slog.Logger writing JSON-free text records to a rotating
// file, at Debug under Verbose and Info otherwise.
func New(cfg Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}

	sink := &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}

	handler := slog.NewTextHandler(sink, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
