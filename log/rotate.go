package log

import (
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// RotatingFileConfig parameterizes a size- and age-based log file rotation,
// passed straight through to lumberjack.Logger.
type RotatingFileConfig struct {
	// Path is the log file's location on disk.
	Path string
	// MaxSizeMB rotates the active file once it exceeds this size.
	MaxSizeMB int
	// MaxBackups caps how many rotated files are kept; the oldest is
	// removed once exceeded.
	MaxBackups int
	// MaxAgeDays caps how long a rotated file is kept regardless of
	// MaxBackups.
	MaxAgeDays int
	// Compress gzips rotated files once they age out of the active slot.
	Compress bool
}

// NewRotatingFile creates a Logger that writes JSON to a size- and
// age-rotated file, for long-running node processes where stderr is not an
// operator-managed log sink.
func NewRotatingFile(level slog.Level, cfg RotatingFileConfig) *Logger {
	w := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{inner: slog.New(h)}
}
