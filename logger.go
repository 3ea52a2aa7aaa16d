package segcache

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/segcache/segment"
)

// Logger wraps slog.Logger with cache-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithSegment adds a segment ID field to the logger.
func (l *Logger) WithSegment(id segment.ID) *Logger {
	return &Logger{
		Logger: l.Logger.With("segment", string(id)),
	}
}

// WithLocation adds a storage location path field to the logger.
func (l *Logger) WithLocation(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("location", path),
	}
}

// LogLoad logs a segment load attempt at a location.
func (l *Logger) LogLoad(ctx context.Context, id segment.ID, location string, bytes int64, duration time.Duration, err error) {
	if err != nil {
		l.WarnContext(ctx, "segment load failed",
			"segment", string(id),
			"location", location,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "segment loaded",
			"segment", string(id),
			"location", location,
			"bytes", bytes,
			"duration", duration,
		)
	}
}

// LogCleanup logs a segment cleanup.
func (l *Logger) LogCleanup(ctx context.Context, id segment.ID, location string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "segment cleanup failed",
			"segment", string(id),
			"location", location,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "segment removed",
			"segment", string(id),
			"location", location,
		)
	}
}
