package orbgo

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with orbgo-specific context.
// This provides structured logging with consistent field names.
//
// Only lifecycle operations (load, swap, unload, meta-almanac processing
// and batch summaries) log; single queries never do.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithAlias adds a kernel alias field to the logger.
func (l *Logger) WithAlias(alias string) *Logger {
	return &Logger{
		Logger: l.Logger.With("alias", alias),
	}
}

// WithKind adds a kernel kind field to the logger.
func (l *Logger) WithKind(kind string) *Logger {
	return &Logger{
		Logger: l.Logger.With("kind", kind),
	}
}

// LogLoad logs a kernel or dataset load.
func (l *Logger) LogLoad(ctx context.Context, alias, kind string, size int64, mapped bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"alias", alias,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "kernel loaded",
			"alias", alias,
			"kind", kind,
			"bytes", size,
			"mapped", mapped,
		)
	}
}

// LogSwap logs the replacement of an aliased kernel.
func (l *Logger) LogSwap(ctx context.Context, alias, path string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "swap failed",
			"alias", alias,
			"path", path,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "kernel swapped",
			"alias", alias,
			"path", path,
		)
	}
}

// LogUnload logs the removal of an aliased kernel.
func (l *Logger) LogUnload(ctx context.Context, alias string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "unload failed",
			"alias", alias,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "kernel unloaded",
			"alias", alias,
		)
	}
}

// LogMetaLoad logs the processing of a meta-almanac.
func (l *Logger) LogMetaLoad(ctx context.Context, files int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "meta-almanac failed",
			"files", files,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "meta-almanac loaded",
			"files", files,
			"duration", duration,
		)
	}
}

// LogBatch logs the outcome of a batch query.
func (l *Logger) LogBatch(ctx context.Context, op string, count, failed int) {
	if failed > 0 {
		l.WarnContext(ctx, "batch completed with failures",
			"op", op,
			"total", count,
			"failed", failed,
			"success", count-failed,
		)
	} else {
		l.DebugContext(ctx, "batch completed",
			"op", op,
			"count", count,
		)
	}
}
