// Package telemetry wraps zerolog for structured logging and exposes
// optional Prometheus metrics for the planner's run-level statistics.
// Grounded on piwi3910-openfroyo's pkg/telemetry package, trimmed down
// to the handful of fields this planner actually emits.
package telemetry

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level  string // trace, debug, info, warn, error
	Format string // "console" or "json"
	Output string // "stdout", "stderr", or a file path
}

// DefaultLoggingConfig returns a console logger at info level on
// stderr, matching the teacher's own plain stderr debug prints
// (search.go's logw) upgraded to structured output.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{Level: "info", Format: "console", Output: "stderr"}
}

// Logger wraps a zerolog.Logger with yardplan-specific context
// helpers.
type Logger struct {
	zl zerolog.Logger
}

// NewLogger builds a Logger per cfg.
func NewLogger(cfg LoggingConfig) (*Logger, error) {
	var w io.Writer
	switch cfg.Output {
	case "", "stderr":
		w = os.Stderr
	case "stdout":
		w = os.Stdout
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		w = f
	}

	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	zl := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &Logger{zl: zl}, nil
}

type ctxKey struct{}

// WithContext stores the logger on ctx for retrieval by FromContext.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves a logger stored by WithContext, falling back
// to a default stderr logger if none is present.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	fallback, _ := NewLogger(DefaultLoggingConfig())
	return fallback
}

// WithRunID returns a child logger that tags every entry with a run
// identifier (see internal/orchestrator, which stamps one per run
// with google/uuid).
func (l *Logger) WithRunID(runID string) *Logger {
	return &Logger{zl: l.zl.With().Str("run_id", runID).Logger()}
}

func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
