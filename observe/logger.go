package observe

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Logger is the structured logging surface used by the resilience layer.
// Implementations must be safe for concurrent use and must never panic.
type Logger interface {
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
	Debug(ctx context.Context, msg string, fields ...Field)
	WithRequest(meta RequestMeta) Logger
}

// Field is a structured log field.
type Field struct {
	Key   string
	Value any
}

// Field keys whose values never reach the log stream. Matching ignores case.
var redactedKeys = []string{
	"authorization",
	"body",
	"fallback",
	"password",
	"secret",
	"token",
	"api_key",
	"apikey",
	"credential",
}

const redactedValue = "[REDACTED]"

// ParseLogLevel maps a level name to a slog.Level. Unknown names map to info.
func ParseLogLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

type slogLogger struct {
	l *slog.Logger
}

// NewLogger writes JSON lines to stderr.
func NewLogger(level string) Logger {
	return NewLoggerWithWriter(level, os.Stderr)
}

// NewLoggerWithWriter writes JSON lines to w.
func NewLoggerWithWriter(level string, w io.Writer) Logger {
	return NewSlogLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLogLevel(level),
	}))
}

// NewConsoleLogger writes colored, human-readable lines to w.
func NewConsoleLogger(level string, w io.Writer) Logger {
	return NewSlogLogger(tint.NewHandler(w, &tint.Options{
		Level:      ParseLogLevel(level),
		TimeFormat: time.RFC3339,
	}))
}

// NewSlogLogger adapts h. Sensitive fields are redacted before h sees them.
func NewSlogLogger(h slog.Handler) Logger {
	if h == nil {
		return NoopLogger()
	}
	return &slogLogger{l: slog.New(h)}
}

// WithRequest returns a child logger that tags every line with meta.
func (l *slogLogger) WithRequest(meta RequestMeta) Logger {
	return &slogLogger{l: l.l.With(meta.logArgs()...)}
}

func (l *slogLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, slog.LevelInfo, msg, fields)
}

func (l *slogLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, slog.LevelWarn, msg, fields)
}

func (l *slogLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, slog.LevelError, msg, fields)
}

func (l *slogLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, slog.LevelDebug, msg, fields)
}

func (l *slogLogger) log(ctx context.Context, level slog.Level, msg string, fields []Field) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.l.Enabled(ctx, level) {
		return
	}

	attrs := make([]slog.Attr, 0, len(fields))
	for _, f := range fields {
		if slices.Contains(redactedKeys, strings.ToLower(f.Key)) {
			attrs = append(attrs, slog.String(f.Key, redactedValue))
			continue
		}
		attrs = append(attrs, slog.Any(f.Key, f.Value))
	}
	l.l.LogAttrs(ctx, level, msg, attrs...)
}

type noopLogger struct{}

// NoopLogger returns a logger that discards everything.
func NoopLogger() Logger { return noopLogger{} }

func (noopLogger) Info(context.Context, string, ...Field)  {}
func (noopLogger) Warn(context.Context, string, ...Field)  {}
func (noopLogger) Error(context.Context, string, ...Field) {}
func (noopLogger) Debug(context.Context, string, ...Field) {}
func (l noopLogger) WithRequest(RequestMeta) Logger        { return l }

var (
	_ Logger = (*slogLogger)(nil)
	_ Logger = noopLogger{}
)
