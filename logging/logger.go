// Package logging wraps log/slog the way go-ethereum's log package wraps a
// slog.Handler: a package-level default logger, With(...) for contextual
// loggers keyed by node id / queue generation, and handlers that can fan
// out to a colorized console and a rotating file sink (see handler.go).
package logging

import (
	"context"
	"log/slog"
)

// Logger is a thin wrapper over *slog.Logger. It exists so callers depend
// on this package's surface rather than log/slog directly, matching
// go-ethereum's own Logger abstraction over its handler chain.
type Logger struct {
	s *slog.Logger
}

// New returns a Logger backed by handler.
func New(handler slog.Handler) Logger {
	return Logger{s: slog.New(handler)}
}

// With returns a Logger whose every record carries args in addition to
// l's, e.g. logging.Default().With("node", id.String()).
func (l Logger) With(args ...any) Logger {
	return Logger{s: l.s.With(args...)}
}

func (l Logger) Debug(msg string, args ...any) { l.s.Debug(msg, args...) }
func (l Logger) Info(msg string, args ...any)  { l.s.Info(msg, args...) }
func (l Logger) Warn(msg string, args ...any)  { l.s.Warn(msg, args...) }
func (l Logger) Error(msg string, args ...any) { l.s.Error(msg, args...) }

// Enabled reports whether a record at level would be emitted, letting
// callers skip building expensive arguments (e.g. a call-site stack) when
// nothing will read them.
func (l Logger) Enabled(ctx context.Context, level slog.Level) bool {
	return l.s.Enabled(ctx, level)
}

// Slog returns the underlying *slog.Logger, for callers that want the full
// log/slog API (e.g. LogAttrs).
func (l Logger) Slog() *slog.Logger { return l.s }

// ParseLevel maps a config string ("debug", "info", "warn", "error") to a
// slog.Level, defaulting to Info for anything unrecognized.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var defaultLogger Logger

func init() {
	defaultLogger = New(NewConsoleHandler(defaultConsoleWriter(), slog.LevelInfo, true))
}

// Default returns the package-level default Logger.
func Default() Logger { return defaultLogger }

// SetDefault replaces the package-level default Logger, mirroring
// go-ethereum's log.SetDefault.
func SetDefault(l Logger) { defaultLogger = l }

func Debug(msg string, args ...any) { defaultLogger.Debug(msg, args...) }
func Info(msg string, args ...any)  { defaultLogger.Info(msg, args...) }
func Warn(msg string, args ...any)  { defaultLogger.Warn(msg, args...) }
func Error(msg string, args ...any) { defaultLogger.Error(msg, args...) }
