package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// defaultConsoleWriter returns a colorable stdout writer, matching
// go-ethereum's use of mattn/go-colorable so ANSI color codes work on
// Windows consoles too.
func defaultConsoleWriter() io.Writer {
	return colorable.NewColorableStdout()
}

// DefaultConsoleWriter exposes defaultConsoleWriter to callers (e.g.
// cmd/fiberctl) building their own handler chain instead of taking the
// package default logger as-is.
func DefaultConsoleWriter() io.Writer {
	return defaultConsoleWriter()
}

var levelColor = map[slog.Level]*color.Color{
	slog.LevelDebug: color.New(color.FgHiBlack),
	slog.LevelInfo:  color.New(color.FgCyan),
	slog.LevelWarn:  color.New(color.FgYellow),
	slog.LevelError: color.New(color.FgRed, color.Bold),
}

// consoleHandler renders slog.Record as "LEVEL [HH:MM:SS.mmm] msg k=v ...",
// colorizing the level when the destination is a real terminal, matching
// the terse single-line format go-ethereum's own terminal handler uses.
type consoleHandler struct {
	w      io.Writer
	level  slog.Leveler
	color  bool
	attrs  []slog.Attr
	groups []string
}

// NewConsoleHandler returns a slog.Handler that writes one colorized line
// per record to w. When w is an *os.File, color is force-disabled unless
// that file is a TTY (checked once, at construction, via mattn/go-isatty),
// so piping stdout to a file never embeds escape codes. Any other writer
// keeps the color setting as passed.
func NewConsoleHandler(w io.Writer, level slog.Leveler, color bool) slog.Handler {
	if f, ok := w.(*os.File); ok {
		color = color && isatty.IsTerminal(f.Fd())
	}
	return &consoleHandler{w: w, level: level, color: color}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.level != nil {
		min = h.level.Level()
	}
	return level >= min
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	levelStr := r.Level.String()
	if h.color {
		if c, ok := levelColor[r.Level]; ok {
			levelStr = c.Sprint(levelStr)
		}
	}

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	fmt.Fprintf(h.w, "%-5s [%s] %s", levelStr, ts.Format("15:04:05.000"), r.Message)

	for _, a := range h.attrs {
		fmt.Fprintf(h.w, " %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(h.w, " %s=%v", a.Key, a.Value)
		return true
	})
	fmt.Fprintln(h.w)
	return nil
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	next := *h
	next.groups = append(append([]string{}, h.groups...), name)
	return &next
}

// NewFileHandler returns a JSON slog.Handler writing to a
// gopkg.in/natefinch/lumberjack.v2 rotating sink — the same rotation
// library go-ethereum's log package offers for --log.file. maxSizeMB,
// maxBackups and maxAgeDays mirror lumberjack's own field names.
func NewFileHandler(path string, maxSizeMB, maxBackups, maxAgeDays int, level slog.Leveler) slog.Handler {
	sink := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}
	return slog.NewJSONHandler(sink, &slog.HandlerOptions{Level: level})
}

// FanoutHandler dispatches every record to each of its handlers, in order,
// returning the first error encountered (if any) but still attempting the
// rest — matching the "log to console and file at once" use case in
// spec.md's ambient logging section.
type FanoutHandler struct {
	handlers []slog.Handler
}

// NewFanoutHandler returns a handler that forwards to every one of handlers.
func NewFanoutHandler(handlers ...slog.Handler) *FanoutHandler {
	return &FanoutHandler{handlers: handlers}
}

func (f *FanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *FanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range f.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f *FanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &FanoutHandler{handlers: next}
}

func (f *FanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithGroup(name)
	}
	return &FanoutHandler{handlers: next}
}
