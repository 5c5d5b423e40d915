// Package obslog wraps log/slog into the handful of structured logging
// call sites the rest of the module needs, following cmd/tvarr/cmd
// root.go's level-string and format-string parsing in the teacher's
// example pack.
package obslog

import (
	"log/slog"
	"os"
	"strings"
)

// Logger is a thin, domain-specific facade over *slog.Logger: it names
// the handful of events the scheduler actually logs,
// so call sites read as what happened rather than a raw slog.Attr
// list assembled inline.
type Logger struct {
	*slog.Logger
}

// New builds a Logger writing to w (os.Stderr if nil) at the given
// level ("debug", "info", "warn", "error", case-insensitive, "info" on
// anything else) in the given format ("json" or "text", "text" on
// anything else), matching initLogging's switch in the teacher's
// example pack.
func New(level, format string, w *os.File) *Logger {
	if w == nil {
		w = os.Stderr
	}

	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// Nop returns a Logger that discards everything, for callers that
// never configured one (every Player method that logs is expected to
// work against a nil *Logger too, via the nil-receiver methods below).
func Nop() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(discard{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// StructuralError logs a fatal container/codec structural failure:
// the caller is about to return err to its own caller.
func (l *Logger) StructuralError(op string, err error) {
	if l == nil {
		return
	}
	l.Error("structural error", "op", op, "err", err)
}

// AbsorbedDecodeError logs a per-packet decode failure the scheduler
// is absorbing (§7: the loop moves on to the next frame rather than
// failing the whole DecodeFrame call).
func (l *Logger) AbsorbedDecodeError(op string, err error) {
	if l == nil {
		return
	}
	l.Warn("decode error absorbed, continuing", "op", op, "err", err)
}

// SchedulerDecision logs a scheduler-internal bookkeeping event at
// Debug level; scheduler.Player logs frame_delay learning through it.
func (l *Logger) SchedulerDecision(msg string, args ...any) {
	if l == nil {
		return
	}
	l.Debug(msg, args...)
}
