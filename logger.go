package arbor

import (
	"context"
	"log/slog"
)

// nopHandler discards every record. Enabled reports false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// logger is the package logger. arbor is single-threaded, so a plain
// variable is enough.
var logger = slog.New(nopHandler{})

// SetLogger configures the logger used by arbor. By default arbor produces
// no log output. Pass nil to restore the silent default.
//
// Levels used:
//   - [slog.LevelDebug]: per-frame statistics (debug mode only)
//   - [slog.LevelInfo]: lifecycle events (window opened, shader reloaded)
//   - [slog.LevelWarn]: resource errors (shader compile, texture load)
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	logger = l
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return logger
}
