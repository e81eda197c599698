package filters

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called while a host is rendering on another goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger used by filters and the bundled hosts.
// By default nothing is logged. Pass nil to restore the silent default.
//
// Log levels:
//   - [slog.LevelDebug]: program compilation, pipeline creation, pool traffic
//   - [slog.LevelWarn]: deprecated constructor forms, CPU passes without a raster kernel
//
// Example:
//
//	filters.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Host packages call this so they share
// one configuration with the filters.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// deprecationsSeen records which deprecation notices were already emitted.
var deprecationsSeen sync.Map

// deprecate emits a deprecation notice once per key. The notice is
// informational only and never changes behavior.
func deprecate(key, msg string) {
	if _, loaded := deprecationsSeen.LoadOrStore(key, struct{}{}); loaded {
		return
	}
	Logger().Warn(msg, "deprecated", key)
}
