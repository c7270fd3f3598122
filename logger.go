package fast3d

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/fast3d/program"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

// sinks are the backends of open contexts that accept a logger.
var (
	sinksMu sync.Mutex
	sinks   = make(map[loggerSetter]int)
)

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the logger for fast3d and its sub-packages.
// By default, fast3d produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by fast3d:
//   - [slog.LevelDebug]: generated sources, cache misses, framebuffer reallocation
//   - [slog.LevelInfo]: backend initialization
//   - [slog.LevelWarn]: optimized-out attributes, incomplete framebuffers
//   - [slog.LevelError]: shader compile and link failures
//
// Example:
//
//	// Enable debug-level logging for full diagnostics:
//	fast3d.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	program.SetLogger(l)

	sinksMu.Lock()
	defer sinksMu.Unlock()
	for s := range sinks {
		s.SetLogger(l)
	}
}

// Logger returns the current logger used by fast3d.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by backends that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// attachLogger hands the current logger to b and keeps b updated by later
// SetLogger calls until detachLogger.
func attachLogger(b any) {
	ls, ok := b.(loggerSetter)
	if !ok {
		return
	}
	ls.SetLogger(Logger())
	sinksMu.Lock()
	sinks[ls]++
	sinksMu.Unlock()
}

func detachLogger(b any) {
	ls, ok := b.(loggerSetter)
	if !ok {
		return
	}
	sinksMu.Lock()
	defer sinksMu.Unlock()
	if sinks[ls]--; sinks[ls] <= 0 {
		delete(sinks, ls)
	}
}
