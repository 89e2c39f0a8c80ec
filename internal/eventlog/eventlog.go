// Package eventlog implements the EventLogger collaborator contract (§6.3):
// a best-effort structured-event sink over log/slog that never surfaces an
// error to its caller, matching the teacher's "never log to stderr, it leaks
// through the TUI" discipline.
package eventlog

import "log/slog"

// Event is one structured log line: a short event name plus key/value
// attributes. Fields is passed straight through to slog, so values must be
// slog-loggable (strings, numbers, bools, time.Duration, error, etc).
type Event struct {
	Name   string
	Fields []any
}

// EventLogger appends events best-effort; it never returns an error.
type EventLogger interface {
	Log(e Event)
}

// Slog backs EventLogger with a *slog.Logger.
type Slog struct {
	logger *slog.Logger
}

// New wraps logger as an EventLogger.
func New(logger *slog.Logger) Slog {
	return Slog{logger: logger}
}

// Log appends e at Info level. slog itself never returns an error from
// Logger.Log, so this satisfies the "never fails the caller" contract
// without any recover/catch machinery.
func (s Slog) Log(e Event) {
	if s.logger == nil {
		return
	}
	s.logger.Info(e.Name, e.Fields...)
}
