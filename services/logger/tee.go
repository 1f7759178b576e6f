package logsvc

import "github.com/trezcool/schooldesk/core"

// Tee sends every entry to each of its loggers.
type Tee []core.Logger

var _ core.Logger = Tee(nil)

type flusher interface {
	Flush()
}

func (t Tee) Debug(msg string, args ...interface{}) {
	for _, l := range t {
		l.Debug(msg, args...)
	}
}

func (t Tee) Info(msg string, args ...interface{}) {
	for _, l := range t {
		l.Info(msg, args...)
	}
}

func (t Tee) Warn(msg string, args ...interface{}) {
	for _, l := range t {
		l.Warn(msg, args...)
	}
}

func (t Tee) Error(msg string, args ...interface{}) {
	for _, l := range t {
		l.Error(msg, args...)
	}
}

// Fatal logs at error level on every logger, flushes them, then exits.
func (t Tee) Fatal(msg string, args ...interface{}) {
	t.Error(msg, args...)
	for _, l := range t {
		if f, ok := l.(flusher); ok {
			f.Flush()
		}
	}
	exitFunc(1)
}
