// Package logsvc implements core.Logger.
package logsvc

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/trezcool/schooldesk/core"
)

// exitFunc is replaced in tests.
var exitFunc = os.Exit

// ConsoleLogger writes structured logs, human-readable when out is a terminal.
type ConsoleLogger struct {
	zl zerolog.Logger
}

var _ core.Logger = (*ConsoleLogger)(nil)

// NewConsoleLogger logs to os.Stderr at level (debug, info, warn, error; info otherwise).
func NewConsoleLogger(level string) *ConsoleLogger {
	return NewConsoleLoggerTo(os.Stderr, level, term.IsTerminal(int(os.Stderr.Fd())))
}

func NewConsoleLoggerTo(out io.Writer, level string, pretty bool) *ConsoleLogger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	return &ConsoleLogger{zl: zerolog.New(out).Level(lvl).With().Timestamp().Logger()}
}

func (l *ConsoleLogger) log(ev *zerolog.Event, msg string, args []interface{}) {
	for i, arg := range args {
		switch a := arg.(type) {
		case error:
			ev = ev.Err(a)
		case map[string]interface{}:
			ev = ev.Fields(a)
		default:
			ev = ev.Interface("arg"+strconv.Itoa(i), a)
		}
	}
	ev.Msg(msg)
}

func (l *ConsoleLogger) Debug(msg string, args ...interface{}) { l.log(l.zl.Debug(), msg, args) }
func (l *ConsoleLogger) Info(msg string, args ...interface{})  { l.log(l.zl.Info(), msg, args) }
func (l *ConsoleLogger) Warn(msg string, args ...interface{})  { l.log(l.zl.Warn(), msg, args) }
func (l *ConsoleLogger) Error(msg string, args ...interface{}) { l.log(l.zl.Error(), msg, args) }

func (l *ConsoleLogger) Fatal(msg string, args ...interface{}) {
	l.log(l.zl.WithLevel(zerolog.FatalLevel), msg, args)
	exitFunc(1)
}
