package logsvc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/schooldesk/core"
)

// FileLogger appends warnings and errors to a text file, one entry per call,
// with the stack trace of wrapped errors. The file is opened per entry so it is
// never held open between failures.
type FileLogger struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

var _ core.Logger = (*FileLogger)(nil)

func NewFileLogger(path string) *FileLogger {
	return &FileLogger{path: path, now: time.Now}
}

func (l *FileLogger) Path() string { return l.path }

func (l *FileLogger) write(level, msg string, args []interface{}) {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s: %s\n", l.now().Format("2006-01-02T15:04:05"), level, msg)
	for _, arg := range args {
		fmt.Fprintf(&b, "%+v\n", arg)
	}
	b.WriteString("\n")

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.append(b.String()); err != nil {
		fmt.Fprintf(os.Stderr, "error log unavailable: %v\n%s", err, b.String())
	}
}

func (l *FileLogger) append(entry string) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return errors.WithStack(err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.WithStack(err)
	}
	if _, err := f.WriteString(entry); err != nil {
		f.Close()
		return errors.WithStack(err)
	}
	return f.Close()
}

func (l *FileLogger) Debug(string, ...interface{}) {}
func (l *FileLogger) Info(string, ...interface{})  {}

func (l *FileLogger) Warn(msg string, args ...interface{})  { l.write("WARN", msg, args) }
func (l *FileLogger) Error(msg string, args ...interface{}) { l.write("ERROR", msg, args) }

func (l *FileLogger) Fatal(msg string, args ...interface{}) {
	l.write("FATAL", msg, args)
	exitFunc(1)
}
