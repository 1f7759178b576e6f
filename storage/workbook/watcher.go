package workbook

import (
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Watcher detects edits made to the workbook by other programs.
// Polling is left to the caller (see the admin watch command).
type Watcher struct {
	backend  Backend
	session  *Session
	onChange func()

	mu   sync.Mutex
	last time.Time
	seen bool
}

func NewWatcher(backend Backend, session *Session, onChange func()) *Watcher {
	return &Watcher{backend: backend, session: session, onChange: onChange}
}

// Check compares the modification time with the last one seen. On a change made
// outside the session the cache is dropped and onChange called.
// The first call only records a baseline. A missing workbook is not a change.
func (w *Watcher) Check() (bool, error) {
	mt, err := w.backend.ModTime()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, errors.Wrap(err, "reading workbook modification time")
	}

	w.mu.Lock()
	first := !w.seen
	changed := w.seen && !mt.Equal(w.last)
	w.last, w.seen = mt, true
	w.mu.Unlock()

	if first || !changed || mt.Equal(w.session.SyncedAt()) { // our own save
		return false, nil
	}
	w.session.Invalidate()
	if w.onChange != nil {
		w.onChange()
	}
	return true, nil
}
