package workbook

import (
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/schooldesk/storage/sheet"
)

// MemoryBackend keeps the saved document in memory. Used by tests and dry runs.
type MemoryBackend struct {
	sync.RWMutex
	doc     *sheet.Document
	modTime time.Time
	saves   int

	// failSave, when set, is returned by every Save.
	failSave error
	// saveDelay stretches every Save, as a slow disk would.
	saveDelay time.Duration
}

var _ Backend = (*MemoryBackend)(nil) // interface compliance check

// NewMemoryBackend starts with doc, or with nothing saved when doc is nil.
func NewMemoryBackend(doc *sheet.Document) *MemoryBackend {
	b := &MemoryBackend{}
	if doc != nil {
		b.doc = doc.Clone()
		b.modTime = time.Unix(1, 0)
	}
	return b
}

func (b *MemoryBackend) Path() string { return ":memory:" }

func (b *MemoryBackend) Load() (*sheet.Document, error) {
	b.RLock()
	defer b.RUnlock()
	if b.doc == nil {
		return nil, errors.Wrap(os.ErrNotExist, "memory workbook")
	}
	return b.doc.Clone(), nil
}

func (b *MemoryBackend) Save(doc *sheet.Document) error {
	b.RLock()
	delay := b.saveDelay
	b.RUnlock()
	time.Sleep(delay)

	b.Lock()
	defer b.Unlock()
	if b.failSave != nil {
		return b.failSave
	}
	b.doc = doc.Clone()
	b.saves++
	b.touch()
	return nil
}

func (b *MemoryBackend) ModTime() (time.Time, error) {
	b.RLock()
	defer b.RUnlock()
	if b.doc == nil {
		return time.Time{}, errors.Wrap(os.ErrNotExist, "memory workbook")
	}
	return b.modTime, nil
}

// Replace swaps the stored document as another program editing the file would.
func (b *MemoryBackend) Replace(doc *sheet.Document) {
	b.Lock()
	defer b.Unlock()
	b.doc = doc.Clone()
	b.touch()
}

// Snapshot returns a copy of the stored document, nil when nothing was saved.
func (b *MemoryBackend) Snapshot() *sheet.Document {
	b.RLock()
	defer b.RUnlock()
	if b.doc == nil {
		return nil
	}
	return b.doc.Clone()
}

// Saves counts the successful saves.
func (b *MemoryBackend) Saves() int {
	b.RLock()
	defer b.RUnlock()
	return b.saves
}

// FailSaves makes every Save return err until called again with nil.
func (b *MemoryBackend) FailSaves(err error) {
	b.Lock()
	defer b.Unlock()
	b.failSave = err
}

// DelaySaves makes every Save wait d before storing the document.
func (b *MemoryBackend) DelaySaves(d time.Duration) {
	b.Lock()
	defer b.Unlock()
	b.saveDelay = d
}

// touch advances the modification time; callers hold the lock.
func (b *MemoryBackend) touch() {
	if b.modTime.IsZero() {
		b.modTime = time.Unix(1, 0)
	}
	b.modTime = b.modTime.Add(time.Second)
}
