package workbook

import (
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/schooldesk/core"
	"github.com/trezcool/schooldesk/storage/sheet"
)

// Session owns the cached document. Operations are serialized: one writer per process.
type Session struct {
	backend  Backend
	attempts int
	log      core.Logger

	mu     sync.Mutex
	doc    *sheet.Document
	synced time.Time // backend modification time after our last load or save
}

func NewSession(backend Backend, attempts int, log core.Logger) *Session {
	if attempts < 1 {
		attempts = 1
	}
	if log == nil {
		log = core.NopLogger{}
	}
	return &Session{backend: backend, attempts: attempts, log: log}
}

func (s *Session) Backend() Backend { return s.backend }

// Invalidate drops the cache; the next operation reloads from the backend.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = nil
}

// SyncedAt returns the backend modification time seen after the last load or save.
func (s *Session) SyncedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.synced
}

// View runs fn against the cached document. fn must not modify it or keep references into it.
func (s *Session) View(fn func(doc *sheet.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(false)
	if err != nil {
		return err
	}
	return fn(doc)
}

// Update runs fn against a working copy of the document. When fn reports a change the
// copy is saved and becomes the cache; on any failure the cache is left untouched.
func (s *Session) Update(fn func(doc *sheet.Document) (changed bool, err error)) error {
	return s.update(false, fn)
}

// UpdateOrCreate is Update starting from an empty document when none exists yet.
func (s *Session) UpdateOrCreate(fn func(doc *sheet.Document) (changed bool, err error)) error {
	return s.update(true, fn)
}

func (s *Session) update(create bool, fn func(doc *sheet.Document) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(create)
	if err != nil {
		return err
	}
	work := doc.Clone()
	changed, err := fn(work)
	if err != nil || !changed {
		return err
	}
	if err := s.save(work); err != nil {
		return err
	}
	s.doc = work
	return nil
}

// load returns the cache, reading the backend on a miss. Callers hold the lock.
func (s *Session) load(create bool) (*sheet.Document, error) {
	if s.doc != nil {
		return s.doc, nil
	}

	var err error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		var doc *sheet.Document
		if doc, err = s.backend.Load(); err == nil {
			s.doc = doc
			s.markSynced()
			return doc, nil
		}
		if errors.Is(err, os.ErrNotExist) {
			if create {
				return sheet.NewDocument(), nil
			}
			break
		}
		s.log.Warn("loading workbook failed", map[string]interface{}{"path": s.backend.Path(), "attempt": attempt}, err)
	}
	return nil, core.NewPersistenceError("load", s.backend.Path(), err)
}

func (s *Session) save(doc *sheet.Document) error {
	var err error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if err = s.backend.Save(doc); err == nil {
			s.markSynced()
			return nil
		}
		s.log.Warn("saving workbook failed", map[string]interface{}{"path": s.backend.Path(), "attempt": attempt}, err)
	}
	return core.NewPersistenceError("save", s.backend.Path(), err)
}

func (s *Session) markSynced() {
	if mt, err := s.backend.ModTime(); err == nil {
		s.synced = mt
	}
}
