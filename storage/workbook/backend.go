// Package workbook persists the school records as one spreadsheet document.
// Every mutation rewrites the whole document.
package workbook

import (
	"time"

	"github.com/trezcool/schooldesk/storage/sheet"
)

// Backend loads and saves whole documents.
// Load reports a missing document with an error matching os.ErrNotExist.
type Backend interface {
	Load() (*sheet.Document, error)
	Save(doc *sheet.Document) error
	ModTime() (time.Time, error)
	Path() string
}
