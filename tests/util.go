package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/trezcool/schooldesk/apps/shared"
	"github.com/trezcool/schooldesk/core"
	"github.com/trezcool/schooldesk/core/person"
	"github.com/trezcool/schooldesk/storage/sheet"
	"github.com/trezcool/schooldesk/storage/workbook"
)

// NewApp wires an app on an in-memory workbook holding doc (nothing saved when nil)
// and a settings file in a temp dir.
func NewApp(t *testing.T, doc *sheet.Document, logger core.Logger) (*shared.App, *workbook.MemoryBackend) {
	backend := workbook.NewMemoryBackend(doc)
	app, err := shared.NewAppWith(shared.Options{
		Conf:     &core.Config{IOAttempts: 1, WatchInterval: 2 * time.Second},
		Backend:  backend,
		Settings: core.NewSettingsStore(filepath.Join(t.TempDir(), "settings.json")),
		Logger:   logger,
	})
	if err != nil {
		t.Fatalf("NewApp() failed: %v", err)
	}
	return app, backend
}

// NewEnsuredApp is NewApp on a workbook with every sheet set up.
func NewEnsuredApp(t *testing.T, logger core.Logger) (*shared.App, *workbook.MemoryBackend) {
	app, backend := NewApp(t, sheet.NewDocument(), logger)
	if _, err := app.Ensure(); err != nil {
		t.Fatalf("Ensure() failed: %v", err)
	}
	return app, backend
}

// CreateStudent adds a student with the next generated ID.
func CreateStudent(t *testing.T, app *shared.App, first, last string) string {
	st, err := app.People.CreateStudent(person.NewStudent{FirstName: first, LastName: last})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return st.ID
}
