package workbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schooldesk/core/person"
	"github.com/trezcool/schooldesk/storage/sheet"
)

func TestWatcher_Check(t *testing.T) {
	store, backend := newTestStore(t)
	var calls int
	w := NewWatcher(backend, store.Session(), func() { calls++ })

	changed, err := w.Check()
	require.NoError(t, err)
	assert.False(t, changed, "first check records a baseline")

	changed, err = w.Check()
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, store.UpsertStudent(person.Fields{"student_id": "STU-0001", "first_name": "Ann"}))
	changed, err = w.Check()
	require.NoError(t, err)
	assert.False(t, changed, "our own saves are not external changes")

	edited := backend.Snapshot()
	students, _ := edited.Table(sheet.StudentsTable)
	students.Append([]string{"STU-0002", "Bob"})
	backend.Replace(edited)

	changed, err = w.Check()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, calls)

	list, err := store.ListStudents()
	require.NoError(t, err)
	assert.Len(t, list, 2, "cache was invalidated")
}

func TestWatcher_missingWorkbook(t *testing.T) {
	backend := NewMemoryBackend(nil)
	w := NewWatcher(backend, NewSession(backend, 1, nil), nil)
	changed, err := w.Check()
	require.NoError(t, err)
	assert.False(t, changed)
}
