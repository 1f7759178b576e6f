package workbook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/schooldesk/core"
	"github.com/trezcool/schooldesk/core/person"
	"github.com/trezcool/schooldesk/storage/sheet"
)

func TestXLSXBackend_roundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "school_data.xlsx")
	backend := NewXLSXBackend(path)

	_, err := backend.Load()
	assert.True(t, os.IsNotExist(err))

	doc := sheet.NewDocument(
		sheet.NewTable(sheet.StudentsTable,
			sheet.StudentColumns(nil),
			[]string{"STU-0001", "Ann", "Lee", "12", "5", "B", "+1234567890", "", "2026-03-01T08:00:00", "2026-03-01T08:00:00"},
		),
		sheet.NewTable(sheet.StudentPaymentsTable,
			sheet.PaymentColumns(sheet.StudentIDColumn),
			[]string{"STU-0001", "2026", "3", "Paid", "500.5", "2026-03-01T08:00:00"},
		),
		sheet.NewTable("notes"),
	)
	require.NoError(t, backend.Save(doc))

	loaded, err := backend.Load()
	require.NoError(t, err)
	students, ok := loaded.Table(sheet.StudentsTable)
	require.True(t, ok)
	assert.Equal(t, doc.Tables()[0].Rows, students.Rows)
	payments, _ := loaded.Table(sheet.StudentPaymentsTable)
	assert.Equal(t, doc.Tables()[1].Rows, payments.Rows)
	_, ok = loaded.Table("notes")
	assert.True(t, ok)

	mt, err := backend.ModTime()
	require.NoError(t, err)
	assert.False(t, mt.IsZero())
}

func TestXLSXBackend_numericCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "school_data.xlsx")
	doc := sheet.NewDocument(sheet.NewTable(sheet.StudentPaymentsTable,
		sheet.PaymentColumns(sheet.StudentIDColumn),
		[]string{"STU-0001", "2026", "3", "Paid", "500", ""},
		[]string{"STU-0002", "2026", "n/a", "Paid", "", ""},
	))
	require.NoError(t, NewXLSXBackend(path).Save(doc))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	typ, err := f.GetCellType(sheet.StudentPaymentsTable, "B2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ, "year is a number")
	typ, err = f.GetCellType(sheet.StudentPaymentsTable, "A2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeNumber, typ, "ids stay text")
	v, err := f.GetCellValue(sheet.StudentPaymentsTable, "C3")
	require.NoError(t, err)
	assert.Equal(t, "n/a", v)
}

func TestXLSXBackend_withStore(t *testing.T) {
	fakeClock(t)
	path := filepath.Join(t.TempDir(), "school_data.xlsx")
	store := NewStore(NewSession(NewXLSXBackend(path), 3, core.NopLogger{}))

	_, err := store.EnsureWorkbook([]string{"blood_group"}, nil)
	require.NoError(t, err)
	require.NoError(t, store.UpsertStudent(person.Fields{"student_id": "STU-0001", "first_name": "Ann", "blood_group": "O+"}))

	reopened := NewStore(NewSession(NewXLSXBackend(path), 3, nil))
	students, err := reopened.ListStudents()
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "O+", students[0]["blood_group"])

	repairs, err := reopened.EnsureWorkbook([]string{"blood_group"}, nil)
	require.NoError(t, err)
	for _, rep := range repairs {
		assert.False(t, rep.Changed(), rep.Table)
	}
}

func TestXLSXBackend_corruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "school_data.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0o644))

	store := NewStore(NewSession(NewXLSXBackend(path), 2, nil))
	_, err := store.ListStudents()
	assert.True(t, core.IsPersistence(err))
}
