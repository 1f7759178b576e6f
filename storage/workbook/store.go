package workbook

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/schooldesk/core/activity"
	"github.com/trezcool/schooldesk/core/payment"
	"github.com/trezcool/schooldesk/core/person"
	"github.com/trezcool/schooldesk/storage/sheet"
)

// nowFunc stamps created_at and updated_at; replaced in tests.
var nowFunc = time.Now

// ErrMissingTable means the workbook was not set up with EnsureWorkbook.
var ErrMissingTable = errors.New("workbook table missing")

// Store implements the person, payment and activity repositories on top of a Session.
type Store struct {
	session *Session
}

var (
	// interface compliance checks
	_ person.Repository   = (*Store)(nil)
	_ payment.Repository  = (*Store)(nil)
	_ activity.Repository = (*Store)(nil)
)

func NewStore(session *Session) *Store {
	return &Store{session: session}
}

func (st *Store) Session() *Session { return st.session }

// InvalidateCache makes the next operation reload the workbook.
func (st *Store) InvalidateCache() {
	st.session.Invalidate()
}

type tableSpec struct {
	name    string
	columns []string
}

func tableSpecs(studentCustom, teacherCustom []string) []tableSpec {
	return []tableSpec{
		{sheet.StudentsTable, sheet.StudentColumns(studentCustom)},
		{sheet.TeachersTable, sheet.TeacherColumns(teacherCustom)},
		{sheet.StudentPaymentsTable, sheet.PaymentColumns(sheet.StudentIDColumn)},
		{sheet.TeacherPaymentsTable, sheet.PaymentColumns(sheet.TeacherIDColumn)},
		{sheet.ActivityTable, sheet.ActivityColumns()},
	}
}

// EnsureWorkbook creates the workbook when missing and repairs the headers of every
// known table. Other sheets are left alone. The workbook is saved only when something changed.
func (st *Store) EnsureWorkbook(studentCustom, teacherCustom []string) ([]sheet.Repair, error) {
	var repairs []sheet.Repair
	err := st.session.UpdateOrCreate(func(doc *sheet.Document) (bool, error) {
		repairs = repairs[:0]
		var changed bool
		for _, spec := range tableSpecs(studentCustom, teacherCustom) {
			rep := sheet.RepairTable(doc.EnsureTable(spec.name), spec.columns)
			changed = changed || rep.Changed()
			repairs = append(repairs, rep)
		}
		return changed, nil
	})
	if err != nil {
		return nil, err
	}
	return repairs, nil
}

// Check reports the repairs EnsureWorkbook would make, without saving.
func (st *Store) Check(studentCustom, teacherCustom []string) ([]sheet.Repair, error) {
	var repairs []sheet.Repair
	err := st.session.View(func(doc *sheet.Document) error {
		doc = doc.Clone()
		for _, spec := range tableSpecs(studentCustom, teacherCustom) {
			repairs = append(repairs, sheet.RepairTable(doc.EnsureTable(spec.name), spec.columns))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return repairs, nil
}

// records decodes the non-blank data rows of the named table; a missing table has none.
func records(doc *sheet.Document, name string) []sheet.Fields {
	t, ok := doc.Table(name)
	if !ok {
		return nil
	}
	header := t.Header()
	var out []sheet.Fields
	for _, row := range t.Records() {
		if f, ok := sheet.DecodeRow(header, row); ok {
			out = append(out, f)
		}
	}
	return out
}

func mustTable(doc *sheet.Document, name string) (*sheet.Table, error) {
	t, ok := doc.Table(name)
	if !ok || len(t.Header()) == 0 {
		return nil, errors.Wrap(ErrMissingTable, name)
	}
	return t, nil
}
