package workbook

import (
	"strings"

	"github.com/trezcool/schooldesk/core"
	"github.com/trezcool/schooldesk/core/person"
	"github.com/trezcool/schooldesk/storage/sheet"
)

func peopleTable(kind person.Kind) (string, error) {
	switch kind {
	case person.KindStudent:
		return sheet.StudentsTable, nil
	case person.KindTeacher:
		return sheet.TeachersTable, nil
	}
	return "", person.ErrUnknownKind
}

// ListPeople returns the rows with a non-blank ID, in sheet order.
func (st *Store) ListPeople(kind person.Kind) ([]person.Fields, error) {
	name, err := peopleTable(kind)
	if err != nil {
		return nil, err
	}
	idField := kind.IDField()
	var people []person.Fields
	err = st.session.View(func(doc *sheet.Document) error {
		for _, f := range records(doc, name) {
			if strings.TrimSpace(f[idField]) == "" {
				continue
			}
			people = append(people, person.Fields(f))
		}
		return nil
	})
	return people, err
}

// UpsertPerson inserts a row, or overwrites the given fields of the row with the same ID.
func (st *Store) UpsertPerson(kind person.Kind, fields person.Fields) error {
	name, err := peopleTable(kind)
	if err != nil {
		return err
	}
	idField := kind.IDField()
	id := fields[idField]
	if strings.TrimSpace(id) == "" {
		return core.NewValidationError(nil, core.FieldError{Field: idField, Error: "this field is required"})
	}

	return st.session.Update(func(doc *sheet.Document) (bool, error) {
		t, err := mustTable(doc, name)
		if err != nil {
			return false, err
		}
		now := nowFunc()
		if row := sheet.IndexBy(t, idField).Lookup(id); row >= 0 {
			t.Rows[row] = sheet.EncodeRow(t.Header(), sheet.Fields(fields), t.Rows[row], now)
		} else {
			t.Append(sheet.EncodeRow(t.Header(), sheet.Fields(fields), nil, now))
		}
		return true, nil
	})
}

// InsertPerson appends a row, allocating the next ID against the working copy when the
// given one is blank, so concurrent creates never share an ID.
func (st *Store) InsertPerson(kind person.Kind, prefix string, fields person.Fields) (person.Fields, error) {
	name, err := peopleTable(kind)
	if err != nil {
		return nil, err
	}
	idField := kind.IDField()
	var stored person.Fields
	err = st.session.Update(func(doc *sheet.Document) (bool, error) {
		t, err := mustTable(doc, name)
		if err != nil {
			return false, err
		}
		idx := sheet.IndexBy(t, idField)
		row := sheet.Fields(fields).Copy()
		if id := strings.TrimSpace(row[idField]); id == "" {
			ids := make([]string, 0, len(idx))
			for k := range idx {
				ids = append(ids, k)
			}
			row[idField] = person.NextID(prefix, ids)
		} else if idx.Lookup(id) >= 0 {
			return false, person.ErrIDExists
		}

		cells := sheet.EncodeRow(t.Header(), row, nil, nowFunc())
		t.Append(cells)
		stored = decodePerson(t.Header(), cells)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// UpdatePerson overwrites the given fields of the row with the ID. A missing row is
// not re-created.
func (st *Store) UpdatePerson(kind person.Kind, id string, fields person.Fields) (person.Fields, error) {
	name, err := peopleTable(kind)
	if err != nil {
		return nil, err
	}
	idField := kind.IDField()
	var stored person.Fields
	err = st.session.Update(func(doc *sheet.Document) (bool, error) {
		t, ok := doc.Table(name)
		if !ok {
			return false, person.ErrNotFound
		}
		i := sheet.IndexBy(t, idField).Lookup(id)
		if i < 0 {
			return false, person.ErrNotFound
		}
		row := sheet.Fields(fields).Copy()
		row[idField] = id
		t.Rows[i] = sheet.EncodeRow(t.Header(), row, t.Rows[i], nowFunc())
		stored = decodePerson(t.Header(), t.Rows[i])
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func decodePerson(header, cells []string) person.Fields {
	f, _ := sheet.DecodeRow(header, cells)
	return person.Fields(f)
}

// DeletePerson removes the row with the ID. Nothing is saved when there is none.
func (st *Store) DeletePerson(kind person.Kind, id string) (bool, error) {
	name, err := peopleTable(kind)
	if err != nil {
		return false, err
	}
	var deleted bool
	err = st.session.Update(func(doc *sheet.Document) (bool, error) {
		t, ok := doc.Table(name)
		if !ok {
			return false, nil
		}
		row := sheet.IndexBy(t, kind.IDField()).Lookup(id)
		if row < 0 {
			return false, nil
		}
		t.DeleteRow(row)
		deleted = true
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// Convenience wrappers named after the operations of the record store.

func (st *Store) ListStudents() ([]person.Fields, error) { return st.ListPeople(person.KindStudent) }
func (st *Store) ListTeachers() ([]person.Fields, error) { return st.ListPeople(person.KindTeacher) }

func (st *Store) UpsertStudent(fields person.Fields) error {
	return st.UpsertPerson(person.KindStudent, fields)
}

func (st *Store) UpsertTeacher(fields person.Fields) error {
	return st.UpsertPerson(person.KindTeacher, fields)
}

func (st *Store) DeleteStudent(id string) (bool, error) {
	return st.DeletePerson(person.KindStudent, id)
}

func (st *Store) DeleteTeacher(id string) (bool, error) {
	return st.DeletePerson(person.KindTeacher, id)
}
