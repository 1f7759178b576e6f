package person

import (
	"sort"
	"strings"

	"github.com/trezcool/schooldesk/core"
)

// Filter narrows a listing. Blank members match everything.
type Filter struct {
	// Query is searched, ignoring case, in the ID, full name, age, class, section,
	// role and both contacts.
	Query   string
	Class   string
	Section string
}

func (f Filter) clean() Filter {
	return Filter{
		Query:   core.CleanString(f.Query, true /* lower */),
		Class:   core.CleanString(f.Class),
		Section: core.CleanString(f.Section),
	}
}

// match expects a cleaned filter.
func (f Filter) match(kind Kind, row Fields) bool {
	if f.Class != "" && strings.TrimSpace(row[FieldClass]) != f.Class {
		return false
	}
	if f.Section != "" && strings.TrimSpace(row[FieldSection]) != f.Section {
		return false
	}
	if f.Query == "" {
		return true
	}
	blob := strings.Join([]string{
		row[kind.IDField()],
		fullName(row),
		row[FieldAge],
		row[FieldClass],
		row[FieldSection],
		row[FieldRole],
		row[FieldPrimaryContact],
		row[FieldSecondaryContact],
	}, " ")
	return strings.Contains(strings.ToLower(blob), f.Query)
}

// Search returns the raw rows of kind matching f, sorted by ID.
func (svc *Service) Search(kind Kind, f Filter) ([]Fields, error) {
	rows, err := svc.List(kind)
	if err != nil {
		return nil, err
	}
	f = f.clean()
	out := rows[:0]
	for _, row := range rows {
		if f.match(kind, row) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (svc *Service) SearchStudents(f Filter) ([]Student, error) {
	rows, err := svc.Search(KindStudent, f)
	if err != nil {
		return nil, err
	}
	students := make([]Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, StudentFromFields(row))
	}
	return students, nil
}

func (svc *Service) SearchTeachers(f Filter) ([]Teacher, error) {
	rows, err := svc.Search(KindTeacher, f)
	if err != nil {
		return nil, err
	}
	teachers := make([]Teacher, 0, len(rows))
	for _, row := range rows {
		teachers = append(teachers, TeacherFromFields(row))
	}
	return teachers, nil
}

// ClassCount is the number of students in one class.
type ClassCount struct {
	Class    string `json:"class"`
	Students int    `json:"students"`
}

// ClassCounts counts students per class, sorted by class. Students without a class
// are counted under "".
func (svc *Service) ClassCounts() ([]ClassCount, error) {
	rows, err := svc.List(KindStudent)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, row := range rows {
		counts[strings.TrimSpace(row[FieldClass])]++
	}
	out := make([]ClassCount, 0, len(counts))
	for class, n := range counts {
		out = append(out, ClassCount{Class: class, Students: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Class < out[j].Class })
	return out, nil
}
