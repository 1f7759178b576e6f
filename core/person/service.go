package person

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/schooldesk/core"
)

// Activity actions
const (
	ActionAddStudent    = "add_student"
	ActionEditStudent   = "edit_student"
	ActionDeleteStudent = "delete_student"
	ActionAddTeacher    = "add_teacher"
	ActionEditTeacher   = "edit_teacher"
	ActionDeleteTeacher = "delete_teacher"
)

var (
	// errors
	ErrNotFound = errors.New("person not found")
	ErrIDExists = errors.New("a person with this id already exists")
)

type (
	// Repository persists people as raw field maps keyed by their business ID.
	Repository interface {
		ListPeople(kind Kind) ([]Fields, error)
		// InsertPerson adds a row and returns it as stored. A blank ID gets NextID(prefix, ...)
		// over the IDs stored at write time; an ID already in use fails with ErrIDExists.
		InsertPerson(kind Kind, prefix string, fields Fields) (Fields, error)
		// UpdatePerson overwrites only the given fields of the row with the ID and returns it
		// as stored, or fails with ErrNotFound.
		UpdatePerson(kind Kind, id string, fields Fields) (Fields, error)
		// UpsertPerson inserts the row or overwrites only the given fields of the existing one.
		UpsertPerson(kind Kind, fields Fields) error
		// DeletePerson reports false when no row has the ID.
		DeletePerson(kind Kind, id string) (bool, error)
	}

	// Recorder appends to the activity log.
	Recorder interface {
		Record(action, entityType, entityID, details string) error
	}

	Service struct {
		repo     Repository
		recorder Recorder
		log      core.Logger

		mu       sync.RWMutex
		settings core.Settings
	}
)

func NewService(repo Repository, recorder Recorder, settings core.Settings, log core.Logger) *Service {
	if log == nil {
		log = core.NopLogger{}
	}
	return &Service{repo: repo, recorder: recorder, settings: settings.Clean(), log: log}
}

// SetSettings swaps the settings used for ID prefixes and contact validation.
func (svc *Service) SetSettings(st core.Settings) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.settings = st.Clean()
}

func (svc *Service) Settings() core.Settings {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.settings
}

func (svc *Service) prefix(kind Kind) string {
	st := svc.Settings()
	if kind == KindTeacher {
		return st.TeacherIDPrefix
	}
	return st.StudentIDPrefix
}

// List returns the raw rows of kind, sorted by ID.
func (svc *Service) List(kind Kind) ([]Fields, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	rows, err := svc.repo.ListPeople(kind)
	if err != nil {
		return nil, err
	}
	idField := kind.IDField()
	sort.SliceStable(rows, func(i, j int) bool { return rows[i][idField] < rows[j][idField] })
	return rows, nil
}

// Get returns the raw row of the given ID, or ErrNotFound.
func (svc *Service) Get(kind Kind, id string) (Fields, error) {
	rows, err := svc.List(kind)
	if err != nil {
		return nil, err
	}
	id = core.CleanString(id)
	for _, row := range rows {
		if row[kind.IDField()] == id {
			return row, nil
		}
	}
	return nil, ErrNotFound
}

// IDs returns the IDs of every person of kind.
func (svc *Service) IDs(kind Kind) ([]string, error) {
	rows, err := svc.List(kind)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row[kind.IDField()])
	}
	return ids, nil
}

// NextID returns the ID the next created person of kind would get.
func (svc *Service) NextID(kind Kind) (string, error) {
	ids, err := svc.IDs(kind)
	if err != nil {
		return "", err
	}
	return NextID(svc.prefix(kind), ids), nil
}

// Upsert writes raw fields without validation or activity logging.
func (svc *Service) Upsert(kind Kind, fields Fields) error {
	if !kind.Valid() {
		return ErrUnknownKind
	}
	if core.CleanString(fields[kind.IDField()]) == "" {
		return core.NewValidationError(nil, core.FieldError{Field: kind.IDField(), Error: "this field is required"})
	}
	return svc.repo.UpsertPerson(kind, fields)
}

func (svc *Service) create(kind Kind, fields Fields, action string) (Fields, error) {
	created, err := svc.repo.InsertPerson(kind, svc.prefix(kind), fields)
	if errors.Is(err, ErrIDExists) {
		return nil, core.NewValidationError(ErrIDExists, core.FieldError{Field: "id", Error: ErrIDExists.Error()})
	}
	if err != nil {
		return nil, err
	}
	svc.record(action, kind, created[kind.IDField()], fullName(created))
	return created, nil
}

func (svc *Service) update(kind Kind, id string, fields Fields, action string) (Fields, error) {
	id = core.CleanString(id)
	updated, err := svc.repo.UpdatePerson(kind, id, fields)
	if err != nil {
		return nil, err
	}
	svc.record(action, kind, id, "updated "+fullName(updated))
	return updated, nil
}

// Delete removes the person, reporting false when the ID is unknown.
func (svc *Service) Delete(kind Kind, id string) (bool, error) {
	if !kind.Valid() {
		return false, ErrUnknownKind
	}
	id = core.CleanString(id)
	deleted, err := svc.repo.DeletePerson(kind, id)
	if err != nil || !deleted {
		return deleted, err
	}
	action := ActionDeleteStudent
	if kind == KindTeacher {
		action = ActionDeleteTeacher
	}
	svc.record(action, kind, id, "deleted")
	return true, nil
}

// record logs activity failures instead of returning them: the change itself is already saved.
func (svc *Service) record(action string, kind Kind, id, details string) {
	if svc.recorder == nil {
		return
	}
	if err := svc.recorder.Record(action, kind.String(), id, details); err != nil {
		svc.log.Warn("recording activity failed", map[string]interface{}{"action": action, "id": id}, err)
	}
}

func fullName(f Fields) string {
	return Person{FirstName: f[FieldFirstName], LastName: f[FieldLastName]}.FullName()
}

// Students

func (svc *Service) ListStudents() ([]Student, error) {
	rows, err := svc.List(KindStudent)
	if err != nil {
		return nil, err
	}
	students := make([]Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, StudentFromFields(row))
	}
	return students, nil
}

func (svc *Service) GetStudent(id string) (Student, error) {
	row, err := svc.Get(KindStudent, id)
	if err != nil {
		return Student{}, err
	}
	return StudentFromFields(row), nil
}

func (svc *Service) UpsertStudent(fields Fields) error {
	return svc.Upsert(KindStudent, fields)
}

func (svc *Service) CreateStudent(ns NewStudent) (Student, error) {
	if err := ns.Validate(svc.Settings().ContactPolicy); err != nil {
		return Student{}, err
	}
	row, err := svc.create(KindStudent, ns.fields(), ActionAddStudent)
	if err != nil {
		return Student{}, err
	}
	return StudentFromFields(row), nil
}

func (svc *Service) UpdateStudent(id string, us UpdateStudent) (Student, error) {
	if err := us.Validate(svc.Settings().ContactPolicy); err != nil {
		return Student{}, err
	}
	row, err := svc.update(KindStudent, id, us.fields(), ActionEditStudent)
	if err != nil {
		return Student{}, err
	}
	return StudentFromFields(row), nil
}

func (svc *Service) DeleteStudent(id string) (bool, error) {
	return svc.Delete(KindStudent, id)
}

// Teachers

func (svc *Service) ListTeachers() ([]Teacher, error) {
	rows, err := svc.List(KindTeacher)
	if err != nil {
		return nil, err
	}
	teachers := make([]Teacher, 0, len(rows))
	for _, row := range rows {
		teachers = append(teachers, TeacherFromFields(row))
	}
	return teachers, nil
}

func (svc *Service) GetTeacher(id string) (Teacher, error) {
	row, err := svc.Get(KindTeacher, id)
	if err != nil {
		return Teacher{}, err
	}
	return TeacherFromFields(row), nil
}

func (svc *Service) UpsertTeacher(fields Fields) error {
	return svc.Upsert(KindTeacher, fields)
}

func (svc *Service) CreateTeacher(nt NewTeacher) (Teacher, error) {
	if err := nt.Validate(svc.Settings().ContactPolicy); err != nil {
		return Teacher{}, err
	}
	row, err := svc.create(KindTeacher, nt.fields(), ActionAddTeacher)
	if err != nil {
		return Teacher{}, err
	}
	return TeacherFromFields(row), nil
}

func (svc *Service) UpdateTeacher(id string, ut UpdateTeacher) (Teacher, error) {
	if err := ut.Validate(svc.Settings().ContactPolicy); err != nil {
		return Teacher{}, err
	}
	row, err := svc.update(KindTeacher, id, ut.fields(), ActionEditTeacher)
	if err != nil {
		return Teacher{}, err
	}
	return TeacherFromFields(row), nil
}

func (svc *Service) DeleteTeacher(id string) (bool, error) {
	return svc.Delete(KindTeacher, id)
}
