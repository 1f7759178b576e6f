package person

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/schooldesk/core"
)

// Kinds
const (
	KindStudent Kind = "student"
	KindTeacher Kind = "teacher"
)

// Field names, shared with the workbook columns.
const (
	FieldStudentID        = "student_id"
	FieldTeacherID        = "teacher_id"
	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
	FieldAge              = "age"
	FieldClass            = "class"
	FieldSection          = "section"
	FieldRole             = "role"
	FieldPrimaryContact   = "primary_contact"
	FieldSecondaryContact = "secondary_contact"
	FieldCreatedAt        = "created_at"
	FieldUpdatedAt        = "updated_at"

	timestampLayout = "2006-01-02T15:04:05"
	phoneError      = "use a phone number, e.g. +1234567890"
)

var (
	ErrUnknownKind = errors.New("unknown person kind")

	studentFields = []string{
		FieldStudentID, FieldFirstName, FieldLastName, FieldAge, FieldClass, FieldSection,
		FieldPrimaryContact, FieldSecondaryContact, FieldCreatedAt, FieldUpdatedAt,
	}
	teacherFields = []string{
		FieldTeacherID, FieldFirstName, FieldLastName, FieldRole,
		FieldPrimaryContact, FieldSecondaryContact, FieldCreatedAt, FieldUpdatedAt,
	}
)

// Kind tells students and teachers apart.
type Kind string

func ParseKind(s string) (Kind, error) {
	switch k := Kind(core.CleanString(s, true /* lower */)); k {
	case KindStudent, KindTeacher:
		return k, nil
	case "students":
		return KindStudent, nil
	case "teachers":
		return KindTeacher, nil
	}
	return "", errors.Wrapf(ErrUnknownKind, "%q", s)
}

func (k Kind) String() string { return string(k) }

func (k Kind) Valid() bool { return k == KindStudent || k == KindTeacher }

// IDField is the name of the field holding the business ID.
func (k Kind) IDField() string {
	if k == KindTeacher {
		return FieldTeacherID
	}
	return FieldStudentID
}

// Fields maps field names to raw values, as read from or written to storage.
type Fields map[string]string

// Person holds what students and teachers have in common.
type Person struct {
	ID               string            `json:"id"`
	FirstName        string            `json:"first_name"`
	LastName         string            `json:"last_name"`
	PrimaryContact   string            `json:"primary_contact"`
	SecondaryContact string            `json:"secondary_contact"`
	CustomFields     map[string]string `json:"custom_fields"`
	CreatedAt        time.Time         `json:"created_at"` // local
	UpdatedAt        time.Time         `json:"updated_at"` // local
}

func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type Student struct {
	Person
	Age     *int   `json:"age"`
	Class   string `json:"class"`
	Section string `json:"section"`
}

type Teacher struct {
	Person
	Role string `json:"role"`
}

func StudentFromFields(f Fields) Student {
	st := Student{
		Person:  personFromFields(f, FieldStudentID, studentFields),
		Class:   f[FieldClass],
		Section: f[FieldSection],
	}
	if age, err := strconv.Atoi(strings.TrimSpace(f[FieldAge])); err == nil {
		st.Age = &age
	} else if age, err := strconv.ParseFloat(strings.TrimSpace(f[FieldAge]), 64); err == nil {
		n := int(age)
		st.Age = &n
	}
	return st
}

func TeacherFromFields(f Fields) Teacher {
	return Teacher{
		Person: personFromFields(f, FieldTeacherID, teacherFields),
		Role:   f[FieldRole],
	}
}

// personFromFields treats every field outside base as a custom field.
func personFromFields(f Fields, idField string, base []string) Person {
	p := Person{
		ID:               f[idField],
		FirstName:        f[FieldFirstName],
		LastName:         f[FieldLastName],
		PrimaryContact:   f[FieldPrimaryContact],
		SecondaryContact: f[FieldSecondaryContact],
		CustomFields:     map[string]string{},
		CreatedAt:        parseTimestamp(f[FieldCreatedAt]),
		UpdatedAt:        parseTimestamp(f[FieldUpdatedAt]),
	}
	for k, v := range f {
		if !contains(base, k) {
			p.CustomFields[k] = v
		}
	}
	return p
}

func parseTimestamp(s string) time.Time {
	ts, err := time.ParseInLocation(timestampLayout, s, time.Local)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// NewStudent contains information needed to create a new Student.
// An empty ID is replaced by the next generated one.
type NewStudent struct {
	ID               string            `json:"id" validate:"omitempty,max=64"`
	FirstName        string            `json:"first_name" validate:"notblank"`
	LastName         string            `json:"last_name" validate:"notblank"`
	Age              *int              `json:"age" validate:"omitempty,min=0,max=150"`
	Class            string            `json:"class"`
	Section          string            `json:"section"`
	PrimaryContact   string            `json:"primary_contact"`
	SecondaryContact string            `json:"secondary_contact"`
	CustomFields     map[string]string `json:"custom_fields" validate:"omitempty,dive,keys,fieldname,endkeys"`
}

func (ns *NewStudent) Validate(policy core.ContactPolicy) error {
	ns.ID = core.CleanString(ns.ID)
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.Class = core.CleanString(ns.Class)
	ns.Section = core.CleanString(ns.Section)
	ns.PrimaryContact = core.CleanString(ns.PrimaryContact)
	ns.SecondaryContact = core.CleanString(ns.SecondaryContact)
	ns.CustomFields = normalizeCustomFields(ns.CustomFields)

	if err := core.Validate.Struct(ns); err != nil {
		return err
	}
	if err := validateCustomFields(ns.CustomFields, studentFields); err != nil {
		return err
	}
	return validateContacts(policy, &ns.PrimaryContact, &ns.SecondaryContact)
}

func (ns NewStudent) fields() Fields {
	f := Fields{
		FieldStudentID:        ns.ID,
		FieldFirstName:        ns.FirstName,
		FieldLastName:         ns.LastName,
		FieldClass:            ns.Class,
		FieldSection:          ns.Section,
		FieldPrimaryContact:   ns.PrimaryContact,
		FieldSecondaryContact: ns.SecondaryContact,
	}
	if ns.Age != nil {
		f[FieldAge] = strconv.Itoa(*ns.Age)
	}
	for k, v := range ns.CustomFields {
		f[k] = v
	}
	return f
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// Nil fields are left untouched.
type UpdateStudent struct {
	FirstName        *string           `json:"first_name"`
	LastName         *string           `json:"last_name"`
	Age              *int              `json:"age" validate:"omitempty,min=0,max=150"`
	Class            *string           `json:"class"`
	Section          *string           `json:"section"`
	PrimaryContact   *string           `json:"primary_contact"`
	SecondaryContact *string           `json:"secondary_contact"`
	CustomFields     map[string]string `json:"custom_fields" validate:"omitempty,dive,keys,fieldname,endkeys"`
}

func (us *UpdateStudent) Validate(policy core.ContactPolicy) error {
	cleanPtrs(us.FirstName, us.LastName, us.Class, us.Section, us.PrimaryContact, us.SecondaryContact)
	us.CustomFields = normalizeCustomFields(us.CustomFields)

	if err := core.Validate.Struct(us); err != nil {
		return err
	}
	if err := validateCustomFields(us.CustomFields, studentFields); err != nil {
		return err
	}
	if err := validateNames(us.FirstName, us.LastName); err != nil {
		return err
	}
	return validateContacts(policy, us.PrimaryContact, us.SecondaryContact)
}

func (us UpdateStudent) fields() Fields {
	f := Fields{}
	setPtr(f, FieldFirstName, us.FirstName)
	setPtr(f, FieldLastName, us.LastName)
	setPtr(f, FieldClass, us.Class)
	setPtr(f, FieldSection, us.Section)
	setPtr(f, FieldPrimaryContact, us.PrimaryContact)
	setPtr(f, FieldSecondaryContact, us.SecondaryContact)
	if us.Age != nil {
		f[FieldAge] = strconv.Itoa(*us.Age)
	}
	for k, v := range us.CustomFields {
		f[k] = v
	}
	return f
}

// NewTeacher contains information needed to create a new Teacher.
type NewTeacher struct {
	ID               string            `json:"id" validate:"omitempty,max=64"`
	FirstName        string            `json:"first_name" validate:"notblank"`
	LastName         string            `json:"last_name" validate:"notblank"`
	Role             string            `json:"role"`
	PrimaryContact   string            `json:"primary_contact"`
	SecondaryContact string            `json:"secondary_contact"`
	CustomFields     map[string]string `json:"custom_fields" validate:"omitempty,dive,keys,fieldname,endkeys"`
}

func (nt *NewTeacher) Validate(policy core.ContactPolicy) error {
	nt.ID = core.CleanString(nt.ID)
	nt.FirstName = core.CleanString(nt.FirstName)
	nt.LastName = core.CleanString(nt.LastName)
	nt.Role = core.CleanString(nt.Role)
	nt.PrimaryContact = core.CleanString(nt.PrimaryContact)
	nt.SecondaryContact = core.CleanString(nt.SecondaryContact)
	nt.CustomFields = normalizeCustomFields(nt.CustomFields)

	if err := core.Validate.Struct(nt); err != nil {
		return err
	}
	if err := validateCustomFields(nt.CustomFields, teacherFields); err != nil {
		return err
	}
	return validateContacts(policy, &nt.PrimaryContact, &nt.SecondaryContact)
}

func (nt NewTeacher) fields() Fields {
	f := Fields{
		FieldTeacherID:        nt.ID,
		FieldFirstName:        nt.FirstName,
		FieldLastName:         nt.LastName,
		FieldRole:             nt.Role,
		FieldPrimaryContact:   nt.PrimaryContact,
		FieldSecondaryContact: nt.SecondaryContact,
	}
	for k, v := range nt.CustomFields {
		f[k] = v
	}
	return f
}

// UpdateTeacher defines what information may be provided to modify an existing Teacher.
type UpdateTeacher struct {
	FirstName        *string           `json:"first_name"`
	LastName         *string           `json:"last_name"`
	Role             *string           `json:"role"`
	PrimaryContact   *string           `json:"primary_contact"`
	SecondaryContact *string           `json:"secondary_contact"`
	CustomFields     map[string]string `json:"custom_fields" validate:"omitempty,dive,keys,fieldname,endkeys"`
}

func (ut *UpdateTeacher) Validate(policy core.ContactPolicy) error {
	cleanPtrs(ut.FirstName, ut.LastName, ut.Role, ut.PrimaryContact, ut.SecondaryContact)
	ut.CustomFields = normalizeCustomFields(ut.CustomFields)

	if err := core.Validate.Struct(ut); err != nil {
		return err
	}
	if err := validateCustomFields(ut.CustomFields, teacherFields); err != nil {
		return err
	}
	if err := validateNames(ut.FirstName, ut.LastName); err != nil {
		return err
	}
	return validateContacts(policy, ut.PrimaryContact, ut.SecondaryContact)
}

func (ut UpdateTeacher) fields() Fields {
	f := Fields{}
	setPtr(f, FieldFirstName, ut.FirstName)
	setPtr(f, FieldLastName, ut.LastName)
	setPtr(f, FieldRole, ut.Role)
	setPtr(f, FieldPrimaryContact, ut.PrimaryContact)
	setPtr(f, FieldSecondaryContact, ut.SecondaryContact)
	for k, v := range ut.CustomFields {
		f[k] = v
	}
	return f
}

// validateContacts applies the contact policy to the provided values.
// The strict policy requires a primary contact whenever one is given.
func validateContacts(policy core.ContactPolicy, primary, secondary *string) error {
	if policy != core.ContactPolicyStrict {
		return nil
	}
	var flds []core.FieldError
	if primary != nil {
		switch {
		case *primary == "":
			flds = append(flds, core.FieldError{Field: FieldPrimaryContact, Error: "this field is required"})
		case !core.IsPhone(*primary):
			flds = append(flds, core.FieldError{Field: FieldPrimaryContact, Error: phoneError})
		}
	}
	if secondary != nil && *secondary != "" && !core.IsPhone(*secondary) {
		flds = append(flds, core.FieldError{Field: FieldSecondaryContact, Error: phoneError})
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

// validateCustomFields rejects custom keys naming a built-in field, in any case.
func validateCustomFields(custom map[string]string, base []string) error {
	keys := make([]string, 0, len(custom))
	for k := range custom {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var flds []core.FieldError
	for _, k := range keys {
		for _, b := range base {
			if strings.EqualFold(k, b) {
				flds = append(flds, core.FieldError{Field: "custom_fields." + k, Error: "this name is reserved for a built-in field"})
				break
			}
		}
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

// validateNames rejects names that were provided but left blank.
func validateNames(first, last *string) error {
	var flds []core.FieldError
	if first != nil && *first == "" {
		flds = append(flds, core.FieldError{Field: FieldFirstName, Error: "this field cannot be blank"})
	}
	if last != nil && *last == "" {
		flds = append(flds, core.FieldError{Field: FieldLastName, Error: "this field cannot be blank"})
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

// normalizeCustomFields normalizes the keys, dropping those left empty.
func normalizeCustomFields(custom map[string]string) map[string]string {
	if custom == nil {
		return nil
	}
	keys := make([]string, 0, len(custom))
	for k := range custom {
		keys = append(keys, k)
	}
	sort.Strings(keys) // deterministic winner when two keys normalize alike
	out := make(map[string]string, len(custom))
	for _, k := range keys {
		name := core.NormalizeFieldName(k)
		if name == "" {
			continue
		}
		if _, ok := out[name]; !ok {
			out[name] = core.CleanString(custom[k])
		}
	}
	return out
}

func cleanPtrs(ptrs ...*string) {
	for _, p := range ptrs {
		if p != nil {
			*p = core.CleanString(*p)
		}
	}
}

func setPtr(f Fields, key string, val *string) {
	if val != nil {
		f[key] = *val
	}
}
