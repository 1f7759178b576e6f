package core

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// ContactPolicy decides how strictly contact fields are validated.
type ContactPolicy string

const (
	ContactPolicyFree   ContactPolicy = "free"   // anything goes
	ContactPolicyStrict ContactPolicy = "strict" // phone numbers only
)

const (
	minUIScaling = 0.8
	maxUIScaling = 1.4
)

// Settings are the user editable preferences, stored next to the workbook.
type Settings struct {
	StudentIDPrefix      string        `json:"student_id_prefix"`
	TeacherIDPrefix      string        `json:"teacher_id_prefix"`
	StudentCustomFields  []string      `json:"student_custom_fields"`
	TeacherCustomFields  []string      `json:"teacher_custom_fields"`
	DefaultYear          int           `json:"default_year"`
	DefaultMonth         int           `json:"default_month"`
	AppearanceMode       string        `json:"appearance_mode"` // Light | Dark | System
	UIScaling            float64       `json:"ui_scaling"`
	DefaultStudentFee    float64       `json:"default_student_fee"`
	DefaultTeacherSalary float64       `json:"default_teacher_salary"`
	ContactPolicy        ContactPolicy `json:"contact_policy"`
}

func DefaultSettings() Settings {
	return Settings{
		StudentIDPrefix:     "STU-",
		TeacherIDPrefix:     "TCH-",
		StudentCustomFields: []string{},
		TeacherCustomFields: []string{},
		DefaultYear:         2026,
		DefaultMonth:        1,
		AppearanceMode:      "Light",
		UIScaling:           1.0,
		ContactPolicy:       ContactPolicyFree,
	}
}

type SettingsStore struct {
	path string
}

func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{path: path}
}

func (s *SettingsStore) Path() string { return s.path }

// Load reads the settings file, writing the defaults when it does not exist yet.
// Missing or invalid fields fall back to their defaults.
func (s *SettingsStore) Load() (Settings, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		st := DefaultSettings()
		return st, s.Save(st)
	} else if err != nil {
		return Settings{}, errors.Wrap(err, "checking settings file")
	}

	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return Settings{}, errors.Wrap(err, "reading settings file")
	}
	return settingsFromViper(v), nil
}

func (s *SettingsStore) Save(st Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "creating settings dir")
	}
	st = st.Clean()

	v := viper.New()
	v.SetConfigType("json")
	v.Set("student_id_prefix", st.StudentIDPrefix)
	v.Set("teacher_id_prefix", st.TeacherIDPrefix)
	v.Set("student_custom_fields", st.StudentCustomFields)
	v.Set("teacher_custom_fields", st.TeacherCustomFields)
	v.Set("default_year", st.DefaultYear)
	v.Set("default_month", st.DefaultMonth)
	v.Set("appearance_mode", st.AppearanceMode)
	v.Set("ui_scaling", st.UIScaling)
	v.Set("default_student_fee", st.DefaultStudentFee)
	v.Set("default_teacher_salary", st.DefaultTeacherSalary)
	v.Set("contact_policy", string(st.ContactPolicy))
	if err := v.WriteConfigAs(s.path); err != nil {
		return errors.Wrap(err, "writing settings file")
	}
	return nil
}

// Clean applies the same defaults and bounds as Load.
func (st Settings) Clean() Settings {
	def := DefaultSettings()
	if st.StudentIDPrefix == "" {
		st.StudentIDPrefix = def.StudentIDPrefix
	}
	if st.TeacherIDPrefix == "" {
		st.TeacherIDPrefix = def.TeacherIDPrefix
	}
	st.StudentCustomFields = NormalizeFieldNames(st.StudentCustomFields)
	st.TeacherCustomFields = NormalizeFieldNames(st.TeacherCustomFields)
	if st.DefaultYear < 1 {
		st.DefaultYear = def.DefaultYear
	}
	if st.DefaultMonth < 1 || st.DefaultMonth > 12 {
		st.DefaultMonth = def.DefaultMonth
	}
	switch st.AppearanceMode {
	case "Light", "Dark", "System":
	default:
		st.AppearanceMode = def.AppearanceMode
	}
	if st.UIScaling < minUIScaling {
		st.UIScaling = minUIScaling
	}
	if st.UIScaling > maxUIScaling {
		st.UIScaling = maxUIScaling
	}
	if st.DefaultStudentFee < 0 {
		st.DefaultStudentFee = def.DefaultStudentFee
	}
	if st.DefaultTeacherSalary < 0 {
		st.DefaultTeacherSalary = def.DefaultTeacherSalary
	}
	switch st.ContactPolicy {
	case ContactPolicyFree, ContactPolicyStrict:
	default:
		st.ContactPolicy = def.ContactPolicy
	}
	return st
}

func settingsFromViper(v *viper.Viper) Settings {
	st := DefaultSettings()
	if v.IsSet("student_id_prefix") {
		st.StudentIDPrefix = cast.ToString(v.Get("student_id_prefix"))
	}
	if v.IsSet("teacher_id_prefix") {
		st.TeacherIDPrefix = cast.ToString(v.Get("teacher_id_prefix"))
	}
	if v.IsSet("student_custom_fields") {
		st.StudentCustomFields = cast.ToStringSlice(v.Get("student_custom_fields"))
	}
	if v.IsSet("teacher_custom_fields") {
		st.TeacherCustomFields = cast.ToStringSlice(v.Get("teacher_custom_fields"))
	}
	if n, ok := viperInt(v, "default_year"); ok {
		st.DefaultYear = n
	}
	if n, ok := viperInt(v, "default_month"); ok {
		st.DefaultMonth = n
	}
	if v.IsSet("appearance_mode") {
		st.AppearanceMode = cast.ToString(v.Get("appearance_mode"))
	}
	if f, ok := viperFloat(v, "ui_scaling"); ok {
		st.UIScaling = f
	}
	if f, ok := viperFloat(v, "default_student_fee"); ok {
		st.DefaultStudentFee = f
	}
	if f, ok := viperFloat(v, "default_teacher_salary"); ok {
		st.DefaultTeacherSalary = f
	}
	if v.IsSet("contact_policy") {
		st.ContactPolicy = ContactPolicy(CleanString(cast.ToString(v.Get("contact_policy")), true /* lower */))
	}
	return st.Clean()
}

// viperInt returns false for unset keys and malformed numbers.
func viperInt(v *viper.Viper, key string) (int, bool) {
	if !v.IsSet(key) {
		return 0, false
	}
	n, err := cast.ToIntE(v.Get(key))
	return n, err == nil
}

func viperFloat(v *viper.Viper, key string) (float64, bool) {
	if !v.IsSet(key) {
		return 0, false
	}
	f, err := cast.ToFloat64E(v.Get(key))
	return f, err == nil
}
