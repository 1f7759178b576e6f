package main

import (
	"encoding/json"
	"strings"

	"github.com/trezcool/schooldesk/core"
)

func (cli *commandLine) settingsCmd(args []string) error {
	st := cli.app.People.Settings()

	fs := cli.newFlagSet("settings")
	studentPrefix := fs.String("student-prefix", st.StudentIDPrefix, "student ID prefix")
	teacherPrefix := fs.String("teacher-prefix", st.TeacherIDPrefix, "teacher ID prefix")
	studentFields := fs.String("student-fields", strings.Join(st.StudentCustomFields, ","), "comma separated student custom fields")
	teacherFields := fs.String("teacher-fields", strings.Join(st.TeacherCustomFields, ","), "comma separated teacher custom fields")
	year := fs.Int("year", st.DefaultYear, "default year")
	month := fs.Int("month", st.DefaultMonth, "default month")
	fee := fs.Float64("student-fee", st.DefaultStudentFee, "default monthly student fee")
	salary := fs.Float64("teacher-salary", st.DefaultTeacherSalary, "default monthly teacher salary")
	policy := fs.String("contact-policy", string(st.ContactPolicy), "free or strict")
	if err := parse(fs, args); err != nil {
		return err
	}

	if len(visited(fs)) > 0 {
		if p := core.ContactPolicy(core.CleanString(*policy, true /* lower */)); p != core.ContactPolicyFree && p != core.ContactPolicyStrict {
			return core.NewValidationError(nil, core.FieldError{Field: "contact_policy", Error: "must be free or strict"})
		}
		st.StudentIDPrefix = core.CleanString(*studentPrefix)
		st.TeacherIDPrefix = core.CleanString(*teacherPrefix)
		st.StudentCustomFields = splitList(*studentFields)
		st.TeacherCustomFields = splitList(*teacherFields)
		st.DefaultYear = *year
		st.DefaultMonth = *month
		st.DefaultStudentFee = *fee
		st.DefaultTeacherSalary = *salary
		st.ContactPolicy = core.ContactPolicy(core.CleanString(*policy, true /* lower */))

		var err error
		if st, err = cli.app.ApplySettings(st); err != nil {
			return err
		}
	}

	out, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	cli.printf("%s\n", out)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
