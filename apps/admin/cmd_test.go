package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schooldesk/core"
	"github.com/trezcool/schooldesk/core/person"
	"github.com/trezcool/schooldesk/storage/sheet"
	"github.com/trezcool/schooldesk/storage/workbook"
	"github.com/trezcool/schooldesk/tests"
)

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

// wantOut lists substrings the command output must contain.
type wantOut []string

func setup(t *testing.T, doc *sheet.Document) (*commandLine, *workbook.MemoryBackend, *bytes.Buffer) {
	app, backend := testutil.NewApp(t, doc, nil)
	out := new(bytes.Buffer)
	return &commandLine{app: app, out: out}, backend, out
}

func runTests(t *testing.T, cli *commandLine, out *bytes.Buffer, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				if errors.Cause(err) != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			case tt.wantErrStr != "":
				if err == nil {
					t.Fatalf("cli.run() error = nil, wantErrStr %s", tt.wantErrStr)
				}
				if got := describeError(err); got != tt.wantErrStr {
					t.Errorf("cli.run() error = %s, wantErrStr %s", got, tt.wantErrStr)
				}
			case err != nil:
				t.Fatalf("cli.run() unexpected error = %v", err)
			}
			if want, ok := tt.extra.(wantOut); ok {
				for _, s := range want {
					assert.Contains(t, out.String(), s)
				}
			}
		})
	}
}

func Test_commandLine_usage(t *testing.T) {
	cli, _, out := setup(t, nil)

	runTests(t, cli, out, []cliTest{
		{name: "no command", wantErr: errHelp, extra: wantOut{"Usage:"}},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "flag help", args: []string{"list", "-h"}, wantErr: errHelp},
		{name: "stray argument", args: []string{"init", "now"}, wantErr: errHelp},
		{name: "unknown kind", args: []string{"list", "-kind", "parent"}, wantErrStr: `"parent": unknown person kind`},
		{name: "delete without id", args: []string{"delete"}, wantErr: errHelp},
		{name: "pay without id", args: []string{"pay"}, wantErr: errHelp},
		{name: "missing workbook", args: []string{"list"}, wantErrStr: "load :memory: memory workbook: file does not exist (" + core.PersistenceHint + ")"},
	})
}

func Test_commandLine_init(t *testing.T) {
	cli, backend, out := setup(t, nil)

	runTests(t, cli, out, []cliTest{
		{name: "create", args: []string{"init"}, extra: wantOut{"students: header written", "activity_log: header written", "workbook ready"}},
		{name: "healthy", args: []string{"doctor"}, extra: wantOut{"all sheets are healthy"}},
	})

	doc := backend.Snapshot()
	for _, name := range []string{sheet.StudentsTable, sheet.TeachersTable, sheet.StudentPaymentsTable, sheet.TeacherPaymentsTable, sheet.ActivityTable} {
		_, ok := doc.Table(name)
		assert.True(t, ok, name)
	}
	assert.Equal(t, 1, backend.Saves())
}

func Test_commandLine_doctor(t *testing.T) {
	doc := sheet.NewDocument(
		sheet.NewTable(sheet.StudentsTable, []string{}, sheet.StudentColumns(nil), []string{"STU-0001", "Ann", "Lee"}),
		sheet.NewTable(sheet.TeachersTable, sheet.TeacherColumns(nil)[:4]),
		sheet.NewTable(sheet.StudentPaymentsTable, sheet.PaymentColumns(person.FieldStudentID)),
		sheet.NewTable(sheet.TeacherPaymentsTable, sheet.PaymentColumns(person.FieldTeacherID)),
		sheet.NewTable(sheet.ActivityTable, sheet.ActivityColumns()),
	)
	cli, backend, out := setup(t, doc)

	runTests(t, cli, out, []cliTest{
		{
			name: "dry run",
			args: []string{"doctor"},
			extra: wantOut{
				"students: blank first row dropped",
				"teachers: columns added: primary_contact, secondary_contact, created_at, updated_at",
				"--- teachers (found)",
				"+++ teachers (repaired)",
				"+primary_contact",
				"run doctor -fix",
			},
		},
		{name: "fix", args: []string{"doctor", "-fix"}, extra: wantOut{"repaired"}},
		{name: "healthy", args: []string{"doctor"}, extra: wantOut{"all sheets are healthy"}},
	})

	assert.Equal(t, 1, backend.Saves(), "the dry run must not save")
	students, _ := backend.Snapshot().Table(sheet.StudentsTable)
	assert.Equal(t, sheet.StudentColumns(nil), students.Header())
	assert.Equal(t, "Ann", students.Rows[1][1])
}

func Test_commandLine_people(t *testing.T) {
	cli, _, out := setup(t, nil)

	runTests(t, cli, out, []cliTest{
		{name: "init", args: []string{"init"}},
		{name: "custom field column", args: []string{"settings", "-student-fields", "blood_group"}, extra: wantOut{`"blood_group"`}},
		{name: "missing last name", args: []string{"add", "-first", "Ann"}, wantErrStr: "last_name: this field cannot be blank"},
		{name: "bad custom field", args: []string{"add", "-first", "Ann", "-last", "Lee", "-field", "nokey"}, wantErrStr: `invalid value "nokey" for flag -field: expected key=value, got "nokey"`},
		{
			name:  "add student",
			args:  []string{"add", "-first", "Ann", "-last", "Lee", "-age", "12", "-class", "5", "-field", "blood group=O+"},
			extra: wantOut{"added student STU-0001 (Ann Lee)"},
		},
		{name: "add teacher", args: []string{"add", "-kind", "teachers", "-first", "Bo", "-last", "Ray", "-role", "Math"}, extra: wantOut{"added teacher TCH-0001 (Bo Ray)"}},
		{name: "duplicate id", args: []string{"add", "-id", "STU-0001", "-first", "Al", "-last", "Ng"}, wantErrStr: person.ErrIDExists.Error()},
		{name: "edit", args: []string{"edit", "-id", "STU-0001", "-class", "6"}, extra: wantOut{"updated student STU-0001"}},
		{name: "edit blank name", args: []string{"edit", "-id", "STU-0001", "-first", " "}, wantErrStr: "first_name: this field cannot be blank"},
		{name: "edit built-in as custom field", args: []string{"edit", "-id", "STU-0001", "-field", "first_name="}, wantErrStr: "custom_fields.first_name: this name is reserved for a built-in field"},
		{name: "edit unknown", args: []string{"edit", "-id", "STU-0404", "-class", "6"}, wantErr: person.ErrNotFound},
		{name: "list", args: []string{"list"}, extra: wantOut{"STU-0001", "Ann Lee", "12", "6"}},
		{name: "delete unknown", args: []string{"delete", "-id", "STU-0404"}, wantErr: person.ErrNotFound},
		{name: "delete", args: []string{"delete", "-kind", "teacher", "-id", "TCH-0001"}, extra: wantOut{"deleted teacher TCH-0001"}},
		{name: "activity", args: []string{"activity", "-limit", "2"}, extra: wantOut{"delete_teacher", "edit_student"}},
	})

	st, err := cli.app.People.GetStudent("STU-0001")
	require.NoError(t, err)
	assert.Equal(t, "6", st.Class)
	assert.Equal(t, "O+", st.CustomFields["blood_group"])

	teachers, err := cli.app.People.ListTeachers()
	require.NoError(t, err)
	assert.Empty(t, teachers)
}

func Test_commandLine_listFilter(t *testing.T) {
	cli, _, out := setup(t, nil)
	require.NoError(t, cli.run([]string{"admin", "init"}))
	for _, args := range [][]string{
		{"-first", "Ann", "-last", "Lee", "-class", "5", "-section", "A"},
		{"-first", "Bob", "-last", "Ray", "-class", "5", "-section", "B", "-contact", "+15550001"},
		{"-first", "Cy", "-last", "Lee", "-class", "6", "-section", "A"},
	} {
		require.NoError(t, cli.run(append([]string{"admin", "add"}, args...)))
	}

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{name: "query by name", args: []string{"-q", "LEE"}, want: []string{"Ann Lee", "Cy Lee"}, notWant: []string{"Bob Ray"}},
		{name: "query by contact", args: []string{"-q", "5550001"}, want: []string{"Bob Ray"}, notWant: []string{"Ann Lee", "Cy Lee"}},
		{name: "class", args: []string{"-class", "5"}, want: []string{"Ann Lee", "Bob Ray"}, notWant: []string{"Cy Lee"}},
		{name: "class and section", args: []string{"-class", "5", "-section", "A"}, want: []string{"Ann Lee"}, notWant: []string{"Bob Ray", "Cy Lee"}},
		{name: "query and class", args: []string{"-q", "lee", "-class", "6"}, want: []string{"Cy Lee"}, notWant: []string{"Ann Lee"}},
		{name: "no match", args: []string{"-q", "zed"}, want: []string{"ID"}, notWant: []string{"Lee", "Ray"}},
		{name: "class counts", args: []string{"-classes"}, want: []string{"CLASS  STUDENTS", "5      2", "6      1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			require.NoError(t, cli.run(append([]string{"admin", "list"}, tt.args...)))
			for _, s := range tt.want {
				assert.Contains(t, out.String(), s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, out.String(), s)
			}
		})
	}
}

func Test_commandLine_payments(t *testing.T) {
	cli, _, out := setup(t, nil)

	runTests(t, cli, out, []cliTest{
		{name: "init", args: []string{"init"}},
		{name: "add", args: []string{"add", "-first", "Ann", "-last", "Lee"}},
		{name: "pay", args: []string{"pay", "-id", "STU-0001", "-year", "2026", "-month", "3", "-amount", "500"}, extra: wantOut{"student STU-0001 2026-03: Paid 500"}},
		{name: "bad month", args: []string{"pay", "-id", "STU-0001", "-year", "2026", "-month", "13"}, wantErrStr: "month: must be between 1 and 12"},
		{name: "bad status", args: []string{"pay", "-id", "STU-0001", "-status", "partial"}, wantErrStr: "status: must be Paid or Pending"},
		{name: "bad amount", args: []string{"pay", "-id", "STU-0001", "-amount", "abc"}, wantErrStr: `amount: invalid number "abc"`},
		{name: "toggle", args: []string{"toggle", "-id", "STU-0001", "-year", "2026", "-month", "3"}, extra: wantOut{"student STU-0001 2026-03: Pending"}},
		{name: "stats", args: []string{"stats", "-year", "2026", "-month", "3"}, extra: wantOut{"student 2026-03: 0 paid, 1 pending, 1 total"}},
		{name: "arrears", args: []string{"arrears", "-id", "STU-0001", "-year", "2026", "-month", "3", "-default", "100"}, extra: wantOut{"2024-04", "2026-03", "TOTAL", "2800"}},
		{name: "pay keeps amount", args: []string{"pay", "-id", "STU-0001", "-year", "2026", "-month", "3"}, extra: wantOut{"student STU-0001 2026-03: Paid 500"}},
	})
}

func Test_commandLine_settings(t *testing.T) {
	cli, _, out := setup(t, nil)

	runTests(t, cli, out, []cliTest{
		{name: "init", args: []string{"init"}},
		{name: "show", args: []string{"settings"}, extra: wantOut{`"student_id_prefix": "STU-"`, `"contact_policy": "free"`}},
		{name: "bad policy", args: []string{"settings", "-contact-policy", "loose"}, wantErrStr: "contact_policy: must be free or strict"},
		{name: "update", args: []string{"settings", "-student-prefix", "S-", "-contact-policy", "STRICT"}, extra: wantOut{`"student_id_prefix": "S-"`, `"contact_policy": "strict"`}},
		{name: "strict contact", args: []string{"add", "-first", "Ann", "-last", "Lee"}, wantErrStr: "primary_contact: this field is required"},
		{name: "phone contact", args: []string{"add", "-first", "Ann", "-last", "Lee", "-contact", "+1234567890"}, extra: wantOut{"added student S-0001"}},
	})

	reloaded, err := cli.app.Settings.Load()
	require.NoError(t, err)
	assert.Equal(t, "S-", reloaded.StudentIDPrefix)
	assert.Equal(t, core.ContactPolicyStrict, reloaded.ContactPolicy)
}

func Test_commandLine_watch(t *testing.T) {
	cli, _, out := setup(t, sheet.NewDocument())

	waited := false
	waitFunc = func() { waited = true }

	runTests(t, cli, out, []cliTest{
		{name: "interval too short", args: []string{"watch", "-interval", "10ms"}, wantErrStr: "interval: must be at least 1s"},
		{name: "watch", args: []string{"watch"}, extra: wantOut{"watching :memory: every 2s"}},
	})
	assert.True(t, waited)
}

func Test_describeError(t *testing.T) {
	err := errors.Wrap(core.NewPersistenceError("save", "school.xlsx", errors.New("locked")), "saving")
	assert.True(t, strings.HasSuffix(describeError(err), "("+core.PersistenceHint+")"))
	assert.Equal(t, "boom", describeError(errors.New("boom")))
}
