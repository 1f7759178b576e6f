package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testHeaders = []string{"student_id", "first_name", "created_at", "updated_at"}

func TestEnsureHeaders(t *testing.T) {
	tests := []struct {
		name         string
		rows         [][]string
		wantRows     [][]string
		wantWrote    bool
		wantDropped  bool
		wantAppended []string
	}{
		{
			name:      "empty table",
			wantRows:  [][]string{testHeaders},
			wantWrote: true,
		},
		{
			name:      "blank first row, no header below",
			rows:      [][]string{{"", " "}, {"STU-0001", "Ann", "", ""}},
			wantRows:  [][]string{testHeaders, {"STU-0001", "Ann", "", ""}},
			wantWrote: true,
		},
		{
			name:        "blank first row, header one row too low",
			rows:        [][]string{{}, testHeaders, {"STU-0001", "Ann", "t1", "t1"}},
			wantRows:    [][]string{testHeaders, {"STU-0001", "Ann", "t1", "t1"}},
			wantDropped: true,
		},
		{
			name:     "valid header",
			rows:     [][]string{testHeaders, {"STU-0001", "Ann", "t1", "t1"}},
			wantRows: [][]string{testHeaders, {"STU-0001", "Ann", "t1", "t1"}},
		},
		{
			name: "partial header keeps order and data",
			rows: [][]string{{"first_name", "student_id", "legacy"}, {"Ann", "STU-0001", "x"}},
			wantRows: [][]string{
				{"first_name", "student_id", "legacy", "created_at", "updated_at"},
				{"Ann", "STU-0001", "x"},
			},
			wantAppended: []string{"created_at", "updated_at"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := NewTable("students", tt.rows...)
			rep := EnsureHeaders(tbl, testHeaders)

			assert.Equal(t, tt.wantRows, tbl.Rows)
			assert.Equal(t, tt.wantWrote, rep.WroteHeader)
			assert.Equal(t, tt.wantDropped, rep.DroppedBlankRow)
			assert.Equal(t, tt.wantAppended, rep.Appended)
			assert.Equal(t, tbl.Header(), rep.After)
		})
	}
}

func TestCleanup(t *testing.T) {
	tbl := NewTable("students",
		testHeaders,
		[]string{"STU-0001", "Ann", "t1", "t1"},
		testHeaders,
		[]string{"", "", ""},
		[]string{},
		testHeaders,
		[]string{"STU-0002", "Bob", "t2", "t2"},
		[]string{" "},
	)

	removed := Cleanup(tbl, testHeaders)

	assert.Equal(t, 5, removed)
	assert.Equal(t, [][]string{
		testHeaders,
		{"STU-0001", "Ann", "t1", "t1"},
		{"STU-0002", "Bob", "t2", "t2"},
	}, tbl.Rows)
}

func TestCleanup_noHeaders(t *testing.T) {
	tbl := NewTable("students", testHeaders, []string{"STU-0001"})
	assert.Equal(t, 0, Cleanup(tbl, nil))
	assert.Len(t, tbl.Rows, 2)
}

func TestRepairTable_idempotent(t *testing.T) {
	required := StudentColumns([]string{"blood_group"})
	tbl := NewTable("students",
		[]string{},
		StudentColumns(nil),
		[]string{"STU-0001", "Ann"},
		StudentColumns(nil),
	)

	first := RepairTable(tbl, required)
	assert.True(t, first.Changed())
	afterFirst := tbl.Clone()

	second := RepairTable(tbl, required)
	assert.False(t, second.Changed())
	assert.Equal(t, afterFirst.Rows, tbl.Rows)
	assert.Equal(t, required, tbl.Header())
	assert.Len(t, tbl.Records(), 1)
}

func TestColumns(t *testing.T) {
	cols := TeacherColumns([]string{"degree", "teacher_id", "degree"})
	assert.Equal(t, []string{
		"teacher_id", "first_name", "last_name", "role", "primary_contact",
		"secondary_contact", "created_at", "updated_at", "degree",
	}, cols)
	assert.Equal(t, []string{"student_id", "year", "month", "status", "amount", "updated_at"}, PaymentColumns(StudentIDColumn))
}
