package sheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDecodeRow(t *testing.T) {
	headers := []string{"student_id", "first_name", "", "class"}
	tests := []struct {
		name   string
		cells  []string
		want   Fields
		wantOk bool
	}{
		{name: "blank row", cells: []string{"", " ", ""}},
		{name: "no cells"},
		{
			name:   "short row",
			cells:  []string{"STU-0001", "Ann"},
			want:   Fields{"student_id": "STU-0001", "first_name": "Ann"},
			wantOk: true,
		},
		{
			name:   "long row, blank header skipped",
			cells:  []string{"STU-0001", "Ann", "ignored", "5", "extra"},
			want:   Fields{"student_id": "STU-0001", "first_name": "Ann", "class": "5"},
			wantOk: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DecodeRow(headers, tt.cells)
			assert.Equal(t, tt.wantOk, ok)
			if tt.wantOk {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestEncodeRow(t *testing.T) {
	headers := []string{"student_id", "first_name", "class", "created_at", "updated_at"}
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local)
	updated := created.Add(time.Hour)

	t.Run("insert", func(t *testing.T) {
		row := EncodeRow(headers, Fields{"student_id": "STU-0001", "first_name": "Ann", "unknown": "x"}, nil, created)
		assert.Equal(t, []string{"STU-0001", "Ann", "", "2026-01-02T03:04:05", "2026-01-02T03:04:05"}, row)
	})

	t.Run("partial update", func(t *testing.T) {
		existing := []string{"STU-0001", "Ann", "5", "2026-01-02T03:04:05", "2026-01-02T03:04:05", "beyond"}
		row := EncodeRow(headers, Fields{"class": "6", "created_at": "nope"}, existing, updated)
		assert.Equal(t, []string{"STU-0001", "Ann", "6", "2026-01-02T03:04:05", "2026-01-02T04:04:05", "beyond"}, row)
		assert.Equal(t, "5", existing[2], "existing row must not be mutated")
	})

	t.Run("update short existing row", func(t *testing.T) {
		row := EncodeRow(headers, Fields{"first_name": "Bea"}, []string{"STU-0002"}, updated)
		assert.Equal(t, []string{"STU-0002", "Bea", "", "", "2026-01-02T04:04:05"}, row)
	})
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2026, 3, 4, 5, 6, 7, 0, time.Local)
	assert.True(t, ParseTimestamp("2026-03-04T05:06:07").Equal(want))
	assert.True(t, ParseTimestamp("").IsZero())
	assert.True(t, ParseTimestamp("yesterday").IsZero())
}

func TestIndexBy(t *testing.T) {
	tbl := NewTable("students",
		[]string{"first_name", "student_id"},
		[]string{"Ann", "STU-0001"},
		[]string{"Nobody", ""},
		[]string{"Bob", "STU-0002"},
		[]string{"Ann again", "STU-0001"},
	)
	idx := IndexBy(tbl, "student_id")
	assert.Equal(t, 1, idx.Lookup("STU-0001"))
	assert.Equal(t, 3, idx.Lookup("STU-0002"))
	assert.Equal(t, -1, idx.Lookup(""))
	assert.Equal(t, -1, idx.Lookup("STU-0404"))
	assert.Empty(t, IndexBy(tbl, "teacher_id"))
}

func TestDocument_Clone(t *testing.T) {
	doc := NewDocument(NewTable("b", []string{"x"}), NewTable("a", []string{"y"}))
	clone := doc.Clone()
	tbl, _ := clone.Table("b")
	tbl.Rows[0][0] = "changed"
	clone.EnsureTable("c")

	orig, _ := doc.Table("b")
	assert.Equal(t, "x", orig.Rows[0][0])
	assert.Len(t, doc.Tables(), 2)
	assert.Equal(t, "b", clone.Tables()[0].Name)
	assert.Equal(t, "c", clone.Tables()[2].Name)
}
