package sheet

// Repair describes what EnsureHeaders and Cleanup changed in a table.
type Repair struct {
	Table           string
	Before          []string // header before repair (nil if the table was empty)
	After           []string
	WroteHeader     bool
	DroppedBlankRow bool
	Appended        []string // columns appended to an existing header
	RowsRemoved     int      // blank or duplicated header rows dropped by Cleanup
}

func (r Repair) Changed() bool {
	return r.WroteHeader || r.DroppedBlankRow || len(r.Appended) > 0 || r.RowsRemoved > 0
}

// EnsureHeaders makes sure the first row of t holds every required column.
//   - empty table: the header is written.
//   - blank first row: when row 2 already holds the required header (headers appended
//     one row too low), the blank row is dropped; otherwise row 1 is overwritten.
//   - differing header: existing columns are never overwritten or reordered, the
//     missing required columns are appended in order.
//
// Calling it again with the same columns changes nothing.
func EnsureHeaders(t *Table, required []string) Repair {
	rep := Repair{Table: t.Name, Before: copyRow(t.Header())}

	switch {
	case len(t.Rows) == 0:
		t.Rows = [][]string{copyRow(required)}
		rep.WroteHeader = true
	case IsBlankRow(t.Rows[0]):
		if len(t.Rows) >= 2 && rowStartsWith(t.Rows[1], required) {
			t.DeleteRow(0)
			rep.DroppedBlankRow = true
		} else {
			t.Rows[0] = copyRow(required)
			rep.WroteHeader = true
		}
	default:
		header := t.Rows[0]
		for _, col := range required {
			if indexOf(header, col) < 0 {
				header = append(header, col)
				rep.Appended = append(rep.Appended, col)
			}
		}
		t.Rows[0] = header
	}

	rep.After = copyRow(t.Header())
	return rep
}

// Cleanup removes data rows that repeat the header or are entirely blank.
// A row repeats the header when, ignoring trailing blank cells, one of them is a
// prefix of the other (headers re-inserted before custom columns were added).
// Rows are scanned bottom-up so deletions do not shift rows still to be visited.
func Cleanup(t *Table, headers []string) int {
	var removed int
	for i := len(t.Rows) - 1; i >= 1; i-- {
		row := t.Rows[i]
		if IsBlankRow(row) || isHeaderRow(row, headers) {
			t.DeleteRow(i)
			removed++
		}
	}
	return removed
}

// RepairTable runs EnsureHeaders, then Cleanup against both the required columns
// and the resulting header (they differ when extra columns were kept).
func RepairTable(t *Table, required []string) Repair {
	rep := EnsureHeaders(t, required)
	rep.RowsRemoved = Cleanup(t, required)
	if !rowStartsWith(required, t.Header()) {
		rep.RowsRemoved += Cleanup(t, t.Header())
	}
	return rep
}

func isHeaderRow(row, headers []string) bool {
	row = trimTrailingBlanks(row)
	if len(row) == 0 || len(headers) == 0 {
		return false
	}
	return rowStartsWith(row, headers) || rowStartsWith(headers, row)
}

func trimTrailingBlanks(row []string) []string {
	n := len(row)
	for n > 0 && IsBlankRow(row[n-1:n]) {
		n--
	}
	return row[:n]
}
