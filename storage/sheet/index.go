package sheet

// Index maps the value of a key column to its row number in Table.Rows.
// It is rebuilt from the table it indexes, so it never drifts after deletes.
type Index map[string]int

// IndexBy indexes the data rows of t on column. Blank keys are skipped and the
// first row wins when a key is repeated.
func IndexBy(t *Table, column string) Index {
	idx := make(Index, len(t.Rows))
	col := t.ColumnIndex(column)
	if col < 0 {
		return idx
	}
	for i := 1; i < len(t.Rows); i++ {
		key := t.Cell(i, col)
		if key == "" {
			continue
		}
		if _, ok := idx[key]; !ok {
			idx[key] = i
		}
	}
	return idx
}

// Lookup returns the row number of key, or -1.
func (idx Index) Lookup(key string) int {
	if row, ok := idx[key]; ok {
		return row
	}
	return -1
}
