// Package sheet holds the in-memory model of a workbook (tables of string cells)
// together with the schema repair and row codec rules applied to it.
package sheet

import "strings"

// Table is one sheet of the workbook. Rows[0] is the header row.
type Table struct {
	Name string
	Rows [][]string
}

func NewTable(name string, rows ...[]string) *Table {
	return &Table{Name: name, Rows: rows}
}

// Header returns the header row (nil for an empty table).
func (t *Table) Header() []string {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// Records returns the data rows, i.e. every row after the header.
func (t *Table) Records() [][]string {
	if len(t.Rows) <= 1 {
		return nil
	}
	return t.Rows[1:]
}

func (t *Table) Append(row []string) {
	t.Rows = append(t.Rows, row)
}

// DeleteRow removes Rows[i], shifting the following rows up.
func (t *Table) DeleteRow(i int) {
	if i < 0 || i >= len(t.Rows) {
		return
	}
	t.Rows = append(t.Rows[:i], t.Rows[i+1:]...)
}

// ColumnIndex returns the position of column in the header, or -1.
func (t *Table) ColumnIndex(column string) int {
	return indexOf(t.Header(), column)
}

// Cell returns Rows[row][col], or "" when the row is shorter.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

func (t *Table) Clone() *Table {
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = copyRow(row)
	}
	return &Table{Name: t.Name, Rows: rows}
}

// Document is a whole workbook: named tables kept in file order.
type Document struct {
	tables map[string]*Table
	order  []string
}

func NewDocument(tables ...*Table) *Document {
	doc := &Document{tables: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		doc.Add(t)
	}
	return doc
}

// Add appends t, replacing any table with the same name in place.
func (d *Document) Add(t *Table) {
	if _, ok := d.tables[t.Name]; !ok {
		d.order = append(d.order, t.Name)
	}
	d.tables[t.Name] = t
}

func (d *Document) Table(name string) (*Table, bool) {
	t, ok := d.tables[name]
	return t, ok
}

// EnsureTable returns the named table, creating an empty one if needed.
func (d *Document) EnsureTable(name string) *Table {
	if t, ok := d.tables[name]; ok {
		return t
	}
	t := NewTable(name)
	d.Add(t)
	return t
}

// Tables returns the tables in file order.
func (d *Document) Tables() []*Table {
	tables := make([]*Table, 0, len(d.order))
	for _, name := range d.order {
		tables = append(tables, d.tables[name])
	}
	return tables
}

func (d *Document) Clone() *Document {
	clone := &Document{
		tables: make(map[string]*Table, len(d.tables)),
		order:  append([]string(nil), d.order...),
	}
	for name, t := range d.tables {
		clone.tables[name] = t.Clone()
	}
	return clone
}

func copyRow(row []string) []string {
	if row == nil {
		return nil
	}
	return append(make([]string, 0, len(row)), row...)
}

func indexOf(row []string, value string) int {
	for i, cell := range row {
		if cell == value {
			return i
		}
	}
	return -1
}

// IsBlankRow reports whether every cell of row is empty or whitespace.
func IsBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// rowStartsWith reports whether the first len(prefix) cells of row equal prefix.
func rowStartsWith(row, prefix []string) bool {
	if len(prefix) == 0 || len(row) < len(prefix) {
		return false
	}
	for i, want := range prefix {
		if row[i] != want {
			return false
		}
	}
	return true
}
