package sheet

import "time"

const (
	CreatedAtColumn = "created_at"
	UpdatedAtColumn = "updated_at"

	// TimestampLayout is local time with second precision.
	TimestampLayout = "2006-01-02T15:04:05"
)

// Fields maps column names to cell values.
type Fields map[string]string

// Copy returns a shallow copy of f.
func (f Fields) Copy() Fields {
	c := make(Fields, len(f))
	for k, v := range f {
		c[k] = v
	}
	return c
}

// DecodeRow zips headers with cells up to the shorter of the two.
// All-blank rows are not records: ok is false for them.
func DecodeRow(headers, cells []string) (fields Fields, ok bool) {
	if IsBlankRow(cells) {
		return nil, false
	}
	n := len(headers)
	if len(cells) < n {
		n = len(cells)
	}
	fields = make(Fields, n)
	for i := 0; i < n; i++ {
		h := headers[i]
		if h == "" {
			continue
		}
		if _, dup := fields[h]; dup { // first column wins
			continue
		}
		fields[h] = cells[i]
	}
	return fields, true
}

// EncodeRow builds the cells for a header-ordered row.
// A nil existing row means insert: created_at and updated_at are stamped with now.
// Otherwise only the headers present in fields are overwritten, created_at is kept
// and updated_at refreshed.
func EncodeRow(headers []string, fields Fields, existing []string, now time.Time) []string {
	ts := now.Format(TimestampLayout)
	row := make([]string, len(headers))

	if existing == nil {
		for i, h := range headers {
			switch h {
			case CreatedAtColumn, UpdatedAtColumn:
				row[i] = ts
			default:
				row[i] = fields[h]
			}
		}
		return row
	}

	copy(row, existing)
	if len(existing) > len(headers) { // keep cells beyond the header
		row = append(row, existing[len(headers):]...)
	}
	for i, h := range headers {
		switch h {
		case "", CreatedAtColumn:
			continue
		case UpdatedAtColumn:
			row[i] = ts
		default:
			if v, ok := fields[h]; ok {
				row[i] = v
			}
		}
	}
	return row
}

// ParseTimestamp parses a created_at / updated_at cell. Zero time for blank or malformed cells.
func ParseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if ts, err := time.ParseInLocation(TimestampLayout, s, time.Local); err == nil {
		return ts
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts
	}
	return time.Time{}
}
