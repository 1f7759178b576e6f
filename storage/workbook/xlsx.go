package workbook

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/schooldesk/storage/sheet"
)

const defaultSheet = "Sheet1"

// XLSXBackend stores the document as an .xlsx file, one sheet per table.
type XLSXBackend struct {
	path string
}

var _ Backend = (*XLSXBackend)(nil) // interface compliance check

func NewXLSXBackend(path string) *XLSXBackend {
	return &XLSXBackend{path: path}
}

func (b *XLSXBackend) Path() string { return b.path }

func (b *XLSXBackend) Load() (*sheet.Document, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		return nil, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "parsing workbook")
	}
	defer f.Close()

	doc := sheet.NewDocument()
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, errors.Wrapf(err, "reading sheet %q", name)
		}
		doc.Add(sheet.NewTable(name, rows...))
	}
	return doc, nil
}

// Save writes the document to a temporary file and renames it over the target.
func (b *XLSXBackend) Save(doc *sheet.Document) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, t := range doc.Tables() {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, t.Name); err != nil {
				return errors.Wrapf(err, "naming sheet %q", t.Name)
			}
		} else if _, err := f.NewSheet(t.Name); err != nil {
			return errors.Wrapf(err, "adding sheet %q", t.Name)
		}
		if err := writeTable(f, t); err != nil {
			return err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return errors.Wrap(err, "encoding workbook")
	}
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return errors.Wrap(err, "creating workbook dir")
	}
	return atomic.WriteFile(b.path, buf)
}

func (b *XLSXBackend) ModTime() (time.Time, error) {
	info, err := os.Stat(b.path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func writeTable(f *excelize.File, t *sheet.Table) error {
	header := t.Header()
	for r, row := range t.Rows {
		if len(row) == 0 {
			continue
		}
		values := make([]interface{}, len(row))
		for c, v := range row {
			values[c] = v
			if r > 0 && c < len(header) && sheet.NumericColumns[header[c]] {
				values[c] = numericCell(v)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return errors.WithStack(err)
		}
		if err := f.SetSheetRow(t.Name, cell, &values); err != nil {
			return errors.Wrapf(err, "writing %s!%s", t.Name, cell)
		}
	}
	return nil
}

// numericCell returns v as a number when it parses as one, unchanged otherwise.
func numericCell(v string) interface{} {
	s := strings.TrimSpace(v)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
		return n
	}
	return v
}
