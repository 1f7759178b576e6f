package workbook

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/trezcool/schooldesk/core/payment"
	"github.com/trezcool/schooldesk/core/person"
	"github.com/trezcool/schooldesk/storage/sheet"
)

func paymentTable(kind person.Kind) (string, error) {
	switch kind {
	case person.KindStudent:
		return sheet.StudentPaymentsTable, nil
	case person.KindTeacher:
		return sheet.TeacherPaymentsTable, nil
	}
	return "", person.ErrUnknownKind
}

// decodePayment skips rows without an ID or with a malformed year or month.
func decodePayment(kind person.Kind, f sheet.Fields) (payment.Record, bool) {
	id := f[kind.IDField()]
	if strings.TrimSpace(id) == "" {
		return payment.Record{}, false
	}
	year, ok := parseWhole(f[sheet.YearColumn])
	if !ok {
		return payment.Record{}, false
	}
	month, ok := parseWhole(f[sheet.MonthColumn])
	if !ok {
		return payment.Record{}, false
	}
	return payment.Record{
		Key:       payment.Key{Kind: kind, PersonID: id, Period: payment.Period{Year: year, Month: month}},
		Status:    payment.ParseStatus(f[sheet.StatusColumn]),
		Amount:    parseAmount(f[sheet.AmountColumn]),
		UpdatedAt: sheet.ParseTimestamp(f[sheet.UpdatedAtColumn]),
		Stored:    true,
	}, true
}

// parseWhole accepts "3" as well as "3.0", as spreadsheet programs may write either.
func parseWhole(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// parseAmount reads malformed amounts as 0.
func parseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (st *Store) ListPayments(kind person.Kind) ([]payment.Record, error) {
	name, err := paymentTable(kind)
	if err != nil {
		return nil, err
	}
	var recs []payment.Record
	err = st.session.View(func(doc *sheet.Document) error {
		for _, f := range records(doc, name) {
			if rec, ok := decodePayment(kind, f); ok {
				recs = append(recs, rec)
			}
		}
		return nil
	})
	return recs, err
}

func (st *Store) FindPayment(key payment.Key) (payment.Record, bool, error) {
	recs, err := st.ListPayments(key.Kind)
	if err != nil {
		return payment.Record{}, false, err
	}
	for _, rec := range recs {
		if rec.Key == key {
			return rec, true, nil
		}
	}
	return payment.Record{}, false, nil
}

// UpdatePayment upserts on (person, year, month), reading the current record from the
// working copy so the change cannot interleave with another write. An existing row only
// gets its status, amount and updated_at rewritten.
func (st *Store) UpdatePayment(key payment.Key, fn func(current payment.Record) (payment.Record, error)) (payment.Record, error) {
	name, err := paymentTable(key.Kind)
	if err != nil {
		return payment.Record{}, err
	}

	var stored payment.Record
	err = st.session.Update(func(doc *sheet.Document) (bool, error) {
		t, err := mustTable(doc, name)
		if err != nil {
			return false, err
		}
		header := t.Header()
		row, current := -1, payment.DefaultRecord(key)
		for i := 1; i < len(t.Rows); i++ {
			f, ok := sheet.DecodeRow(header, t.Rows[i])
			if !ok {
				continue
			}
			if rec, ok := decodePayment(key.Kind, f); ok && rec.Key == key {
				row, current = i, rec
				break
			}
		}

		next, err := fn(current)
		if err != nil {
			return false, err
		}
		fields := sheet.Fields{
			sheet.StatusColumn: string(next.Status),
			sheet.AmountColumn: next.Amount.String(),
		}
		now := nowFunc()
		if row >= 0 {
			t.Rows[row] = sheet.EncodeRow(header, fields, t.Rows[row], now)
		} else {
			fields[key.Kind.IDField()] = key.PersonID
			fields[sheet.YearColumn] = strconv.Itoa(key.Year)
			fields[sheet.MonthColumn] = strconv.Itoa(key.Month)
			row = len(t.Rows)
			t.Append(sheet.EncodeRow(header, fields, nil, now))
		}

		f, _ := sheet.DecodeRow(header, t.Rows[row])
		stored, _ = decodePayment(key.Kind, f)
		return true, nil
	})
	if err != nil {
		return payment.Record{}, err
	}
	return stored, nil
}
