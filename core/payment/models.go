package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trezcool/schooldesk/core"
	"github.com/trezcool/schooldesk/core/person"
)

// Statuses
const (
	StatusPaid    Status = "Paid"
	StatusPending Status = "Pending"
)

// LookbackMonths is the size of the arrears window, the requested month included.
// Older unpaid months are not reported.
const LookbackMonths = 24

// Status is Paid or Pending; anything read from storage that is not "paid" counts as Pending.
type Status string

// ParseStatus is lenient: blank and unknown values are Pending.
func ParseStatus(s string) Status {
	if core.CleanString(s, true /* lower */) == "paid" {
		return StatusPaid
	}
	return StatusPending
}

// ParseStatusStrict only accepts paid or pending, in any case.
func ParseStatusStrict(s string) (Status, error) {
	switch core.CleanString(s, true /* lower */) {
	case "paid":
		return StatusPaid, nil
	case "pending":
		return StatusPending, nil
	}
	return "", core.NewValidationError(nil, core.FieldError{Field: "status", Error: "must be Paid or Pending"})
}

func (s Status) Toggle() Status {
	if s == StatusPaid {
		return StatusPending
	}
	return StatusPaid
}

type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Prev returns the month before p, wrapping January to December of the previous year.
func (p Period) Prev() Period {
	if p.Month <= 1 {
		return Period{Year: p.Year - 1, Month: 12}
	}
	return Period{Year: p.Year, Month: p.Month - 1}
}

func (p Period) String() string { return fmt.Sprintf("%04d-%02d", p.Year, p.Month) }

func (p Period) Validate() error {
	var flds []core.FieldError
	if p.Year < 1 {
		flds = append(flds, core.FieldError{Field: "year", Error: "must be 1 or greater"})
	}
	if p.Month < 1 || p.Month > 12 {
		flds = append(flds, core.FieldError{Field: "month", Error: "must be between 1 and 12"})
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

// Key identifies a payment record.
type Key struct {
	Kind     person.Kind `json:"kind"`
	PersonID string      `json:"person_id"`
	Period
}

func (k Key) Validate() error {
	var flds []core.FieldError
	if !k.Kind.Valid() {
		flds = append(flds, core.FieldError{Field: "kind", Error: "must be student or teacher"})
	}
	if strings.TrimSpace(k.PersonID) == "" {
		flds = append(flds, core.FieldError{Field: "person_id", Error: "this field is required"})
	}
	if err := k.Period.Validate(); err != nil {
		flds = append(flds, err.(*core.ValidationError).Fields...)
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

type Record struct {
	Key
	Status    Status          `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
	UpdatedAt time.Time       `json:"updated_at"` // local, zero for synthetic records
	Stored    bool            `json:"stored"`     // false when no row exists yet
}

// DefaultRecord is what an absent record reads as.
func DefaultRecord(key Key) Record {
	return Record{Key: key, Status: StatusPending, Amount: decimal.Zero}
}

func (r Record) Paid() bool { return r.Status == StatusPaid }

// Stats counts the people of a kind by their status for one month.
type Stats struct {
	Paid    int `json:"paid"`
	Pending int `json:"pending"`
	Total   int `json:"total"`
}

type PendingMonth struct {
	Period
	Amount decimal.Decimal `json:"amount"`
}
