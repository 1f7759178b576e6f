package payment

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/trezcool/schooldesk/core"
	"github.com/trezcool/schooldesk/core/person"
)

// Activity actions
const (
	ActionSetPayment    = "set_payment"
	ActionTogglePayment = "toggle_payment"
)

type (
	Repository interface {
		ListPayments(kind person.Kind) ([]Record, error)
		// FindPayment returns the first stored record with the key.
		FindPayment(key Key) (Record, bool, error)
		// UpdatePayment hands fn the first stored record with the key, or DefaultRecord,
		// and stores the status and amount it returns in the same write. The stored
		// record is returned.
		UpdatePayment(key Key, fn func(current Record) (Record, error)) (Record, error)
	}

	// People lists the IDs the statistics are computed over.
	People interface {
		IDs(kind person.Kind) ([]string, error)
	}

	Recorder interface {
		Record(action, entityType, entityID, details string) error
	}

	Service struct {
		repo     Repository
		people   People
		recorder Recorder
		log      core.Logger
	}
)

func NewService(repo Repository, people People, recorder Recorder, log core.Logger) *Service {
	if log == nil {
		log = core.NopLogger{}
	}
	return &Service{repo: repo, people: people, recorder: recorder, log: log}
}

func (svc *Service) ListPayments(kind person.Kind) ([]Record, error) {
	if !kind.Valid() {
		return nil, person.ErrUnknownKind
	}
	return svc.repo.ListPayments(kind)
}

// GetRecord returns the stored record, or the Pending zero-amount default. It never writes.
func (svc *Service) GetRecord(key Key) (Record, error) {
	if err := key.Validate(); err != nil {
		return Record{}, err
	}
	rec, found, err := svc.repo.FindPayment(key)
	if err != nil {
		return Record{}, err
	}
	if !found {
		return DefaultRecord(key), nil
	}
	return rec, nil
}

func (svc *Service) Status(key Key) (Status, error) {
	rec, err := svc.GetRecord(key)
	if err != nil {
		return "", err
	}
	return rec.Status, nil
}

// SetPayment upserts status and amount for the key.
func (svc *Service) SetPayment(key Key, status Status, amount decimal.Decimal) (Record, error) {
	if err := validateChange(key, status, amount); err != nil {
		return Record{}, err
	}
	rec, err := svc.repo.UpdatePayment(key, func(current Record) (Record, error) {
		current.Status, current.Amount = status, amount
		return current, nil
	})
	if err != nil {
		return Record{}, err
	}
	svc.record(ActionSetPayment, key, fmt.Sprintf("%s %s %s", key.Period, status, amount))
	return rec, nil
}

// SetStatus changes the status, keeping the stored amount.
func (svc *Service) SetStatus(key Key, status Status) (Record, error) {
	if err := validateChange(key, status, decimal.Zero); err != nil {
		return Record{}, err
	}
	rec, err := svc.repo.UpdatePayment(key, func(current Record) (Record, error) {
		current.Status = status
		return current, nil
	})
	if err != nil {
		return Record{}, err
	}
	svc.record(ActionSetPayment, key, fmt.Sprintf("%s %s %s", key.Period, rec.Status, rec.Amount))
	return rec, nil
}

// Toggle flips Paid and Pending, keeping the stored amount.
func (svc *Service) Toggle(key Key) (Record, error) {
	if err := key.Validate(); err != nil {
		return Record{}, err
	}
	rec, err := svc.repo.UpdatePayment(key, func(current Record) (Record, error) {
		current.Status = current.Status.Toggle()
		return current, nil
	})
	if err != nil {
		return Record{}, err
	}
	svc.record(ActionTogglePayment, key, fmt.Sprintf("%s %s", key.Period, rec.Status))
	return rec, nil
}

func validateChange(key Key, status Status, amount decimal.Decimal) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if status != StatusPaid && status != StatusPending {
		return core.NewValidationError(nil, core.FieldError{Field: "status", Error: "must be Paid or Pending"})
	}
	if amount.IsNegative() {
		return core.NewValidationError(nil, core.FieldError{Field: "amount", Error: "must be 0 or greater"})
	}
	return nil
}

// Stats counts every listed person of kind as Paid or Pending for the period.
func (svc *Service) Stats(kind person.Kind, period Period) (Stats, error) {
	if !kind.Valid() {
		return Stats{}, person.ErrUnknownKind
	}
	if err := period.Validate(); err != nil {
		return Stats{}, err
	}
	ids, err := svc.people.IDs(kind)
	if err != nil {
		return Stats{}, err
	}
	records, err := svc.repo.ListPayments(kind)
	if err != nil {
		return Stats{}, err
	}

	paid := make(map[string]bool, len(records))
	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		if rec.Period != period || seen[rec.PersonID] {
			continue
		}
		seen[rec.PersonID] = true // first record wins, as in UpdatePayment
		paid[rec.PersonID] = rec.Paid()
	}

	var stats Stats
	for _, id := range ids {
		if id == "" {
			continue
		}
		stats.Total++
		if paid[id] {
			stats.Paid++
		} else {
			stats.Pending++
		}
	}
	return stats, nil
}

// PendingMonths walks the LookbackMonths months ending at upTo and returns those not Paid,
// oldest first. A month is owed its stored amount when positive, defaultAmount otherwise.
func (svc *Service) PendingMonths(kind person.Kind, personID string, upTo Period, defaultAmount decimal.Decimal) ([]PendingMonth, error) {
	if err := (Key{Kind: kind, PersonID: personID, Period: upTo}).Validate(); err != nil {
		return nil, err
	}
	records, err := svc.repo.ListPayments(kind)
	if err != nil {
		return nil, err
	}
	byPeriod := make(map[Period]Record)
	for _, rec := range records {
		if rec.PersonID != personID {
			continue
		}
		if _, ok := byPeriod[rec.Period]; !ok {
			byPeriod[rec.Period] = rec
		}
	}

	pending := make([]PendingMonth, 0, LookbackMonths)
	p := upTo
	for i := 0; i < LookbackMonths; i++ {
		rec, ok := byPeriod[p]
		if !ok || !rec.Paid() {
			amount := defaultAmount
			if ok && rec.Amount.IsPositive() {
				amount = rec.Amount
			}
			pending = append(pending, PendingMonth{Period: p, Amount: amount})
		}
		p = p.Prev()
	}
	for i, j := 0, len(pending)-1; i < j; i, j = i+1, j-1 {
		pending[i], pending[j] = pending[j], pending[i]
	}
	return pending, nil
}

// TotalPending sums PendingMonths.
func (svc *Service) TotalPending(kind person.Kind, personID string, upTo Period, defaultAmount decimal.Decimal) (decimal.Decimal, error) {
	months, err := svc.PendingMonths(kind, personID, upTo, defaultAmount)
	if err != nil {
		return decimal.Zero, err
	}
	return Sum(months), nil
}

func Sum(months []PendingMonth) decimal.Decimal {
	total := decimal.Zero
	for _, m := range months {
		total = total.Add(m.Amount)
	}
	return total
}

func (svc *Service) record(action string, key Key, details string) {
	if svc.recorder == nil {
		return
	}
	if err := svc.recorder.Record(action, key.Kind.String(), key.PersonID, details); err != nil {
		svc.log.Warn("recording activity failed", map[string]interface{}{"action": action, "id": key.PersonID}, err)
	}
}
