package payment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schooldesk/core"
	"github.com/trezcool/schooldesk/core/person"
)

type fakeRepo struct {
	records []Record
	saves   int
}

func (repo *fakeRepo) ListPayments(kind person.Kind) ([]Record, error) {
	var out []Record
	for _, rec := range repo.records {
		if rec.Kind == kind {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (repo *fakeRepo) FindPayment(key Key) (Record, bool, error) {
	for _, rec := range repo.records {
		if rec.Key == key {
			return rec, true, nil
		}
	}
	return Record{}, false, nil
}

func (repo *fakeRepo) UpdatePayment(key Key, fn func(Record) (Record, error)) (Record, error) {
	i, current := -1, DefaultRecord(key)
	for j, rec := range repo.records {
		if rec.Key == key {
			i, current = j, rec
			break
		}
	}
	next, err := fn(current)
	if err != nil {
		return Record{}, err
	}
	repo.saves++
	if i < 0 {
		repo.records = append(repo.records, Record{Key: key, Stored: true})
		i = len(repo.records) - 1
	}
	repo.records[i].Status = next.Status
	repo.records[i].Amount = next.Amount
	return repo.records[i], nil
}

type fakePeople []string

func (p fakePeople) IDs(person.Kind) ([]string, error) { return p, nil }

type fakeRecorder struct {
	actions []string
}

func (rec *fakeRecorder) Record(action, _, _, _ string) error {
	rec.actions = append(rec.actions, action)
	return nil
}

func studentKey(id string, year, month int) Key {
	return Key{Kind: person.KindStudent, PersonID: id, Period: Period{Year: year, Month: month}}
}

func stored(key Key, status Status, amount int64) Record {
	return Record{Key: key, Status: status, Amount: decimal.NewFromInt(amount), Stored: true}
}

func TestPeriod_Prev(t *testing.T) {
	assert.Equal(t, Period{Year: 2025, Month: 12}, Period{Year: 2026, Month: 1}.Prev())
	assert.Equal(t, Period{Year: 2026, Month: 2}, Period{Year: 2026, Month: 3}.Prev())
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusPaid, ParseStatus(" PAID "))
	assert.Equal(t, StatusPending, ParseStatus(""))
	assert.Equal(t, StatusPending, ParseStatus("partial"))

	_, err := ParseStatusStrict("partial")
	assert.True(t, core.IsValidation(err))
}

func TestService_GetRecord_default(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, fakePeople{}, nil, nil)

	rec, err := svc.GetRecord(studentKey("STU-0001", 2026, 3))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, rec.Status)
	assert.True(t, rec.Amount.IsZero())
	assert.False(t, rec.Stored)
	assert.Zero(t, repo.saves, "reading must not create rows")
}

func TestService_SetPayment(t *testing.T) {
	repo := &fakeRepo{}
	rec := &fakeRecorder{}
	svc := NewService(repo, fakePeople{}, rec, nil)
	key := studentKey("STU-0001", 2026, 3)

	_, err := svc.SetPayment(key, StatusPaid, decimal.NewFromInt(500))
	require.NoError(t, err)
	got, err := svc.SetPayment(key, StatusPending, decimal.NewFromInt(450))
	require.NoError(t, err)

	assert.Len(t, repo.records, 1, "composite key is unique")
	assert.Equal(t, StatusPending, got.Status)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(450)))
	assert.Equal(t, []string{ActionSetPayment, ActionSetPayment}, rec.actions)
}

func TestService_SetPayment_validation(t *testing.T) {
	tests := []struct {
		name   string
		key    Key
		status Status
		amount int64
		field  string
	}{
		{name: "month 13", key: studentKey("STU-0001", 2026, 13), status: StatusPaid, field: "month"},
		{name: "month 0", key: studentKey("STU-0001", 2026, 0), status: StatusPaid, field: "month"},
		{name: "year 0", key: studentKey("STU-0001", 0, 1), status: StatusPaid, field: "year"},
		{name: "blank id", key: studentKey(" ", 2026, 1), status: StatusPaid, field: "person_id"},
		{name: "unknown kind", key: Key{Kind: "parent", PersonID: "P1", Period: Period{2026, 1}}, status: StatusPaid, field: "kind"},
		{name: "bad status", key: studentKey("STU-0001", 2026, 1), status: "Partial", field: "status"},
		{name: "negative amount", key: studentKey("STU-0001", 2026, 1), status: StatusPaid, amount: -1, field: "amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			svc := NewService(repo, fakePeople{}, nil, nil)
			_, err := svc.SetPayment(tt.key, tt.status, decimal.NewFromInt(tt.amount))
			vErr, ok := err.(*core.ValidationError)
			require.True(t, ok, "got %v", err)
			require.Len(t, vErr.Fields, 1)
			assert.Equal(t, tt.field, vErr.Fields[0].Field)
			assert.Zero(t, repo.saves)
		})
	}
}

func TestService_Toggle(t *testing.T) {
	key := studentKey("STU-0001", 2026, 3)
	repo := &fakeRepo{records: []Record{stored(key, StatusPending, 500)}}
	rec := &fakeRecorder{}
	svc := NewService(repo, fakePeople{}, rec, nil)

	got, err := svc.Toggle(key)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, got.Status)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(500)), "amount is kept")

	got, err = svc.Toggle(key)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)
	assert.Equal(t, []string{ActionTogglePayment, ActionTogglePayment}, rec.actions)
}

func TestService_SetStatus_keepsAmount(t *testing.T) {
	key := studentKey("STU-0001", 2026, 3)
	repo := &fakeRepo{records: []Record{stored(key, StatusPending, 500)}}
	svc := NewService(repo, fakePeople{}, nil, nil)

	got, err := svc.SetStatus(key, StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, got.Status)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, 1, repo.saves)

	_, err = svc.SetStatus(key, "Partial")
	assert.True(t, core.IsValidation(err))
	assert.Equal(t, 1, repo.saves)
}

func TestService_Stats_validation(t *testing.T) {
	svc := NewService(&fakeRepo{}, fakePeople{}, nil, nil)

	_, err := svc.Stats("parent", Period{Year: 2026, Month: 3})
	assert.Equal(t, person.ErrUnknownKind, err)

	_, err = svc.Stats(person.KindStudent, Period{Year: 2026, Month: 13})
	require.True(t, core.IsValidation(err))
	assert.Equal(t, "month", err.(*core.ValidationError).Fields[0].Field)
}

func TestService_Stats(t *testing.T) {
	repo := &fakeRepo{records: []Record{
		stored(studentKey("STU-0001", 2026, 3), StatusPaid, 500),
		stored(studentKey("STU-0002", 2026, 3), StatusPending, 500),
		stored(studentKey("STU-0003", 2026, 2), StatusPaid, 500),
		stored(studentKey("STU-0404", 2026, 3), StatusPaid, 500), // no such person
	}}
	svc := NewService(repo, fakePeople{"STU-0001", "STU-0002", "STU-0003", ""}, nil, nil)

	stats, err := svc.Stats(person.KindStudent, Period{Year: 2026, Month: 3})
	require.NoError(t, err)
	assert.Equal(t, Stats{Paid: 1, Pending: 2, Total: 3}, stats)
	assert.Equal(t, stats.Total, stats.Paid+stats.Pending)
}

func TestService_PendingMonths(t *testing.T) {
	repo := &fakeRepo{records: []Record{
		stored(studentKey("STU-0001", 2026, 3), StatusPaid, 500),
		stored(studentKey("STU-0001", 2026, 2), StatusPending, 450),
		stored(studentKey("STU-0001", 2026, 1), StatusPending, 0),
		stored(studentKey("STU-0002", 2025, 12), StatusPaid, 500),
	}}
	svc := NewService(repo, fakePeople{}, nil, nil)
	def := decimal.NewFromInt(300)

	months, err := svc.PendingMonths(person.KindStudent, "STU-0001", Period{Year: 2026, Month: 3}, def)
	require.NoError(t, err)

	require.Len(t, months, LookbackMonths-1)
	assert.Equal(t, Period{Year: 2024, Month: 4}, months[0].Period, "oldest first")
	last := months[len(months)-1]
	assert.Equal(t, Period{Year: 2026, Month: 2}, last.Period)
	assert.True(t, last.Amount.Equal(decimal.NewFromInt(450)), "stored positive amount wins")
	assert.True(t, months[len(months)-2].Amount.Equal(def), "zero amount falls back to default")
	for _, m := range months {
		assert.NotEqual(t, Period{Year: 2026, Month: 3}, m.Period, "paid month is not pending")
	}

	total, err := svc.TotalPending(person.KindStudent, "STU-0001", Period{Year: 2026, Month: 3}, def)
	require.NoError(t, err)
	// 22 months at the default, February at its stored amount
	assert.True(t, total.Equal(decimal.NewFromInt(22*300+450)), total.String())
}
