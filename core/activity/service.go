package activity

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/schooldesk/core"
)

const timestampLayout = "2006-01-02T15:04:05"

// nowFunc is replaced in tests.
var nowFunc = time.Now

type (
	Repository interface {
		AppendEvent(ev Event) error
		// ListEvents returns the last limit events, oldest first; every event when limit <= 0.
		ListEvents(limit int) ([]Event, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) AddEvent(ev Event) error {
	if core.CleanString(ev.Action) == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "action", Error: "this field is required"})
	}
	if ev.Timestamp == "" {
		ev.Timestamp = nowFunc().Format(timestampLayout)
	}
	return errors.Wrap(svc.repo.AppendEvent(ev), "appending activity")
}

// Record stamps and appends an event.
func (svc *Service) Record(action, entityType, entityID, details string) error {
	return svc.AddEvent(Event{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	})
}

func (svc *Service) List(limit int) ([]Event, error) {
	return svc.repo.ListEvents(limit)
}

// Recent returns the last limit events, newest first.
func (svc *Service) Recent(limit int) ([]Event, error) {
	events, err := svc.repo.ListEvents(limit)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}
