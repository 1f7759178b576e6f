package workbook

import (
	"github.com/trezcool/schooldesk/core/activity"
	"github.com/trezcool/schooldesk/storage/sheet"
)

func (st *Store) AppendEvent(ev activity.Event) error {
	return st.session.Update(func(doc *sheet.Document) (bool, error) {
		t, err := mustTable(doc, sheet.ActivityTable)
		if err != nil {
			return false, err
		}
		t.Append(sheet.EncodeRow(t.Header(), sheet.Fields{
			"timestamp":   ev.Timestamp,
			"action":      ev.Action,
			"entity_type": ev.EntityType,
			"entity_id":   ev.EntityID,
			"details":     ev.Details,
		}, nil, nowFunc()))
		return true, nil
	})
}

// ListEvents returns the last limit events, oldest first. limit <= 0 returns all of them.
func (st *Store) ListEvents(limit int) ([]activity.Event, error) {
	var events []activity.Event
	err := st.session.View(func(doc *sheet.Document) error {
		for _, f := range records(doc, sheet.ActivityTable) {
			events = append(events, activity.Event{
				Timestamp:  f["timestamp"],
				Action:     f["action"],
				EntityType: f["entity_type"],
				EntityID:   f["entity_id"],
				Details:    f["details"],
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	return events, nil
}
