package activity

// Entity types besides person kinds.
const (
	EntitySystem = "system"
)

// Event is one append-only activity log entry.
type Event struct {
	Timestamp  string `json:"timestamp"` // 2006-01-02T15:04:05, local
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Details    string `json:"details"`
}
