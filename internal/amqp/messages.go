package amqp

import (
	"encoding/json"
	"time"
)

const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// RecordEvent is a lightweight notification that a record changed.
// It carries only identifiers, the worker fetches the full record
// from the store when it needs one.
type RecordEvent struct {
	Kind      string    `json:"kind"`
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRecordEvent creates an event for the given record
func NewRecordEvent(kind, id, owner, action string) *RecordEvent {
	return &RecordEvent{
		Kind:      kind,
		ID:        id,
		Owner:     owner,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *RecordEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// RecordEventFromJSON creates an event from JSON bytes
func RecordEventFromJSON(data []byte) (*RecordEvent, error) {
	var e RecordEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
