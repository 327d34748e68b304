package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// ChangeEvent announces that a backend record was created, updated or
// deleted through this client. Consumers refetch the record by ID.
type ChangeEvent struct {
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChangeEvent creates an event stamped with the current time.
func NewChangeEvent(entity, action string, id int64) *ChangeEvent {
	return &ChangeEvent{
		Entity:    entity,
		Action:    action,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *ChangeEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ChangeEventFromJSON decodes an event. Events without an entity or action
// are rejected.
func ChangeEventFromJSON(data []byte) (*ChangeEvent, error) {
	var ev ChangeEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	if ev.Entity == "" || ev.Action == "" {
		return nil, fmt.Errorf("change event without entity or action")
	}
	return &ev, nil
}
