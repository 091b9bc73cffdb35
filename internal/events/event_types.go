package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAreaCreated     EventType = "area.created"
	EventAreaUpdated     EventType = "area.updated"
	EventAreaDeleted     EventType = "area.deleted"
	EventRoleCreated     EventType = "role.created"
	EventRoleUpdated     EventType = "role.updated"
	EventRoleDeleted     EventType = "role.deleted"
	EventEmployeeCreated EventType = "employee.created"
	EventEmployeeUpdated EventType = "employee.updated"
	EventEmployeeDeleted EventType = "employee.deleted"
)

// AllTypes lists every event type in declaration order.
var AllTypes = []EventType{
	EventAreaCreated, EventAreaUpdated, EventAreaDeleted,
	EventRoleCreated, EventRoleUpdated, EventRoleDeleted,
	EventEmployeeCreated, EventEmployeeUpdated, EventEmployeeDeleted,
}

// Event represents a domain event emitted by services after a commit.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	ResourceID int64     `json:"resource_id"`
	Timestamp  time.Time `json:"timestamp"`
	Payload    any       `json:"payload,omitempty"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, resourceID int64, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		ResourceID: resourceID,
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
	}
}

// NamePayload accompanies area and role create/update events.
type NamePayload struct {
	Name string `json:"name"`
}

// EmployeePayload accompanies employee create/update events.
type EmployeePayload struct {
	AreaID int64   `json:"area_id"`
	Roles  []int64 `json:"roles"`
}
