package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEmployeeCreated EventType = "employee_created"
	EventEmployeeUpdated EventType = "employee_updated"
	EventEmployeeDeleted EventType = "employee_deleted"
)

// AllEventTypes lists every event the service emits.
var AllEventTypes = []EventType{
	EventEmployeeCreated,
	EventEmployeeUpdated,
	EventEmployeeDeleted,
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	EmployeeID string      `json:"employee_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload,omitempty"`
}

// EmployeeChangedPayload describes a created or updated record. It never
// carries secrete_code.
type EmployeeChangedPayload struct {
	Name        string `json:"emp_name"`
	Email       string `json:"emp_email"`
	DeptCode    string `json:"dept_code"`
	JoiningDate string `json:"joining_date"`
}
