package events

import (
	"time"

	"github.com/spec-kit/hr-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventReviewAssigned      EventType = "review_assigned"
	EventReviewStatusChanged EventType = "review_status_changed"
	EventEmployeeCreated     EventType = "employee_created"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EntityID  string      `json:"entity_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ReviewAssignedPayload payload.
type ReviewAssignedPayload struct {
	EmployeeID    string `json:"employee_id"`
	EmployeeEmail string `json:"employee_email,omitempty"`
}

// ReviewStatusChangedPayload payload.
type ReviewStatusChangedPayload struct {
	Action    domain.ReviewAction `json:"action"`
	OldStatus domain.ReviewStatus `json:"old_status"`
	NewStatus domain.ReviewStatus `json:"new_status"`
}

// EmployeeCreatedPayload payload.
type EmployeeCreatedPayload struct {
	CompanyID    string  `json:"company_id"`
	DepartmentID *string `json:"department_id,omitempty"`
	Name         string  `json:"name"`
}
