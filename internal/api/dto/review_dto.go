package dto

import (
	"time"

	"github.com/spec-kit/hr-service/internal/domain"
)

// AssignReviewRequest payload. Only the target employee is client-supplied;
// the server owns the assigner and the initial status.
type AssignReviewRequest struct {
	Employee string `json:"employee"`
}

// FeedbackRequest payload for submitting feedback text.
type FeedbackRequest struct {
	Feedback string `json:"feedback"`
}

// ReviewResponse is the full review representation, with referenced accounts
// expanded to id + email pairs.
type ReviewResponse struct {
	ID              string              `json:"id"`
	Employee        string              `json:"employee"`
	EmployeeEmail   string              `json:"employee_email"`
	Assigner        *string             `json:"assigner"`
	AssignerEmail   *string             `json:"assigner_email"`
	ApprovedBy      *string             `json:"approved_by"`
	ApprovedByEmail *string             `json:"approved_by_email"`
	ScheduledAt     *time.Time          `json:"scheduled_at"`
	Feedback        *string             `json:"feedback"`
	Status          domain.ReviewStatus `json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}
