package domain

import (
	"fmt"
	"strings"
	"time"
)

// ReviewStatus enumerates lifecycle states for performance reviews.
type ReviewStatus string

const (
	ReviewStatusPending          ReviewStatus = "PENDING"
	ReviewStatusScheduled        ReviewStatus = "SCHEDULED"
	ReviewStatusFeedbackProvided ReviewStatus = "FEEDBACK_PROVIDED"
	ReviewStatusUnderApproval    ReviewStatus = "UNDER_APPROVAL"
	ReviewStatusApproved         ReviewStatus = "APPROVED"
	ReviewStatusRejected         ReviewStatus = "REJECTED"
)

// ValidReviewStatus reports whether the value is a known status.
func ValidReviewStatus(s ReviewStatus) bool {
	switch s {
	case ReviewStatusPending, ReviewStatusScheduled, ReviewStatusFeedbackProvided,
		ReviewStatusUnderApproval, ReviewStatusApproved, ReviewStatusRejected:
		return true
	}
	return false
}

// ReviewAction identifies a workflow transition on a review.
type ReviewAction string

const (
	ReviewActionConfirm         ReviewAction = "confirm"
	ReviewActionProvideFeedback ReviewAction = "provide_feedback"
	ReviewActionPushForApproval ReviewAction = "push_for_approval"
	ReviewActionApprove         ReviewAction = "approve"
	ReviewActionReject          ReviewAction = "reject"
)

// transitionRule describes one edge set of the status machine: the statuses
// an action may fire from and the status it lands on.
type transitionRule struct {
	from []ReviewStatus
	to   ReviewStatus
}

// reviewTransitions is the complete transition table. PENDING is the sole
// initial status (set at assign time, which is a creation, not a transition)
// and APPROVED is terminal. REJECTED loops back through provide_feedback.
var reviewTransitions = map[ReviewAction]transitionRule{
	ReviewActionConfirm:         {from: []ReviewStatus{ReviewStatusPending}, to: ReviewStatusScheduled},
	ReviewActionProvideFeedback: {from: []ReviewStatus{ReviewStatusScheduled, ReviewStatusRejected}, to: ReviewStatusFeedbackProvided},
	ReviewActionPushForApproval: {from: []ReviewStatus{ReviewStatusFeedbackProvided}, to: ReviewStatusUnderApproval},
	ReviewActionApprove:         {from: []ReviewStatus{ReviewStatusUnderApproval}, to: ReviewStatusApproved},
	ReviewActionReject:          {from: []ReviewStatus{ReviewStatusUnderApproval}, to: ReviewStatusRejected},
}

// InvalidTransitionError reports an action fired from a status outside its
// allowed sources. The entity is left untouched when this is returned.
type InvalidTransitionError struct {
	Action  ReviewAction
	Current ReviewStatus
	Allowed []ReviewStatus
}

func (e *InvalidTransitionError) Error() string {
	allowed := make([]string, 0, len(e.Allowed))
	for _, s := range e.Allowed {
		allowed = append(allowed, string(s))
	}
	return fmt.Sprintf("cannot %s a review in status %s; allowed from: %s",
		e.Action, e.Current, strings.Join(allowed, ", "))
}

// NextStatus resolves the status an action moves a review to. It is total
// over (status, action): every pair either yields the target status or an
// *InvalidTransitionError naming the allowed source statuses.
func NextStatus(current ReviewStatus, action ReviewAction) (ReviewStatus, error) {
	rule, ok := reviewTransitions[action]
	if !ok {
		return "", fmt.Errorf("unknown review action %q", action)
	}
	for _, from := range rule.from {
		if from == current {
			return rule.to, nil
		}
	}
	return "", &InvalidTransitionError{Action: action, Current: current, Allowed: rule.from}
}

// AllowedSources returns the statuses an action may fire from.
func AllowedSources(action ReviewAction) []ReviewStatus {
	rule := reviewTransitions[action]
	out := make([]ReviewStatus, len(rule.from))
	copy(out, rule.from)
	return out
}

// PerformanceReview tracks one employee's evaluation cycle. The employee
// reference is required and must carry the EMPLOYEE role at assign time;
// assigner records the HR account that created the review and approved_by the
// manager that approved it.
type PerformanceReview struct {
	ID           string
	EmployeeID   string
	AssignerID   *string
	ApprovedByID *string
	ScheduledAt  *time.Time
	Feedback     *string
	Status       ReviewStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Expansions populated by repository joins; nil when not loaded.
	Employee   *UserRef
	Assigner   *UserRef
	ApprovedBy *UserRef
}
