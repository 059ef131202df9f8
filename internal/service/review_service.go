package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/hr-service/internal/auth"
	"github.com/spec-kit/hr-service/internal/domain"
	"github.com/spec-kit/hr-service/internal/events"
	"github.com/spec-kit/hr-service/internal/repository"
	apperrors "github.com/spec-kit/hr-service/pkg/util"
)

// ReviewService owns the performance review workflow: creation by HR and the
// five role-gated status transitions. Every transition checks the actor's
// role against the permission table first, then validates the current status
// against the transition rules, and writes through an atomic compare-and-set
// so concurrent requests against the same review produce exactly one winner.
type ReviewService struct {
	reviews    repository.ReviewRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// ReviewDependencies bundles collaborators for the review service.
type ReviewDependencies struct {
	ReviewRepo repository.ReviewRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// ReviewListFilter describes listing filters.
type ReviewListFilter struct {
	EmployeeID *string
	Statuses   []domain.ReviewStatus
}

// NewReviewService constructs the service.
func NewReviewService(deps ReviewDependencies) *ReviewService {
	return &ReviewService{
		reviews:    deps.ReviewRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Assign creates a review for an employee. The caller becomes the assigner
// and the review starts PENDING. The target account must carry the EMPLOYEE
// role at this moment; the constraint is not re-validated afterward.
func (s *ReviewService) Assign(ctx context.Context, actor *domain.User, employeeID string) (*domain.PerformanceReview, error) {
	if err := auth.Authorize(actor, auth.ActionAssignReview); err != nil {
		return nil, err
	}

	employee, err := s.users.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee": employeeID})
		}
		return nil, apperrors.MapError(err)
	}
	if employee.Role != domain.RoleEmployee {
		return nil, apperrors.NewValidationError("invalid employee", map[string]any{
			"employee": "employee must have role EMPLOYEE",
		})
	}

	assignerID := actor.ID
	review := &domain.PerformanceReview{
		EmployeeID: employee.ID,
		AssignerID: &assignerID,
		Status:     domain.ReviewStatusPending,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, apperrors.MapError(err)
	}
	review.Employee = &domain.UserRef{ID: employee.ID, Email: employee.Email}
	review.Assigner = &domain.UserRef{ID: actor.ID, Email: actor.Email}

	s.publish(ctx, actor, events.Event{
		Type:     events.EventReviewAssigned,
		EntityID: review.ID,
		Payload: events.ReviewAssignedPayload{
			EmployeeID:    employee.ID,
			EmployeeEmail: employee.Email,
		},
	})
	return review, nil
}

// List returns reviews matching the filter for ADMIN/HR/MANAGER callers.
func (s *ReviewService) List(ctx context.Context, actor *domain.User, filter ReviewListFilter) ([]domain.PerformanceReview, error) {
	if err := auth.Authorize(actor, auth.ActionListReviews); err != nil {
		return nil, err
	}
	for _, status := range filter.Statuses {
		if !domain.ValidReviewStatus(status) {
			return nil, apperrors.NewValidationError("invalid status filter", map[string]any{
				"status": string(status),
			})
		}
	}
	reviews, err := s.reviews.List(ctx, repository.ReviewFilter{
		EmployeeID: filter.EmployeeID,
		Statuses:   filter.Statuses,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return reviews, nil
}

// ListOwn returns the caller's reviews. This is the single ownership-scoped
// read: the filter is pinned to the caller's identity, not taken from input.
func (s *ReviewService) ListOwn(ctx context.Context, actor *domain.User) ([]domain.PerformanceReview, error) {
	if err := auth.Authorize(actor, auth.ActionListOwnReviews); err != nil {
		return nil, err
	}
	employeeID := actor.ID
	reviews, err := s.reviews.List(ctx, repository.ReviewFilter{EmployeeID: &employeeID})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return reviews, nil
}

// Get fetches a single review for ADMIN/HR/MANAGER callers.
func (s *ReviewService) Get(ctx context.Context, actor *domain.User, reviewID string) (*domain.PerformanceReview, error) {
	if err := auth.Authorize(actor, auth.ActionViewReview); err != nil {
		return nil, err
	}
	return s.getReview(ctx, reviewID)
}

// Confirm moves a PENDING review to SCHEDULED.
//
// TODO: product has not decided whether confirming should be restricted to
// the review's own employee; today any EMPLOYEE account may confirm any
// pending review, matching the observed behavior this service replaces.
func (s *ReviewService) Confirm(ctx context.Context, actor *domain.User, reviewID string) (*domain.PerformanceReview, error) {
	return s.transition(ctx, actor, auth.ActionConfirmReview, domain.ReviewActionConfirm, reviewID, nil)
}

// ProvideFeedback records non-blank feedback text and moves a SCHEDULED or
// REJECTED review to FEEDBACK_PROVIDED.
func (s *ReviewService) ProvideFeedback(ctx context.Context, actor *domain.User, reviewID, feedback string) (*domain.PerformanceReview, error) {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return nil, apperrors.NewValidationError("invalid feedback", map[string]any{
			"feedback": "feedback must not be blank",
		})
	}
	return s.transition(ctx, actor, auth.ActionProvideFeedback, domain.ReviewActionProvideFeedback, reviewID,
		func(review *domain.PerformanceReview) {
			review.Feedback = &feedback
		})
}

// PushForApproval moves a FEEDBACK_PROVIDED review to UNDER_APPROVAL.
func (s *ReviewService) PushForApproval(ctx context.Context, actor *domain.User, reviewID string) (*domain.PerformanceReview, error) {
	return s.transition(ctx, actor, auth.ActionPushForApproval, domain.ReviewActionPushForApproval, reviewID, nil)
}

// Approve moves an UNDER_APPROVAL review to APPROVED and records the caller
// as approver.
func (s *ReviewService) Approve(ctx context.Context, actor *domain.User, reviewID string) (*domain.PerformanceReview, error) {
	return s.transition(ctx, actor, auth.ActionApproveReview, domain.ReviewActionApprove, reviewID,
		func(review *domain.PerformanceReview) {
			approverID := actor.ID
			review.ApprovedByID = &approverID
			review.ApprovedBy = &domain.UserRef{ID: actor.ID, Email: actor.Email}
		})
}

// Reject moves an UNDER_APPROVAL review to REJECTED. The review stays
// recoverable: HR may provide fresh feedback afterwards.
func (s *ReviewService) Reject(ctx context.Context, actor *domain.User, reviewID string) (*domain.PerformanceReview, error) {
	return s.transition(ctx, actor, auth.ActionRejectReview, domain.ReviewActionReject, reviewID, nil)
}

// transition runs the shared read-validate-write sequence. The write is
// guarded on the status the transition rules allow, so a concurrent winner
// surfaces as an invalid transition rather than a double apply, and a failed
// precondition never touches the row.
func (s *ReviewService) transition(ctx context.Context, actor *domain.User, permission auth.Action, action domain.ReviewAction, reviewID string, mutate func(*domain.PerformanceReview)) (*domain.PerformanceReview, error) {
	if err := auth.Authorize(actor, permission); err != nil {
		return nil, err
	}

	review, err := s.getReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	next, err := domain.NextStatus(review.Status, action)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	oldStatus := review.Status
	review.Status = next
	if mutate != nil {
		mutate(review)
	}

	applied, err := s.reviews.Transition(ctx, review, domain.AllowedSources(action))
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !applied {
		// The guard missed: either the row is gone or a concurrent
		// transition moved the status first. Report against fresh state.
		current, readErr := s.getReview(ctx, reviewID)
		if readErr != nil {
			return nil, readErr
		}
		return nil, apperrors.NewInvalidTransition(action, current.Status, domain.AllowedSources(action))
	}

	s.publish(ctx, actor, events.Event{
		Type:     events.EventReviewStatusChanged,
		EntityID: review.ID,
		Payload: events.ReviewStatusChangedPayload{
			Action:    action,
			OldStatus: oldStatus,
			NewStatus: review.Status,
		},
	})
	return review, nil
}

func (s *ReviewService) getReview(ctx context.Context, reviewID string) (*domain.PerformanceReview, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("review", map[string]any{"review_id": reviewID})
		}
		return nil, apperrors.MapError(err)
	}
	return review, nil
}

func (s *ReviewService) publish(ctx context.Context, actor *domain.User, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Actor = events.Actor{UserID: actor.ID, Role: actor.Role}
	_ = s.dispatcher.Publish(ctx, event)
}
