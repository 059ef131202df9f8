package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/hr-service/internal/api/dto"
	"github.com/spec-kit/hr-service/internal/auth"
	"github.com/spec-kit/hr-service/internal/domain"
	"github.com/spec-kit/hr-service/internal/service"
	apperrors "github.com/spec-kit/hr-service/pkg/util"
)

// ReviewsHandler manages performance review endpoints.
type ReviewsHandler struct {
	service *service.ReviewService
}

// NewReviewsHandler constructs handler.
func NewReviewsHandler(reviewService *service.ReviewService) *ReviewsHandler {
	return &ReviewsHandler{service: reviewService}
}

// Assign POST /reviews/assign.
func (h *ReviewsHandler) Assign(c *fiber.Ctx) error {
	actor, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AssignReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if _, err := uuid.Parse(req.Employee); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{
			"employee": "must be a valid UUID",
		})
	}
	review, err := h.service.Assign(c.Context(), actor, req.Employee)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": reviewResponse(review)})
}

// List GET /reviews.
func (h *ReviewsHandler) List(c *fiber.Ctx) error {
	actor, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter := service.ReviewListFilter{}
	employeeID, err := queryID(c, "employee")
	if err != nil {
		return err
	}
	filter.EmployeeID = employeeID
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.ReviewStatus(strings.TrimSpace(part)))
		}
	}
	reviews, err := h.service.List(c.Context(), actor, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reviewResponses(reviews)})
}

// ListOwn GET /reviews/emp-reviews. Always scoped to the calling account.
func (h *ReviewsHandler) ListOwn(c *fiber.Ctx) error {
	actor, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	reviews, err := h.service.ListOwn(c.Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reviewResponses(reviews)})
}

// Get GET /reviews/:id.
func (h *ReviewsHandler) Get(c *fiber.Ctx) error {
	actor, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := pathID(c, "review_id")
	if err != nil {
		return err
	}
	review, err := h.service.Get(c.Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reviewResponse(review)})
}

// Confirm PATCH /reviews/:id/confirm.
func (h *ReviewsHandler) Confirm(c *fiber.Ctx) error {
	return h.applyTransition(c, func(actor *domain.User, id string) (*domain.PerformanceReview, error) {
		return h.service.Confirm(c.Context(), actor, id)
	})
}

// ProvideFeedback PATCH /reviews/:id/feedback.
func (h *ReviewsHandler) ProvideFeedback(c *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return h.applyTransition(c, func(actor *domain.User, id string) (*domain.PerformanceReview, error) {
		return h.service.ProvideFeedback(c.Context(), actor, id, req.Feedback)
	})
}

// PushForApproval PATCH /reviews/:id/push.
func (h *ReviewsHandler) PushForApproval(c *fiber.Ctx) error {
	return h.applyTransition(c, func(actor *domain.User, id string) (*domain.PerformanceReview, error) {
		return h.service.PushForApproval(c.Context(), actor, id)
	})
}

// Approve PATCH /reviews/:id/approve.
func (h *ReviewsHandler) Approve(c *fiber.Ctx) error {
	return h.applyTransition(c, func(actor *domain.User, id string) (*domain.PerformanceReview, error) {
		return h.service.Approve(c.Context(), actor, id)
	})
}

// Reject PATCH /reviews/:id/reject.
func (h *ReviewsHandler) Reject(c *fiber.Ctx) error {
	return h.applyTransition(c, func(actor *domain.User, id string) (*domain.PerformanceReview, error) {
		return h.service.Reject(c.Context(), actor, id)
	})
}

func (h *ReviewsHandler) applyTransition(c *fiber.Ctx, apply func(*domain.User, string) (*domain.PerformanceReview, error)) error {
	actor, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := pathID(c, "review_id")
	if err != nil {
		return err
	}
	review, err := apply(actor, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reviewResponse(review)})
}

func reviewResponses(reviews []domain.PerformanceReview) []dto.ReviewResponse {
	items := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		items = append(items, reviewResponse(&reviews[i]))
	}
	return items
}

func reviewResponse(review *domain.PerformanceReview) dto.ReviewResponse {
	resp := dto.ReviewResponse{
		ID:          review.ID,
		Employee:    review.EmployeeID,
		Assigner:    review.AssignerID,
		ApprovedBy:  review.ApprovedByID,
		ScheduledAt: review.ScheduledAt,
		Feedback:    review.Feedback,
		Status:      review.Status,
		CreatedAt:   review.CreatedAt,
		UpdatedAt:   review.UpdatedAt,
	}
	if review.Employee != nil {
		resp.EmployeeEmail = review.Employee.Email
	}
	if review.Assigner != nil {
		email := review.Assigner.Email
		resp.AssignerEmail = &email
	}
	if review.ApprovedBy != nil {
		email := review.ApprovedBy.Email
		resp.ApprovedByEmail = &email
	}
	return resp
}
