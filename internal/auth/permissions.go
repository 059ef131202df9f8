package auth

import (
	"github.com/spec-kit/hr-service/internal/domain"
	apperrors "github.com/spec-kit/hr-service/pkg/util"
)

// Action identifies an operation gated by role membership.
type Action string

const (
	ActionAssignReview    Action = "reviews.assign"
	ActionListReviews     Action = "reviews.list"
	ActionViewReview      Action = "reviews.view"
	ActionListOwnReviews  Action = "reviews.list_own"
	ActionConfirmReview   Action = "reviews.confirm"
	ActionProvideFeedback Action = "reviews.feedback"
	ActionPushForApproval Action = "reviews.push"
	ActionApproveReview   Action = "reviews.approve"
	ActionRejectReview    Action = "reviews.reject"

	ActionViewDirectory   Action = "directory.view"
	ActionManageEmployees Action = "directory.manage_employees"
	ActionEditEmployees   Action = "directory.edit_employees"
)

// actionRoles is the single source of truth for role gating: one row per
// action, consulted by both route guards and services.
var actionRoles = map[Action][]domain.Role{
	ActionAssignReview:    {domain.RoleHR},
	ActionListReviews:     {domain.RoleAdmin, domain.RoleHR, domain.RoleManager},
	ActionViewReview:      {domain.RoleAdmin, domain.RoleHR, domain.RoleManager},
	ActionListOwnReviews:  {domain.RoleEmployee},
	ActionConfirmReview:   {domain.RoleEmployee},
	ActionProvideFeedback: {domain.RoleHR},
	ActionPushForApproval: {domain.RoleHR},
	ActionApproveReview:   {domain.RoleManager},
	ActionRejectReview:    {domain.RoleManager},

	ActionViewDirectory:   {domain.RoleAdmin, domain.RoleHR, domain.RoleManager},
	ActionManageEmployees: {domain.RoleAdmin, domain.RoleHR},
	ActionEditEmployees:   {domain.RoleAdmin, domain.RoleHR, domain.RoleManager},
}

// Allowed reports whether the role may perform the action.
func Allowed(role domain.Role, action Action) bool {
	for _, r := range actionRoles[action] {
		if r == role {
			return true
		}
	}
	return false
}

// Authorize returns nil when the user may perform the action, an
// Unauthorized error for a missing principal, and a Forbidden error
// otherwise. Forbidden is independent of resource state: the check happens
// before any entity is loaded.
func Authorize(user *domain.User, action Action) error {
	if user == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !Allowed(user.Role, action) {
		return apperrors.NewForbidden("role " + string(user.Role) + " may not perform " + string(action))
	}
	return nil
}
