package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-service/internal/api/http/handlers"
	"github.com/spec-kit/hr-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Accounts       *handlers.AccountsHandler
	Reviews        *handlers.ReviewsHandler
	Companies      *handlers.CompaniesHandler
	Departments    *handlers.DepartmentsHandler
	Employees      *handlers.EmployeesHandler
	Projects       *handlers.ProjectsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Accounts.Register)
	authGroup.Post("/login", cfg.Accounts.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	reviews := protected.Group("/reviews")
	reviews.Post("/assign", auth.RequirePermission(auth.ActionAssignReview), cfg.Reviews.Assign)
	reviews.Get("/", auth.RequirePermission(auth.ActionListReviews), cfg.Reviews.List)
	// Literal segment routes must register before /:id captures them.
	reviews.Get("/emp-reviews", auth.RequirePermission(auth.ActionListOwnReviews), cfg.Reviews.ListOwn)
	reviews.Get("/:id", auth.RequirePermission(auth.ActionViewReview), cfg.Reviews.Get)
	reviews.Patch("/:id/confirm", auth.RequirePermission(auth.ActionConfirmReview), cfg.Reviews.Confirm)
	reviews.Patch("/:id/feedback", auth.RequirePermission(auth.ActionProvideFeedback), cfg.Reviews.ProvideFeedback)
	reviews.Patch("/:id/push", auth.RequirePermission(auth.ActionPushForApproval), cfg.Reviews.PushForApproval)
	reviews.Patch("/:id/approve", auth.RequirePermission(auth.ActionApproveReview), cfg.Reviews.Approve)
	reviews.Patch("/:id/reject", auth.RequirePermission(auth.ActionRejectReview), cfg.Reviews.Reject)

	companies := protected.Group("/companies", auth.RequirePermission(auth.ActionViewDirectory))
	companies.Get("/", cfg.Companies.List)
	companies.Get("/:id", cfg.Companies.Get)

	departments := protected.Group("/departments", auth.RequirePermission(auth.ActionViewDirectory))
	departments.Get("/", cfg.Departments.List)
	departments.Get("/:id", cfg.Departments.Get)

	employees := protected.Group("/employees")
	employees.Get("/", auth.RequirePermission(auth.ActionViewDirectory), cfg.Employees.List)
	employees.Post("/", auth.RequirePermission(auth.ActionManageEmployees), cfg.Employees.Create)
	employees.Get("/:id", auth.RequirePermission(auth.ActionViewDirectory), cfg.Employees.Get)
	employees.Put("/:id", auth.RequirePermission(auth.ActionEditEmployees), cfg.Employees.Replace)
	employees.Patch("/:id", auth.RequirePermission(auth.ActionEditEmployees), cfg.Employees.Update)
	employees.Delete("/:id", auth.RequirePermission(auth.ActionEditEmployees), cfg.Employees.Delete)

	projects := protected.Group("/projects", auth.RequirePermission(auth.ActionViewDirectory))
	projects.Get("/", cfg.Projects.List)
	projects.Get("/:id", cfg.Projects.Get)
}
