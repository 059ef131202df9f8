package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-service/internal/api/dto"
	"github.com/spec-kit/hr-service/internal/auth"
	"github.com/spec-kit/hr-service/internal/service"
	apperrors "github.com/spec-kit/hr-service/pkg/util"
)

// DepartmentsHandler serves read-only department endpoints.
type DepartmentsHandler struct {
	service *service.DirectoryService
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(directoryService *service.DirectoryService) *DepartmentsHandler {
	return &DepartmentsHandler{service: directoryService}
}

// List GET /departments. Accepts an optional company filter.
func (h *DepartmentsHandler) List(c *fiber.Ctx) error {
	actor, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	companyID, err := queryID(c, "company")
	if err != nil {
		return err
	}
	details, err := h.service.ListDepartments(c.Context(), actor, companyID)
	if err != nil {
		return err
	}
	items := make([]dto.DepartmentResponse, 0, len(details))
	for i := range details {
		items = append(items, departmentResponse(&details[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /departments/:id.
func (h *DepartmentsHandler) Get(c *fiber.Ctx) error {
	actor, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := pathID(c, "department_id")
	if err != nil {
		return err
	}
	detail, err := h.service.GetDepartment(c.Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": departmentResponse(detail)})
}

func departmentResponse(detail *service.DepartmentDetail) dto.DepartmentResponse {
	return dto.DepartmentResponse{
		ID:                detail.Department.ID,
		Company:           detail.Department.CompanyID,
		CompanyName:       detail.Department.CompanyName,
		Name:              detail.Department.Name,
		NumberOfEmployees: detail.Counts.Employees,
		NumberOfProjects:  detail.Counts.Projects,
	}
}
