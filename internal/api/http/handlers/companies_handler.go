package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-service/internal/api/dto"
	"github.com/spec-kit/hr-service/internal/auth"
	"github.com/spec-kit/hr-service/internal/service"
	apperrors "github.com/spec-kit/hr-service/pkg/util"
)

// CompaniesHandler serves read-only company endpoints.
type CompaniesHandler struct {
	service *service.DirectoryService
}

// NewCompaniesHandler constructs handler.
func NewCompaniesHandler(directoryService *service.DirectoryService) *CompaniesHandler {
	return &CompaniesHandler{service: directoryService}
}

// List GET /companies.
func (h *CompaniesHandler) List(c *fiber.Ctx) error {
	actor, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	details, err := h.service.ListCompanies(c.Context(), actor)
	if err != nil {
		return err
	}
	items := make([]dto.CompanyResponse, 0, len(details))
	for i := range details {
		items = append(items, companyResponse(&details[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /companies/:id.
func (h *CompaniesHandler) Get(c *fiber.Ctx) error {
	actor, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := pathID(c, "company_id")
	if err != nil {
		return err
	}
	detail, err := h.service.GetCompany(c.Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": companyResponse(detail)})
}

func companyResponse(detail *service.CompanyDetail) dto.CompanyResponse {
	return dto.CompanyResponse{
		ID:                  detail.Company.ID,
		Name:                detail.Company.Name,
		NumberOfDepartments: detail.Counts.Departments,
		NumberOfEmployees:   detail.Counts.Employees,
		NumberOfProjects:    detail.Counts.Projects,
	}
}
