package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-service/internal/api/dto"
	"github.com/spec-kit/hr-service/internal/auth"
	"github.com/spec-kit/hr-service/internal/domain"
	"github.com/spec-kit/hr-service/internal/repository"
	"github.com/spec-kit/hr-service/internal/service"
	apperrors "github.com/spec-kit/hr-service/pkg/util"
)

// ProjectsHandler serves read-only project endpoints.
type ProjectsHandler struct {
	service *service.DirectoryService
}

// NewProjectsHandler constructs handler.
func NewProjectsHandler(directoryService *service.DirectoryService) *ProjectsHandler {
	return &ProjectsHandler{service: directoryService}
}

// List GET /projects. Accepts optional company and department filters.
func (h *ProjectsHandler) List(c *fiber.Ctx) error {
	actor, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	companyID, err := queryID(c, "company")
	if err != nil {
		return err
	}
	departmentID, err := queryID(c, "department")
	if err != nil {
		return err
	}
	projects, err := h.service.ListProjects(c.Context(), actor, repository.ProjectFilter{
		CompanyID:    companyID,
		DepartmentID: departmentID,
	})
	if err != nil {
		return err
	}
	items := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		items = append(items, projectResponse(&projects[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /projects/:id.
func (h *ProjectsHandler) Get(c *fiber.Ctx) error {
	actor, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := pathID(c, "project_id")
	if err != nil {
		return err
	}
	project, err := h.service.GetProject(c.Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": projectResponse(project)})
}

func projectResponse(project *domain.Project) dto.ProjectResponse {
	assigned := make([]dto.AssignedEmployeeResponse, 0, len(project.AssignedEmployees))
	for _, emp := range project.AssignedEmployees {
		assigned = append(assigned, dto.AssignedEmployeeResponse{
			ID:    emp.ID,
			Name:  emp.Name,
			Email: emp.Email,
		})
	}
	return dto.ProjectResponse{
		ID:                    project.ID,
		Company:               project.CompanyID,
		CompanyName:           project.CompanyName,
		Department:            project.DepartmentID,
		DepartmentName:        project.DepartmentName,
		Name:                  project.Name,
		Description:           project.Description,
		StartDate:             project.StartDate.Format(dateLayout),
		EndDate:               formatDate(project.EndDate),
		AssignedEmployeesList: assigned,
	}
}
