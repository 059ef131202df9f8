package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-service/internal/api/dto"
	"github.com/spec-kit/hr-service/internal/auth"
	"github.com/spec-kit/hr-service/internal/domain"
	"github.com/spec-kit/hr-service/internal/repository"
	"github.com/spec-kit/hr-service/internal/service"
	apperrors "github.com/spec-kit/hr-service/pkg/util"
)

// EmployeesHandler serves directory employee endpoints.
type EmployeesHandler struct {
	service *service.DirectoryService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(directoryService *service.DirectoryService) *EmployeesHandler {
	return &EmployeesHandler{service: directoryService}
}

// List GET /employees. Accepts optional company and department filters.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
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
	employees, err := h.service.ListEmployees(c.Context(), actor, repository.EmployeeFilter{
		CompanyID:    companyID,
		DepartmentID: departmentID,
	})
	if err != nil {
		return err
	}
	now := time.Now()
	items := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		items = append(items, employeeResponse(&employees[i], now))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /employees/:id.
func (h *EmployeesHandler) Get(c *fiber.Ctx) error {
	actor, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := pathID(c, "employee_id")
	if err != nil {
		return err
	}
	employee, err := h.service.GetEmployee(c.Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": employeeResponse(employee, time.Now())})
}

// Create POST /employees.
func (h *EmployeesHandler) Create(c *fiber.Ctx) error {
	actor, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.EmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	input, err := employeeInput(req)
	if err != nil {
		return err
	}
	employee, err := h.service.CreateEmployee(c.Context(), actor, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": employeeResponse(employee, time.Now())})
}

// Replace PUT /employees/:id.
func (h *EmployeesHandler) Replace(c *fiber.Ctx) error {
	actor, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := pathID(c, "employee_id")
	if err != nil {
		return err
	}
	var req dto.EmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	input, err := employeeInput(req)
	if err != nil {
		return err
	}
	employee, err := h.service.ReplaceEmployee(c.Context(), actor, id, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": employeeResponse(employee, time.Now())})
}

// Update PATCH /employees/:id.
func (h *EmployeesHandler) Update(c *fiber.Ctx) error {
	actor, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := pathID(c, "employee_id")
	if err != nil {
		return err
	}
	var req dto.EmployeePatchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	hiredOn, err := parseDate("hired_on", req.HiredOn)
	if err != nil {
		return err
	}
	patch := service.EmployeePatch{
		CompanyID:    req.Company,
		DepartmentID: req.Department,
		Name:         req.Name,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		Address:      req.Address,
		Designation:  req.Designation,
		HiredOn:      hiredOn,
	}
	employee, err := h.service.UpdateEmployee(c.Context(), actor, id, patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": employeeResponse(employee, time.Now())})
}

// Delete DELETE /employees/:id.
func (h *EmployeesHandler) Delete(c *fiber.Ctx) error {
	actor, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := pathID(c, "employee_id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteEmployee(c.Context(), actor, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func employeeInput(req dto.EmployeeRequest) (service.EmployeeInput, error) {
	hiredOn, err := parseDate("hired_on", req.HiredOn)
	if err != nil {
		return service.EmployeeInput{}, err
	}
	return service.EmployeeInput{
		CompanyID:    req.Company,
		DepartmentID: req.Department,
		Name:         req.Name,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		Address:      req.Address,
		Designation:  req.Designation,
		HiredOn:      hiredOn,
	}, nil
}

func employeeResponse(employee *domain.EmployeeRecord, now time.Time) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:             employee.ID,
		Company:        employee.CompanyID,
		CompanyName:    employee.CompanyName,
		Department:     employee.DepartmentID,
		DepartmentName: employee.DepartmentName,
		Name:           employee.Name,
		Email:          employee.Email,
		MobileNumber:   employee.MobileNumber,
		Address:        employee.Address,
		Designation:    employee.Designation,
		HiredOn:        formatDate(employee.HiredOn),
		DaysEmployed:   employee.DaysEmployed(now),
	}
}
