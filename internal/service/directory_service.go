package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/hr-service/internal/auth"
	"github.com/spec-kit/hr-service/internal/domain"
	"github.com/spec-kit/hr-service/internal/events"
	"github.com/spec-kit/hr-service/internal/repository"
	apperrors "github.com/spec-kit/hr-service/pkg/util"
)

// DirectoryService serves the company/department/employee/project directory.
// Derived values (counts, name expansions) are computed on every read and
// never stored.
type DirectoryService struct {
	companies   repository.CompanyRepository
	departments repository.DepartmentRepository
	employees   repository.EmployeeRepository
	projects    repository.ProjectRepository
	dispatcher  events.Dispatcher
}

// DirectoryDependencies bundles repositories for the directory service.
type DirectoryDependencies struct {
	CompanyRepo    repository.CompanyRepository
	DepartmentRepo repository.DepartmentRepository
	EmployeeRepo   repository.EmployeeRepository
	ProjectRepo    repository.ProjectRepository
	Dispatcher     events.Dispatcher
}

// NewDirectoryService constructs the service.
func NewDirectoryService(deps DirectoryDependencies) *DirectoryService {
	return &DirectoryService{
		companies:   deps.CompanyRepo,
		departments: deps.DepartmentRepo,
		employees:   deps.EmployeeRepo,
		projects:    deps.ProjectRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// CompanyDetail pairs a company with its derived totals.
type CompanyDetail struct {
	Company domain.Company
	Counts  domain.CompanyCounts
}

// DepartmentDetail pairs a department with its derived totals.
type DepartmentDetail struct {
	Department domain.Department
	Counts     domain.DepartmentCounts
}

// EmployeeInput describes a full employee record payload.
type EmployeeInput struct {
	CompanyID    string
	DepartmentID *string
	Name         string
	Email        string
	MobileNumber string
	Address      string
	Designation  string
	HiredOn      *time.Time
}

// EmployeePatch describes a partial update; nil fields keep current values.
type EmployeePatch struct {
	CompanyID    *string
	DepartmentID *string
	Name         *string
	Email        *string
	MobileNumber *string
	Address      *string
	Designation  *string
	HiredOn      *time.Time
}

// ProjectInput describes a project payload.
type ProjectInput struct {
	CompanyID         string
	DepartmentID      *string
	Name              string
	Description       string
	StartDate         time.Time
	EndDate           *time.Time
	AssignedEmployees []string
}

// ListCompanies returns all companies with derived counts.
func (s *DirectoryService) ListCompanies(ctx context.Context, actor *domain.User) ([]CompanyDetail, error) {
	if err := auth.Authorize(actor, auth.ActionViewDirectory); err != nil {
		return nil, err
	}
	companies, err := s.companies.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	details := make([]CompanyDetail, 0, len(companies))
	for _, company := range companies {
		counts, err := s.companies.Counts(ctx, company.ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		details = append(details, CompanyDetail{Company: company, Counts: counts})
	}
	return details, nil
}

// GetCompany returns one company with derived counts.
func (s *DirectoryService) GetCompany(ctx context.Context, actor *domain.User, id string) (*CompanyDetail, error) {
	if err := auth.Authorize(actor, auth.ActionViewDirectory); err != nil {
		return nil, err
	}
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("company", map[string]any{"company_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	counts, err := s.companies.Counts(ctx, company.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &CompanyDetail{Company: *company, Counts: counts}, nil
}

// ListDepartments returns departments, optionally scoped to one company.
func (s *DirectoryService) ListDepartments(ctx context.Context, actor *domain.User, companyID *string) ([]DepartmentDetail, error) {
	if err := auth.Authorize(actor, auth.ActionViewDirectory); err != nil {
		return nil, err
	}
	departments, err := s.departments.List(ctx, companyID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	details := make([]DepartmentDetail, 0, len(departments))
	for _, dept := range departments {
		counts, err := s.departments.Counts(ctx, dept.ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		details = append(details, DepartmentDetail{Department: dept, Counts: counts})
	}
	return details, nil
}

// GetDepartment returns one department with derived counts.
func (s *DirectoryService) GetDepartment(ctx context.Context, actor *domain.User, id string) (*DepartmentDetail, error) {
	if err := auth.Authorize(actor, auth.ActionViewDirectory); err != nil {
		return nil, err
	}
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("department", map[string]any{"department_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	counts, err := s.departments.Counts(ctx, dept.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &DepartmentDetail{Department: *dept, Counts: counts}, nil
}

// ListEmployees returns employee records, optionally filtered by parents.
func (s *DirectoryService) ListEmployees(ctx context.Context, actor *domain.User, filter repository.EmployeeFilter) ([]domain.EmployeeRecord, error) {
	if err := auth.Authorize(actor, auth.ActionViewDirectory); err != nil {
		return nil, err
	}
	employees, err := s.employees.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return employees, nil
}

// GetEmployee returns one employee record.
func (s *DirectoryService) GetEmployee(ctx context.Context, actor *domain.User, id string) (*domain.EmployeeRecord, error) {
	if err := auth.Authorize(actor, auth.ActionViewDirectory); err != nil {
		return nil, err
	}
	return s.getEmployee(ctx, id)
}

// CreateEmployee creates a directory employee record. HR and ADMIN only.
func (s *DirectoryService) CreateEmployee(ctx context.Context, actor *domain.User, input EmployeeInput) (*domain.EmployeeRecord, error) {
	if err := auth.Authorize(actor, auth.ActionManageEmployees); err != nil {
		return nil, err
	}
	if err := s.validateEmployeeInput(ctx, input, ""); err != nil {
		return nil, err
	}

	employee := &domain.EmployeeRecord{
		CompanyID:    input.CompanyID,
		DepartmentID: input.DepartmentID,
		Name:         input.Name,
		Email:        input.Email,
		MobileNumber: input.MobileNumber,
		Address:      input.Address,
		Designation:  input.Designation,
		HiredOn:      input.HiredOn,
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEmployeeCreated(ctx, actor, employee)
	return s.getEmployee(ctx, employee.ID)
}

// ReplaceEmployee overwrites every field of an existing record.
func (s *DirectoryService) ReplaceEmployee(ctx context.Context, actor *domain.User, id string, input EmployeeInput) (*domain.EmployeeRecord, error) {
	if err := auth.Authorize(actor, auth.ActionEditEmployees); err != nil {
		return nil, err
	}
	existing, err := s.getEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateEmployeeInput(ctx, input, existing.ID); err != nil {
		return nil, err
	}

	existing.CompanyID = input.CompanyID
	existing.DepartmentID = input.DepartmentID
	existing.Name = input.Name
	existing.Email = input.Email
	existing.MobileNumber = input.MobileNumber
	existing.Address = input.Address
	existing.Designation = input.Designation
	existing.HiredOn = input.HiredOn
	if err := s.employees.Update(ctx, existing); err != nil {
		return nil, apperrors.MapError(err)
	}
	return s.getEmployee(ctx, id)
}

// UpdateEmployee applies a partial update. The company/department invariant
// is checked against the merged record: values absent from the patch default
// to the existing instance before the cross-field comparison runs.
func (s *DirectoryService) UpdateEmployee(ctx context.Context, actor *domain.User, id string, patch EmployeePatch) (*domain.EmployeeRecord, error) {
	if err := auth.Authorize(actor, auth.ActionEditEmployees); err != nil {
		return nil, err
	}
	existing, err := s.getEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := EmployeeInput{
		CompanyID:    existing.CompanyID,
		DepartmentID: existing.DepartmentID,
		Name:         existing.Name,
		Email:        existing.Email,
		MobileNumber: existing.MobileNumber,
		Address:      existing.Address,
		Designation:  existing.Designation,
		HiredOn:      existing.HiredOn,
	}
	if patch.CompanyID != nil {
		merged.CompanyID = *patch.CompanyID
	}
	if patch.DepartmentID != nil {
		merged.DepartmentID = patch.DepartmentID
	}
	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.Email != nil {
		merged.Email = *patch.Email
	}
	if patch.MobileNumber != nil {
		merged.MobileNumber = *patch.MobileNumber
	}
	if patch.Address != nil {
		merged.Address = *patch.Address
	}
	if patch.Designation != nil {
		merged.Designation = *patch.Designation
	}
	if patch.HiredOn != nil {
		merged.HiredOn = patch.HiredOn
	}

	if err := s.validateEmployeeInput(ctx, merged, existing.ID); err != nil {
		return nil, err
	}

	existing.CompanyID = merged.CompanyID
	existing.DepartmentID = merged.DepartmentID
	existing.Name = merged.Name
	existing.Email = merged.Email
	existing.MobileNumber = merged.MobileNumber
	existing.Address = merged.Address
	existing.Designation = merged.Designation
	existing.HiredOn = merged.HiredOn
	if err := s.employees.Update(ctx, existing); err != nil {
		return nil, apperrors.MapError(err)
	}
	return s.getEmployee(ctx, id)
}

// DeleteEmployee removes an employee record.
func (s *DirectoryService) DeleteEmployee(ctx context.Context, actor *domain.User, id string) error {
	if err := auth.Authorize(actor, auth.ActionEditEmployees); err != nil {
		return err
	}
	if err := s.employees.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("employee", map[string]any{"employee_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// ListProjects returns projects, optionally filtered by parents.
func (s *DirectoryService) ListProjects(ctx context.Context, actor *domain.User, filter repository.ProjectFilter) ([]domain.Project, error) {
	if err := auth.Authorize(actor, auth.ActionViewDirectory); err != nil {
		return nil, err
	}
	projects, err := s.projects.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return projects, nil
}

// GetProject returns one project with its assigned employees expanded.
func (s *DirectoryService) GetProject(ctx context.Context, actor *domain.User, id string) (*domain.Project, error) {
	if err := auth.Authorize(actor, auth.ActionViewDirectory); err != nil {
		return nil, err
	}
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("project", map[string]any{"project_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	assigned, err := s.projects.ListAssignedEmployees(ctx, project.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	project.AssignedEmployees = assigned
	return project, nil
}

// CreateProject creates a project with validated containment and date range.
func (s *DirectoryService) CreateProject(ctx context.Context, actor *domain.User, input ProjectInput) (*domain.Project, error) {
	if err := auth.Authorize(actor, auth.ActionManageEmployees); err != nil {
		return nil, err
	}
	if err := s.validateProjectInput(ctx, input); err != nil {
		return nil, err
	}

	project := &domain.Project{
		CompanyID:    input.CompanyID,
		DepartmentID: input.DepartmentID,
		Name:         input.Name,
		Description:  input.Description,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(input.AssignedEmployees) > 0 {
		if err := s.projects.SetAssignedEmployees(ctx, project.ID, input.AssignedEmployees); err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	return s.GetProject(ctx, actor, project.ID)
}

// UpdateProject overwrites a project with validated containment.
func (s *DirectoryService) UpdateProject(ctx context.Context, actor *domain.User, id string, input ProjectInput) (*domain.Project, error) {
	if err := auth.Authorize(actor, auth.ActionManageEmployees); err != nil {
		return nil, err
	}
	existing, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("project", map[string]any{"project_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if input.CompanyID == "" {
		input.CompanyID = existing.CompanyID
	}
	if input.DepartmentID == nil {
		input.DepartmentID = existing.DepartmentID
	}
	if err := s.validateProjectInput(ctx, input); err != nil {
		return nil, err
	}

	existing.CompanyID = input.CompanyID
	existing.DepartmentID = input.DepartmentID
	existing.Name = input.Name
	existing.Description = input.Description
	existing.StartDate = input.StartDate
	existing.EndDate = input.EndDate
	if err := s.projects.Update(ctx, existing); err != nil {
		return nil, apperrors.MapError(err)
	}
	if input.AssignedEmployees != nil {
		if err := s.projects.SetAssignedEmployees(ctx, id, input.AssignedEmployees); err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	return s.GetProject(ctx, actor, id)
}

func (s *DirectoryService) getEmployee(ctx context.Context, id string) (*domain.EmployeeRecord, error) {
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return employee, nil
}

func (s *DirectoryService) validateEmployeeInput(ctx context.Context, input EmployeeInput, selfID string) error {
	details := map[string]any{}
	if input.Name == "" {
		details["name"] = "name is required"
	}
	if input.Email == "" {
		details["email"] = "email is required"
	}
	if input.CompanyID == "" {
		details["company"] = "company is required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid employee", details)
	}

	if _, err := s.companies.GetByID(ctx, input.CompanyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("invalid employee", map[string]any{
				"company": "company does not exist",
			})
		}
		return apperrors.MapError(err)
	}

	if err := s.checkDepartmentCompany(ctx, input.CompanyID, input.DepartmentID, "Employee"); err != nil {
		return err
	}

	if existing, err := s.employees.GetByEmail(ctx, input.Email); err == nil {
		if existing.ID != selfID {
			return apperrors.NewValidationError("invalid employee", map[string]any{
				"email": "email already in use",
			})
		}
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *DirectoryService) validateProjectInput(ctx context.Context, input ProjectInput) error {
	details := map[string]any{}
	if input.Name == "" {
		details["name"] = "name is required"
	}
	if input.CompanyID == "" {
		details["company"] = "company is required"
	}
	if input.StartDate.IsZero() {
		details["start_date"] = "start_date is required"
	}
	if input.EndDate != nil && !input.StartDate.IsZero() && input.EndDate.Before(input.StartDate) {
		details["end_date"] = "end date cannot be before start date"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid project", details)
	}
	return s.checkDepartmentCompany(ctx, input.CompanyID, input.DepartmentID, "Project")
}

// checkDepartmentCompany enforces the containment invariant: a department
// set on a record must belong to the record's company.
func (s *DirectoryService) checkDepartmentCompany(ctx context.Context, companyID string, departmentID *string, owner string) error {
	if departmentID == nil {
		return nil
	}
	dept, err := s.departments.GetByID(ctx, *departmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("invalid department", map[string]any{
				"department": "department does not exist",
			})
		}
		return apperrors.MapError(err)
	}
	if dept.CompanyID != companyID {
		return apperrors.NewValidationError("invalid department", map[string]any{
			"department": owner + " department must belong to the same company",
		})
	}
	return nil
}

func (s *DirectoryService) publishEmployeeCreated(ctx context.Context, actor *domain.User, employee *domain.EmployeeRecord) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventEmployeeCreated,
		EntityID:  employee.ID,
		Actor:     events.Actor{UserID: actor.ID, Role: actor.Role},
		Timestamp: time.Now(),
		Payload: events.EmployeeCreatedPayload{
			CompanyID:    employee.CompanyID,
			DepartmentID: employee.DepartmentID,
			Name:         employee.Name,
		},
	})
}
