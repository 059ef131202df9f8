package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/hr-service/internal/domain"
	"github.com/spec-kit/hr-service/internal/repository"
)

type fakeCompanyRepo struct {
	companies map[string]*domain.Company
}

func (f *fakeCompanyRepo) GetByID(_ context.Context, id string) (*domain.Company, error) {
	company, ok := f.companies[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *company
	return &copied, nil
}

func (f *fakeCompanyRepo) List(_ context.Context) ([]domain.Company, error) {
	var result []domain.Company
	for _, c := range f.companies {
		result = append(result, *c)
	}
	return result, nil
}

func (f *fakeCompanyRepo) Counts(_ context.Context, _ string) (domain.CompanyCounts, error) {
	return domain.CompanyCounts{}, nil
}

type fakeDepartmentRepo struct {
	departments map[string]*domain.Department
}

func (f *fakeDepartmentRepo) GetByID(_ context.Context, id string) (*domain.Department, error) {
	dept, ok := f.departments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *dept
	return &copied, nil
}

func (f *fakeDepartmentRepo) List(_ context.Context, companyID *string) ([]domain.Department, error) {
	var result []domain.Department
	for _, d := range f.departments {
		if companyID != nil && d.CompanyID != *companyID {
			continue
		}
		result = append(result, *d)
	}
	return result, nil
}

func (f *fakeDepartmentRepo) Counts(_ context.Context, _ string) (domain.DepartmentCounts, error) {
	return domain.DepartmentCounts{}, nil
}

type fakeEmployeeRepo struct {
	employees map[string]*domain.EmployeeRecord
	nextID    int
}

func (f *fakeEmployeeRepo) Create(_ context.Context, employee *domain.EmployeeRecord) error {
	f.nextID++
	employee.ID = fmt.Sprintf("emp-%d", f.nextID)
	copied := *employee
	f.employees[employee.ID] = &copied
	return nil
}

func (f *fakeEmployeeRepo) Update(_ context.Context, employee *domain.EmployeeRecord) error {
	if _, ok := f.employees[employee.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *employee
	f.employees[employee.ID] = &copied
	return nil
}

func (f *fakeEmployeeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.employees[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.employees, id)
	return nil
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (*domain.EmployeeRecord, error) {
	employee, ok := f.employees[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *employee
	return &copied, nil
}

func (f *fakeEmployeeRepo) GetByEmail(_ context.Context, email string) (*domain.EmployeeRecord, error) {
	for _, e := range f.employees {
		if e.Email == email {
			copied := *e
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeEmployeeRepo) List(_ context.Context, filter repository.EmployeeFilter) ([]domain.EmployeeRecord, error) {
	var result []domain.EmployeeRecord
	for _, e := range f.employees {
		if filter.CompanyID != nil && e.CompanyID != *filter.CompanyID {
			continue
		}
		if filter.DepartmentID != nil && (e.DepartmentID == nil || *e.DepartmentID != *filter.DepartmentID) {
			continue
		}
		result = append(result, *e)
	}
	return result, nil
}

type fakeProjectRepo struct {
	projects    map[string]*domain.Project
	assignments map[string][]string
	nextID      int
}

func (f *fakeProjectRepo) Create(_ context.Context, project *domain.Project) error {
	f.nextID++
	project.ID = fmt.Sprintf("proj-%d", f.nextID)
	copied := *project
	f.projects[project.ID] = &copied
	return nil
}

func (f *fakeProjectRepo) Update(_ context.Context, project *domain.Project) error {
	if _, ok := f.projects[project.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *project
	f.projects[project.ID] = &copied
	return nil
}

func (f *fakeProjectRepo) GetByID(_ context.Context, id string) (*domain.Project, error) {
	project, ok := f.projects[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *project
	return &copied, nil
}

func (f *fakeProjectRepo) List(_ context.Context, filter repository.ProjectFilter) ([]domain.Project, error) {
	var result []domain.Project
	for _, p := range f.projects {
		if filter.CompanyID != nil && p.CompanyID != *filter.CompanyID {
			continue
		}
		if filter.DepartmentID != nil && (p.DepartmentID == nil || *p.DepartmentID != *filter.DepartmentID) {
			continue
		}
		result = append(result, *p)
	}
	return result, nil
}

func (f *fakeProjectRepo) SetAssignedEmployees(_ context.Context, projectID string, employeeIDs []string) error {
	f.assignments[projectID] = append([]string(nil), employeeIDs...)
	return nil
}

func (f *fakeProjectRepo) ListAssignedEmployees(_ context.Context, projectID string) ([]domain.EmployeeRef, error) {
	refs := make([]domain.EmployeeRef, 0, len(f.assignments[projectID]))
	for _, id := range f.assignments[projectID] {
		refs = append(refs, domain.EmployeeRef{ID: id})
	}
	return refs, nil
}

func newDirectoryFixture(t *testing.T) (*DirectoryService, *fakeEmployeeRepo, *fakeProjectRepo) {
	t.Helper()
	companies := &fakeCompanyRepo{companies: map[string]*domain.Company{
		"co-1": {ID: "co-1", Name: "Acme"},
		"co-2": {ID: "co-2", Name: "Globex"},
	}}
	departments := &fakeDepartmentRepo{departments: map[string]*domain.Department{
		"dep-1": {ID: "dep-1", CompanyID: "co-1", Name: "Engineering", CompanyName: "Acme"},
		"dep-2": {ID: "dep-2", CompanyID: "co-2", Name: "Sales", CompanyName: "Globex"},
	}}
	employees := &fakeEmployeeRepo{employees: map[string]*domain.EmployeeRecord{}}
	projects := &fakeProjectRepo{projects: map[string]*domain.Project{}, assignments: map[string][]string{}}

	svc := NewDirectoryService(DirectoryDependencies{
		CompanyRepo:    companies,
		DepartmentRepo: departments,
		EmployeeRepo:   employees,
		ProjectRepo:    projects,
		Dispatcher:     &recordingDispatcher{},
	})
	return svc, employees, projects
}

func validEmployeeInput() EmployeeInput {
	dept := "dep-1"
	hired := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	return EmployeeInput{
		CompanyID:    "co-1",
		DepartmentID: &dept,
		Name:         "Sam Doe",
		Email:        "sam@acme.test",
		Designation:  "Engineer",
		HiredOn:      &hired,
	}
}

func TestCreateEmployee(t *testing.T) {
	t.Parallel()
	svc, employees, _ := newDirectoryFixture(t)

	created, err := svc.CreateEmployee(context.Background(), hrUser, validEmployeeInput())
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created employee has no id")
	}
	if _, ok := employees.employees[created.ID]; !ok {
		t.Fatal("employee not stored")
	}
}

func TestCreateEmployeeRequiresManageRole(t *testing.T) {
	t.Parallel()
	svc, _, _ := newDirectoryFixture(t)

	for _, actor := range []*domain.User{managerUser, employeeUser} {
		_, err := svc.CreateEmployee(context.Background(), actor, validEmployeeInput())
		if code := domainErrCode(t, err); code != "FORBIDDEN" {
			t.Errorf("actor %s: code = %s, want FORBIDDEN", actor.Role, code)
		}
	}
}

func TestCreateEmployeeCrossCompanyDepartment(t *testing.T) {
	t.Parallel()
	svc, _, _ := newDirectoryFixture(t)

	input := validEmployeeInput()
	wrongDept := "dep-2"
	input.DepartmentID = &wrongDept

	_, err := svc.CreateEmployee(context.Background(), hrUser, input)
	if code := domainErrCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("code = %s, want VALIDATION_FAILED", code)
	}
}

func TestCreateEmployeeDuplicateEmail(t *testing.T) {
	t.Parallel()
	svc, _, _ := newDirectoryFixture(t)
	ctx := context.Background()

	if _, err := svc.CreateEmployee(ctx, hrUser, validEmployeeInput()); err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}
	_, err := svc.CreateEmployee(ctx, hrUser, validEmployeeInput())
	if code := domainErrCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("code = %s, want VALIDATION_FAILED", code)
	}
}

func TestUpdateEmployeePatchDefaultsToExisting(t *testing.T) {
	t.Parallel()
	svc, _, _ := newDirectoryFixture(t)
	ctx := context.Background()

	created, err := svc.CreateEmployee(ctx, hrUser, validEmployeeInput())
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}

	// Patch only the company; the retained dep-1 now violates containment.
	wrongCompany := "co-2"
	_, err = svc.UpdateEmployee(ctx, hrUser, created.ID, EmployeePatch{CompanyID: &wrongCompany})
	if code := domainErrCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("code = %s, want VALIDATION_FAILED", code)
	}

	// Patching an unrelated field keeps everything else intact.
	name := "Sam Q. Doe"
	updated, err := svc.UpdateEmployee(ctx, hrUser, created.ID, EmployeePatch{Name: &name})
	if err != nil {
		t.Fatalf("UpdateEmployee: %v", err)
	}
	if updated.Name != name || updated.Email != created.Email || updated.CompanyID != created.CompanyID {
		t.Fatalf("patched record = %+v, want only name changed", updated)
	}
}

func TestUpdateEmployeeKeepsOwnEmail(t *testing.T) {
	t.Parallel()
	svc, _, _ := newDirectoryFixture(t)
	ctx := context.Background()

	created, err := svc.CreateEmployee(ctx, hrUser, validEmployeeInput())
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}

	// Re-submitting the record's own email is not a duplicate.
	email := created.Email
	if _, err := svc.UpdateEmployee(ctx, hrUser, created.ID, EmployeePatch{Email: &email}); err != nil {
		t.Fatalf("UpdateEmployee: %v", err)
	}
}

func TestDeleteEmployee(t *testing.T) {
	t.Parallel()
	svc, employees, _ := newDirectoryFixture(t)
	ctx := context.Background()

	created, err := svc.CreateEmployee(ctx, hrUser, validEmployeeInput())
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}
	if err := svc.DeleteEmployee(ctx, managerUser, created.ID); err != nil {
		t.Fatalf("DeleteEmployee: %v", err)
	}
	if _, ok := employees.employees[created.ID]; ok {
		t.Fatal("employee still stored after delete")
	}
	if err := svc.DeleteEmployee(ctx, managerUser, created.ID); err == nil {
		t.Fatal("expected NOT_FOUND deleting twice")
	}
}

func TestDirectoryReadsRequireRole(t *testing.T) {
	t.Parallel()
	svc, _, _ := newDirectoryFixture(t)
	ctx := context.Background()

	if _, err := svc.ListCompanies(ctx, employeeUser); err == nil {
		t.Error("EMPLOYEE should not list companies")
	}
	if _, err := svc.ListDepartments(ctx, employeeUser, nil); err == nil {
		t.Error("EMPLOYEE should not list departments")
	}
	if _, err := svc.ListEmployees(ctx, employeeUser, repository.EmployeeFilter{}); err == nil {
		t.Error("EMPLOYEE should not list employees")
	}
	if _, err := svc.ListProjects(ctx, employeeUser, repository.ProjectFilter{}); err == nil {
		t.Error("EMPLOYEE should not list projects")
	}
	if _, err := svc.ListCompanies(ctx, adminUser); err != nil {
		t.Errorf("ADMIN list companies: %v", err)
	}
}

func TestCreateProjectCrossCompanyDepartment(t *testing.T) {
	t.Parallel()
	svc, _, _ := newDirectoryFixture(t)

	wrongDept := "dep-2"
	_, err := svc.CreateProject(context.Background(), hrUser, ProjectInput{
		CompanyID:    "co-1",
		DepartmentID: &wrongDept,
		Name:         "Migration",
		StartDate:    time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	})
	if code := domainErrCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("code = %s, want VALIDATION_FAILED", code)
	}
}

func TestCreateProjectRejectsInvertedDates(t *testing.T) {
	t.Parallel()
	svc, _, _ := newDirectoryFixture(t)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, -1, 0)
	_, err := svc.CreateProject(context.Background(), hrUser, ProjectInput{
		CompanyID: "co-1",
		Name:      "Migration",
		StartDate: start,
		EndDate:   &end,
	})
	if code := domainErrCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("code = %s, want VALIDATION_FAILED", code)
	}
}

func TestCreateProjectWithAssignments(t *testing.T) {
	t.Parallel()
	svc, _, projects := newDirectoryFixture(t)
	ctx := context.Background()

	employee, err := svc.CreateEmployee(ctx, hrUser, validEmployeeInput())
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}

	project, err := svc.CreateProject(ctx, hrUser, ProjectInput{
		CompanyID:         "co-1",
		Name:              "Migration",
		StartDate:         time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		AssignedEmployees: []string{employee.ID},
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if len(project.AssignedEmployees) != 1 || project.AssignedEmployees[0].ID != employee.ID {
		t.Fatalf("assigned = %+v, want [%s]", project.AssignedEmployees, employee.ID)
	}
	if got := projects.assignments[project.ID]; len(got) != 1 {
		t.Fatalf("stored assignments = %v, want one", got)
	}
}

func TestDaysEmployedDerivation(t *testing.T) {
	t.Parallel()

	hired := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	employee := &domain.EmployeeRecord{HiredOn: &hired}
	now := hired.AddDate(0, 0, 10)

	days := employee.DaysEmployed(now)
	if days == nil || *days != 10 {
		t.Fatalf("DaysEmployed = %v, want 10", days)
	}

	employee.HiredOn = nil
	if employee.DaysEmployed(now) != nil {
		t.Fatal("DaysEmployed should be nil when hired_on is unset")
	}
}
