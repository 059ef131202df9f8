package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/hr-service/internal/domain"
)

// ProjectFilter captures listing parameters for projects.
type ProjectFilter struct {
	CompanyID    *string
	DepartmentID *string
}

// ProjectRepository handles persistence for projects and their employee
// assignments.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	Update(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]domain.Project, error)
	SetAssignedEmployees(ctx context.Context, projectID string, employeeIDs []string) error
	ListAssignedEmployees(ctx context.Context, projectID string) ([]domain.EmployeeRef, error)
}

type projectRepository struct {
	db Queryer
}

// NewProjectRepository instantiates the repository.
func NewProjectRepository(db Queryer) ProjectRepository {
	return &projectRepository{db: db}
}

const projectSelect = `
        SELECT p.id, p.company_id, p.department_id, p.name, p.description,
               p.start_date, p.end_date, p.created_at, p.updated_at,
               c.name, d.name
        FROM projects p
        JOIN companies c ON c.id = p.company_id
        LEFT JOIN departments d ON d.id = p.department_id`

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) error {
	const query = `
        INSERT INTO projects (company_id, department_id, name, description, start_date, end_date)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		project.CompanyID,
		project.DepartmentID,
		project.Name,
		project.Description,
		project.StartDate,
		project.EndDate,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
}

func (r *projectRepository) Update(ctx context.Context, project *domain.Project) error {
	const query = `
        UPDATE projects
        SET company_id=$1, department_id=$2, name=$3, description=$4,
            start_date=$5, end_date=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.db.Exec(ctx, query,
		project.CompanyID,
		project.DepartmentID,
		project.Name,
		project.Description,
		project.StartDate,
		project.EndDate,
		project.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.db.QueryRow(ctx, projectSelect+` WHERE p.id=$1`, id)
	return scanProject(row)
}

func (r *projectRepository) List(ctx context.Context, filter ProjectFilter) ([]domain.Project, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		clauses = append(clauses, fmt.Sprintf("p.company_id=$%d", len(args)))
	}
	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		clauses = append(clauses, fmt.Sprintf("p.department_id=$%d", len(args)))
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY c.name, p.name", projectSelect, strings.Join(clauses, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *project)
	}
	return result, rows.Err()
}

// SetAssignedEmployees replaces the full assignment set for a project.
func (r *projectRepository) SetAssignedEmployees(ctx context.Context, projectID string, employeeIDs []string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM project_assignments WHERE project_id=$1`, projectID); err != nil {
		return err
	}
	for _, employeeID := range employeeIDs {
		const query = `INSERT INTO project_assignments (project_id, employee_id) VALUES ($1,$2)`
		if _, err := r.db.Exec(ctx, query, projectID, employeeID); err != nil {
			return err
		}
	}
	return nil
}

func (r *projectRepository) ListAssignedEmployees(ctx context.Context, projectID string) ([]domain.EmployeeRef, error) {
	const query = `
        SELECT e.id, e.name, e.email
        FROM project_assignments pa
        JOIN employees e ON e.id = pa.employee_id
        WHERE pa.project_id=$1
        ORDER BY e.name`
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.EmployeeRef
	for rows.Next() {
		var ref domain.EmployeeRef
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.Email); err != nil {
			return nil, err
		}
		result = append(result, ref)
	}
	return result, rows.Err()
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var project domain.Project
	if err := row.Scan(
		&project.ID,
		&project.CompanyID,
		&project.DepartmentID,
		&project.Name,
		&project.Description,
		&project.StartDate,
		&project.EndDate,
		&project.CreatedAt,
		&project.UpdatedAt,
		&project.CompanyName,
		&project.DepartmentName,
	); err != nil {
		return nil, err
	}
	return &project, nil
}
