package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/hr-service/internal/domain"
)

// DepartmentRepository handles persistence for departments.
type DepartmentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Department, error)
	List(ctx context.Context, companyID *string) ([]domain.Department, error)
	Counts(ctx context.Context, departmentID string) (domain.DepartmentCounts, error)
}

type departmentRepository struct {
	db Queryer
}

// NewDepartmentRepository instantiates the repository.
func NewDepartmentRepository(db Queryer) DepartmentRepository {
	return &departmentRepository{db: db}
}

const departmentSelect = `
        SELECT d.id, d.company_id, d.name, d.created_at, d.updated_at, c.name
        FROM departments d
        JOIN companies c ON c.id = d.company_id`

func (r *departmentRepository) GetByID(ctx context.Context, id string) (*domain.Department, error) {
	row := r.db.QueryRow(ctx, departmentSelect+` WHERE d.id=$1`, id)
	return scanDepartment(row)
}

func (r *departmentRepository) List(ctx context.Context, companyID *string) ([]domain.Department, error) {
	query := departmentSelect + ` ORDER BY d.name`
	args := []any{}
	if companyID != nil {
		query = departmentSelect + ` WHERE d.company_id=$1 ORDER BY d.name`
		args = append(args, *companyID)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Department
	for rows.Next() {
		dept, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *dept)
	}
	return result, rows.Err()
}

func (r *departmentRepository) Counts(ctx context.Context, departmentID string) (domain.DepartmentCounts, error) {
	const query = `
        SELECT
            (SELECT COUNT(*) FROM employees WHERE department_id=$1),
            (SELECT COUNT(*) FROM projects WHERE department_id=$1)`
	var counts domain.DepartmentCounts
	if err := r.db.QueryRow(ctx, query, departmentID).Scan(
		&counts.Employees,
		&counts.Projects,
	); err != nil {
		return domain.DepartmentCounts{}, err
	}
	return counts, nil
}

func scanDepartment(row pgx.Row) (*domain.Department, error) {
	var dept domain.Department
	if err := row.Scan(
		&dept.ID,
		&dept.CompanyID,
		&dept.Name,
		&dept.CreatedAt,
		&dept.UpdatedAt,
		&dept.CompanyName,
	); err != nil {
		return nil, err
	}
	return &dept, nil
}
