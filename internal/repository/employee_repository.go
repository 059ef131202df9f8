package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/hr-service/internal/domain"
)

// EmployeeFilter captures listing parameters for employee records.
type EmployeeFilter struct {
	CompanyID    *string
	DepartmentID *string
}

// EmployeeRepository handles persistence for directory employee records.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.EmployeeRecord) error
	Update(ctx context.Context, employee *domain.EmployeeRecord) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.EmployeeRecord, error)
	GetByEmail(ctx context.Context, email string) (*domain.EmployeeRecord, error)
	List(ctx context.Context, filter EmployeeFilter) ([]domain.EmployeeRecord, error)
}

type employeeRepository struct {
	db Queryer
}

// NewEmployeeRepository instantiates the repository.
func NewEmployeeRepository(db Queryer) EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeSelect = `
        SELECT e.id, e.company_id, e.department_id, e.name, e.email, e.mobile_number,
               e.address, e.designation, e.hired_on, e.created_at, e.updated_at,
               c.name, d.name
        FROM employees e
        JOIN companies c ON c.id = e.company_id
        LEFT JOIN departments d ON d.id = e.department_id`

func (r *employeeRepository) Create(ctx context.Context, employee *domain.EmployeeRecord) error {
	const query = `
        INSERT INTO employees (company_id, department_id, name, email, mobile_number, address, designation, hired_on)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		employee.CompanyID,
		employee.DepartmentID,
		employee.Name,
		employee.Email,
		employee.MobileNumber,
		employee.Address,
		employee.Designation,
		employee.HiredOn,
	).Scan(&employee.ID, &employee.CreatedAt, &employee.UpdatedAt)
}

func (r *employeeRepository) Update(ctx context.Context, employee *domain.EmployeeRecord) error {
	const query = `
        UPDATE employees
        SET company_id=$1, department_id=$2, name=$3, email=$4, mobile_number=$5,
            address=$6, designation=$7, hired_on=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.db.Exec(ctx, query,
		employee.CompanyID,
		employee.DepartmentID,
		employee.Name,
		employee.Email,
		employee.MobileNumber,
		employee.Address,
		employee.Designation,
		employee.HiredOn,
		employee.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*domain.EmployeeRecord, error) {
	row := r.db.QueryRow(ctx, employeeSelect+` WHERE e.id=$1`, id)
	return scanEmployee(row)
}

func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (*domain.EmployeeRecord, error) {
	row := r.db.QueryRow(ctx, employeeSelect+` WHERE e.email=$1`, email)
	return scanEmployee(row)
}

func (r *employeeRepository) List(ctx context.Context, filter EmployeeFilter) ([]domain.EmployeeRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		clauses = append(clauses, fmt.Sprintf("e.company_id=$%d", len(args)))
	}
	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		clauses = append(clauses, fmt.Sprintf("e.department_id=$%d", len(args)))
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY e.name", employeeSelect, strings.Join(clauses, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.EmployeeRecord
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *employee)
	}
	return result, rows.Err()
}

func scanEmployee(row pgx.Row) (*domain.EmployeeRecord, error) {
	var employee domain.EmployeeRecord
	if err := row.Scan(
		&employee.ID,
		&employee.CompanyID,
		&employee.DepartmentID,
		&employee.Name,
		&employee.Email,
		&employee.MobileNumber,
		&employee.Address,
		&employee.Designation,
		&employee.HiredOn,
		&employee.CreatedAt,
		&employee.UpdatedAt,
		&employee.CompanyName,
		&employee.DepartmentName,
	); err != nil {
		return nil, err
	}
	return &employee, nil
}
