package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/hr-service/internal/domain"
)

// CompanyRepository handles persistence for companies.
type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Company, error)
	List(ctx context.Context) ([]domain.Company, error)
	Counts(ctx context.Context, companyID string) (domain.CompanyCounts, error)
}

type companyRepository struct {
	db Queryer
}

// NewCompanyRepository instantiates the repository.
func NewCompanyRepository(db Queryer) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	const query = `SELECT id, name, created_at, updated_at FROM companies WHERE id=$1`
	var company domain.Company
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&company.ID,
		&company.Name,
		&company.CreatedAt,
		&company.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) List(ctx context.Context) ([]domain.Company, error) {
	const query = `SELECT id, name, created_at, updated_at FROM companies ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCompanies(rows)
}

// Counts computes the derived totals in one round trip.
func (r *companyRepository) Counts(ctx context.Context, companyID string) (domain.CompanyCounts, error) {
	const query = `
        SELECT
            (SELECT COUNT(*) FROM departments WHERE company_id=$1),
            (SELECT COUNT(*) FROM employees WHERE company_id=$1),
            (SELECT COUNT(*) FROM projects WHERE company_id=$1)`
	var counts domain.CompanyCounts
	if err := r.db.QueryRow(ctx, query, companyID).Scan(
		&counts.Departments,
		&counts.Employees,
		&counts.Projects,
	); err != nil {
		return domain.CompanyCounts{}, err
	}
	return counts, nil
}

func scanCompanies(rows pgx.Rows) ([]domain.Company, error) {
	var result []domain.Company
	for rows.Next() {
		var company domain.Company
		if err := rows.Scan(
			&company.ID,
			&company.Name,
			&company.CreatedAt,
			&company.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, company)
	}
	return result, rows.Err()
}
