package domain

import "time"

// Department belongs to exactly one company. Names are unique per company.
type Department struct {
	ID        string
	CompanyID string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time

	// CompanyName is a read expansion populated by repository joins.
	CompanyName string
}

// DepartmentCounts carries the derived totals for one department.
type DepartmentCounts struct {
	Employees int64
	Projects  int64
}
