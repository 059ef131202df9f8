package domain

import "time"

// Company is the top-level organizational unit.
type Company struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CompanyCounts carries the derived totals for one company. Computed on
// read, never stored.
type CompanyCounts struct {
	Departments int64
	Employees   int64
	Projects    int64
}
