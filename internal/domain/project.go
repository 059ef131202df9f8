package domain

import "time"

// Project belongs to one company and optionally one department, which must
// belong to the same company. Employees are attached many-to-many.
type Project struct {
	ID           string
	CompanyID    string
	DepartmentID *string
	Name         string
	Description  string
	StartDate    time.Time
	EndDate      *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Read expansions populated by repository joins.
	CompanyName    string
	DepartmentName *string

	// AssignedEmployees is loaded on single-item reads.
	AssignedEmployees []EmployeeRef
}

// EmployeeRef is a lightweight expansion of an assigned employee.
type EmployeeRef struct {
	ID    string
	Name  string
	Email string
}
