package domain

import "time"

// EmployeeRecord is the directory entry for a person employed by a company.
// It is distinct from the User account an employee may log in with. The
// department, when set, must belong to the same company.
type EmployeeRecord struct {
	ID           string
	CompanyID    string
	DepartmentID *string
	Name         string
	Email        string
	MobileNumber string
	Address      string
	Designation  string
	HiredOn      *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Read expansions populated by repository joins.
	CompanyName    string
	DepartmentName *string
}

// DaysEmployed returns the whole days between hired_on and now, or nil when
// the employee has not been hired yet.
func (e *EmployeeRecord) DaysEmployed(now time.Time) *int {
	if e.HiredOn == nil {
		return nil
	}
	days := int(now.Sub(*e.HiredOn).Hours() / 24)
	return &days
}
