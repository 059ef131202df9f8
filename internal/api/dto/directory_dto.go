package dto

// CompanyResponse includes the derived totals computed on read.
type CompanyResponse struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	NumberOfDepartments int64  `json:"number_of_departments"`
	NumberOfEmployees   int64  `json:"number_of_employees"`
	NumberOfProjects    int64  `json:"number_of_projects"`
}

// DepartmentResponse includes derived totals and the company name expansion.
type DepartmentResponse struct {
	ID                string `json:"id"`
	Company           string `json:"company"`
	CompanyName       string `json:"company_name"`
	Name              string `json:"name"`
	NumberOfEmployees int64  `json:"number_of_employees"`
	NumberOfProjects  int64  `json:"number_of_projects"`
}

// EmployeeRequest payload for create and full replace. Dates use YYYY-MM-DD.
type EmployeeRequest struct {
	Company      string  `json:"company"`
	Department   *string `json:"department"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	MobileNumber string  `json:"mobile_number"`
	Address      string  `json:"address"`
	Designation  string  `json:"designation"`
	HiredOn      *string `json:"hired_on"`
}

// EmployeePatchRequest payload for partial update; absent fields keep their
// current values.
type EmployeePatchRequest struct {
	Company      *string `json:"company"`
	Department   *string `json:"department"`
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	MobileNumber *string `json:"mobile_number"`
	Address      *string `json:"address"`
	Designation  *string `json:"designation"`
	HiredOn      *string `json:"hired_on"`
}

// EmployeeResponse includes name expansions and the derived days_employed.
type EmployeeResponse struct {
	ID             string  `json:"id"`
	Company        string  `json:"company"`
	CompanyName    string  `json:"company_name"`
	Department     *string `json:"department"`
	DepartmentName *string `json:"department_name"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	MobileNumber   string  `json:"mobile_number"`
	Address        string  `json:"address"`
	Designation    string  `json:"designation"`
	HiredOn        *string `json:"hired_on"`
	DaysEmployed   *int    `json:"days_employed"`
}

// AssignedEmployeeResponse is a compact expansion of an assigned employee.
type AssignedEmployeeResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProjectResponse includes name expansions and the assigned employee list.
type ProjectResponse struct {
	ID                    string                     `json:"id"`
	Company               string                     `json:"company"`
	CompanyName           string                     `json:"company_name"`
	Department            *string                    `json:"department"`
	DepartmentName        *string                    `json:"department_name"`
	Name                  string                     `json:"name"`
	Description           string                     `json:"description"`
	StartDate             string                     `json:"start_date"`
	EndDate               *string                    `json:"end_date"`
	AssignedEmployeesList []AssignedEmployeeResponse `json:"assigned_employees_list"`
}
