package dto

import "time"

// BatchCreateRequest configures one batch payroll creation run. The employee
// scope is either an explicit ID list or one or more organizational units.
type BatchCreateRequest struct {
	PeriodID          string     `json:"periodId" binding:"required"`
	EmployeeIDs       []string   `json:"employeeIds"`
	DepartmentIDs     []string   `json:"departmentIds"`
	OverwriteExisting bool       `json:"overwriteExisting"`
	PayDate           *time.Time `json:"payDate"`
}

// HasScope reports whether the request names at least one employee source.
func (r BatchCreateRequest) HasScope() bool {
	return len(r.EmployeeIDs) > 0 || len(r.DepartmentIDs) > 0
}
