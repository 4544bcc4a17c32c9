package domain

import "time"

// Employee carries the slice of employee master data the payroll engine needs.
// The full employee profile lives outside this system.
type Employee struct {
	EmployeeID     string     `json:"employeeID"`
	EmployeeCode   string     `json:"employeeCode"`
	FullName       string     `json:"fullName"`
	DepartmentID   string     `json:"departmentID"`
	DepartmentName string     `json:"departmentName"`
	PositionName   string     `json:"positionName"`
	CategoryName   string     `json:"categoryName"`
	HireDate       *time.Time `json:"hireDate,omitempty"`
	IsActive       bool       `json:"isActive"`
}
