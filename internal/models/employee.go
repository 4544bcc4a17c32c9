package models

import "time"

// Employee represents one row of the employees table.
type Employee struct {
	EmployeeID     string     `db:"employee_id"`
	EmployeeCode   string     `db:"employee_code"`
	FullName       string     `db:"full_name"`
	DepartmentID   string     `db:"department_id"`
	DepartmentName string     `db:"department_name"`
	PositionName   string     `db:"position_name"`
	CategoryName   string     `db:"category_name"`
	HireDate       *time.Time `db:"hire_date"`
	IsActive       bool       `db:"is_active"`
}
