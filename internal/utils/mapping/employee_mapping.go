package mapping

import (
	"github.com/salarysys/payroll-backend/internal/core/domain"
	"github.com/salarysys/payroll-backend/internal/models"
)

// ToDomainEmployee converts a model Employee to a domain Employee
func ToDomainEmployee(m models.Employee) domain.Employee {
	return domain.Employee{
		EmployeeID:     m.EmployeeID,
		EmployeeCode:   m.EmployeeCode,
		FullName:       m.FullName,
		DepartmentID:   m.DepartmentID,
		DepartmentName: m.DepartmentName,
		PositionName:   m.PositionName,
		CategoryName:   m.CategoryName,
		HireDate:       m.HireDate,
		IsActive:       m.IsActive,
	}
}

// ToDomainEmployeeSlice converts a slice of model Employees to domain Employees
func ToDomainEmployeeSlice(ms []models.Employee) []domain.Employee {
	employees := make([]domain.Employee, 0, len(ms))
	for _, m := range ms {
		employees = append(employees, ToDomainEmployee(m))
	}
	return employees
}
