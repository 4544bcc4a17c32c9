package repositories

import (
	"context"

	"github.com/salarysys/payroll-backend/internal/core/domain"
)

// EmployeeReader defines read operations for employee master data.
type EmployeeReader interface {
	// FindEmployeesByIDs retrieves employees for the given IDs, keyed by employee ID.
	FindEmployeesByIDs(ctx context.Context, employeeIDs []string) (map[string]domain.Employee, error)

	// FindEmployeesByDepartments retrieves active employees belonging to any of
	// the given organizational units, in a stable order.
	FindEmployeesByDepartments(ctx context.Context, departmentIDs []string) ([]domain.Employee, error)
}
