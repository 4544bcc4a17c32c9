package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salarysys/payroll-backend/internal/core/domain"
	portsrepo "github.com/salarysys/payroll-backend/internal/core/ports/repositories"
	"github.com/salarysys/payroll-backend/internal/models"
	"github.com/salarysys/payroll-backend/internal/utils/mapping"
)

const employeeColumns = `employee_id, employee_code, full_name, department_id,
		department_name, position_name, category_name, hire_date, is_active`

type PgxEmployeeRepository struct {
	BaseRepository
}

// newPgxEmployeeRepository creates a new repository for employee master data.
func newPgxEmployeeRepository(pool *pgxpool.Pool) portsrepo.EmployeeReader {
	return &PgxEmployeeRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.EmployeeReader = (*PgxEmployeeRepository)(nil)

func scanEmployee(row pgx.Row) (models.Employee, error) {
	var m models.Employee
	err := row.Scan(
		&m.EmployeeID,
		&m.EmployeeCode,
		&m.FullName,
		&m.DepartmentID,
		&m.DepartmentName,
		&m.PositionName,
		&m.CategoryName,
		&m.HireDate,
		&m.IsActive,
	)
	return m, err
}

// FindEmployeesByIDs retrieves employees for the given IDs, keyed by employee ID.
func (r *PgxEmployeeRepository) FindEmployeesByIDs(ctx context.Context, employeeIDs []string) (map[string]domain.Employee, error) {
	if len(employeeIDs) == 0 {
		return map[string]domain.Employee{}, nil
	}

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE employee_id = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	modelEmployees, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Employee, error) {
		return scanEmployee(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan employees: %w", err)
	}

	employees := make(map[string]domain.Employee, len(modelEmployees))
	for _, m := range modelEmployees {
		employees[m.EmployeeID] = mapping.ToDomainEmployee(m)
	}
	return employees, nil
}

// FindEmployeesByDepartments retrieves active employees belonging to any of the
// given organizational units, ordered by employee code.
func (r *PgxEmployeeRepository) FindEmployeesByDepartments(ctx context.Context, departmentIDs []string) ([]domain.Employee, error) {
	if len(departmentIDs) == 0 {
		return []domain.Employee{}, nil
	}

	query := `SELECT ` + employeeColumns + `
		FROM employees
		WHERE department_id = ANY($1) AND is_active = TRUE
		ORDER BY employee_code;`

	rows, err := r.Pool.Query(ctx, query, departmentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees by department: %w", err)
	}
	defer rows.Close()

	modelEmployees, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Employee, error) {
		return scanEmployee(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan employees by department: %w", err)
	}

	return mapping.ToDomainEmployeeSlice(modelEmployees), nil
}
