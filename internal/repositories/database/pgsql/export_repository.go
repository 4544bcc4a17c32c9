package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salarysys/payroll-backend/internal/core/domain"
	portsrepo "github.com/salarysys/payroll-backend/internal/core/ports/repositories"
)

type PgxExportRepository struct {
	BaseRepository
}

// newPgxExportRepository creates a new repository backing export aggregation.
func newPgxExportRepository(pool *pgxpool.Pool) portsrepo.ExportRepository {
	return &PgxExportRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ExportRepository = (*PgxExportRepository)(nil)

// FindPayrollEmployeeIDs returns the IDs of employees that have payroll records
// for the period, restricted by the config's status, department and employee
// filters. This set gates every other export query.
func (r *PgxExportRepository) FindPayrollEmployeeIDs(ctx context.Context, cfg domain.ExportConfig) ([]string, error) {
	query := `
		SELECT DISTINCT pr.employee_id
		FROM payroll_records pr
		JOIN employees e ON e.employee_id = pr.employee_id
		WHERE pr.period_id = $1
	`
	args := []any{cfg.PeriodID}

	if len(cfg.Statuses) > 0 {
		statuses := make([]string, 0, len(cfg.Statuses))
		for _, s := range cfg.Statuses {
			statuses = append(statuses, string(s))
		}
		args = append(args, statuses)
		query += fmt.Sprintf(" AND pr.status = ANY($%d)", len(args))
	}
	if len(cfg.DepartmentIDs) > 0 {
		args = append(args, cfg.DepartmentIDs)
		query += fmt.Sprintf(" AND e.department_id = ANY($%d)", len(args))
	}
	if len(cfg.EmployeeIDs) > 0 {
		args = append(args, cfg.EmployeeIDs)
		query += fmt.Sprintf(" AND pr.employee_id = ANY($%d)", len(args))
	}
	query += " ORDER BY pr.employee_id;"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query export employee set for period %s: %w", cfg.PeriodID, err)
	}
	defer rows.Close()

	var employeeIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan export employee ID: %w", err)
		}
		employeeIDs = append(employeeIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading export employee set: %w", err)
	}
	return employeeIDs, nil
}

// FindPayrollSummaryRows retrieves per-employee payroll totals joined with
// employee identity data, ordered by employee code.
func (r *PgxExportRepository) FindPayrollSummaryRows(ctx context.Context, periodID string, employeeIDs []string) ([]domain.PayrollSummaryRow, error) {
	query := `
		SELECT pr.employee_id, e.employee_code, e.full_name, e.department_name, e.category_name,
			pr.status, pr.gross_pay, pr.total_deductions, pr.net_pay
		FROM payroll_records pr
		JOIN employees e ON e.employee_id = pr.employee_id
		WHERE pr.period_id = $1 AND pr.employee_id = ANY($2)
		ORDER BY e.employee_code;
	`

	rows, err := r.Pool.Query(ctx, query, periodID, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll summary rows for period %s: %w", periodID, err)
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PayrollSummaryRow, error) {
		var r domain.PayrollSummaryRow
		err := row.Scan(
			&r.EmployeeID, &r.EmployeeCode, &r.EmployeeName, &r.DepartmentName, &r.CategoryName,
			&r.Status, &r.GrossPay, &r.TotalDeductions, &r.NetPay,
		)
		return r, err
	})
}

// FindPayrollItems retrieves component-level line items for the employees.
func (r *PgxExportRepository) FindPayrollItems(ctx context.Context, periodID string, employeeIDs []string) ([]domain.PayrollItem, error) {
	query := `
		SELECT pi.record_id, pi.employee_id, pi.component_name, pi.kind, pi.amount
		FROM payroll_items pi
		JOIN payroll_records pr ON pr.record_id = pi.record_id
		JOIN employees e ON e.employee_id = pi.employee_id
		WHERE pr.period_id = $1 AND pi.employee_id = ANY($2)
		ORDER BY e.employee_code, pi.component_name;
	`

	rows, err := r.Pool.Query(ctx, query, periodID, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll items for period %s: %w", periodID, err)
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PayrollItem, error) {
		var item domain.PayrollItem
		err := row.Scan(&item.RecordID, &item.EmployeeID, &item.ComponentName, &item.Kind, &item.Amount)
		return item, err
	})
}

// FindJobRows retrieves job and organizational assignment rows.
func (r *PgxExportRepository) FindJobRows(ctx context.Context, employeeIDs []string) ([]domain.JobAssignmentRow, error) {
	query := `
		SELECT employee_id, employee_code, full_name, department_name, position_name
		FROM employees
		WHERE employee_id = ANY($1)
		ORDER BY employee_code;
	`

	rows, err := r.Pool.Query(ctx, query, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query job assignment rows: %w", err)
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.JobAssignmentRow, error) {
		var r domain.JobAssignmentRow
		err := row.Scan(&r.EmployeeID, &r.EmployeeCode, &r.EmployeeName, &r.DepartmentName, &r.PositionName)
		return r, err
	})
}

// FindCategoryRows retrieves personnel category assignment rows.
func (r *PgxExportRepository) FindCategoryRows(ctx context.Context, employeeIDs []string) ([]domain.CategoryAssignmentRow, error) {
	query := `
		SELECT employee_id, employee_code, full_name, category_name
		FROM employees
		WHERE employee_id = ANY($1)
		ORDER BY employee_code;
	`

	rows, err := r.Pool.Query(ctx, query, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query category assignment rows: %w", err)
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CategoryAssignmentRow, error) {
		var r domain.CategoryAssignmentRow
		err := row.Scan(&r.EmployeeID, &r.EmployeeCode, &r.EmployeeName, &r.CategoryName)
		return r, err
	})
}

// FindContributionBaseRows retrieves open contribution bases joined with
// employee identity and insurance type names.
func (r *PgxExportRepository) FindContributionBaseRows(ctx context.Context, employeeIDs []string) ([]domain.ContributionBaseRow, error) {
	query := `
		SELECT b.employee_id, e.employee_code, e.full_name, it.name, b.contribution_base
		FROM contribution_bases b
		JOIN employees e ON e.employee_id = b.employee_id
		JOIN insurance_types it ON it.insurance_type_id = b.insurance_type_id
		WHERE b.employee_id = ANY($1) AND b.effective_end IS NULL
		ORDER BY e.employee_code, it.name;
	`

	rows, err := r.Pool.Query(ctx, query, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query contribution base rows: %w", err)
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ContributionBaseRow, error) {
		var r domain.ContributionBaseRow
		err := row.Scan(&r.EmployeeID, &r.EmployeeCode, &r.EmployeeName, &r.InsuranceType, &r.ContributionBase)
		return r, err
	})
}
