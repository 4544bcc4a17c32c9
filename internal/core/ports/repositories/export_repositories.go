package repositories

import (
	"context"

	"github.com/salarysys/payroll-backend/internal/core/domain"
)

// ExportRepository defines the read operations backing export aggregation.
// Every query except FindPayrollEmployeeIDs is filtered by the gating employee
// ID set so that exports never include employees without payroll.
type ExportRepository interface {
	// FindPayrollEmployeeIDs returns the IDs of employees that have payroll
	// records for the period, optionally restricted by status, department and
	// an explicit employee set. This is the gate for every other query.
	FindPayrollEmployeeIDs(ctx context.Context, cfg domain.ExportConfig) ([]string, error)

	// FindPayrollSummaryRows retrieves per-employee payroll totals.
	FindPayrollSummaryRows(ctx context.Context, periodID string, employeeIDs []string) ([]domain.PayrollSummaryRow, error)

	// FindPayrollItems retrieves component-level line items.
	FindPayrollItems(ctx context.Context, periodID string, employeeIDs []string) ([]domain.PayrollItem, error)

	// FindJobRows retrieves job and organizational assignment rows.
	FindJobRows(ctx context.Context, employeeIDs []string) ([]domain.JobAssignmentRow, error)

	// FindCategoryRows retrieves personnel category assignment rows.
	FindCategoryRows(ctx context.Context, employeeIDs []string) ([]domain.CategoryAssignmentRow, error)

	// FindContributionBaseRows retrieves open contribution bases for the employees.
	FindContributionBaseRows(ctx context.Context, employeeIDs []string) ([]domain.ContributionBaseRow, error)
}
