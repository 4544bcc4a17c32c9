package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/salarysys/payroll-backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	payrollRepo := newPgxPayrollRepository(dbPool)
	employeeRepo := newPgxEmployeeRepository(dbPool)
	contributionBaseRepo := newPgxContributionBaseRepository(dbPool)
	exportRepo := newPgxExportRepository(dbPool)

	return portsrepo.RepositoryProvider{
		PayrollRepo:          payrollRepo,
		EmployeeRepo:         employeeRepo,
		ContributionBaseRepo: contributionBaseRepo,
		ExportRepo:           exportRepo,
	}
}
