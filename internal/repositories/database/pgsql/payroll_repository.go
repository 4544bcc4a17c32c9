package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/salarysys/payroll-backend/internal/apperrors"
	"github.com/salarysys/payroll-backend/internal/core/domain"
	portsrepo "github.com/salarysys/payroll-backend/internal/core/ports/repositories"
	"github.com/salarysys/payroll-backend/internal/models"
	"github.com/salarysys/payroll-backend/internal/utils/mapping"
)

const payrollRecordColumns = `record_id, employee_id, period_id, pay_date, status,
		gross_pay, total_deductions, net_pay, notes,
		approved_by, approved_at, rejected_by, rejected_at, rejection_reason,
		created_at, created_by, last_updated_at, last_updated_by`

type PgxPayrollRepository struct {
	BaseRepository
}

// newPgxPayrollRepository creates a new repository for payroll record and period data.
func newPgxPayrollRepository(pool *pgxpool.Pool) portsrepo.PayrollRepositoryFacade {
	return &PgxPayrollRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.PayrollRepositoryFacade = (*PgxPayrollRepository)(nil)

func scanPayrollRecord(row pgx.Row) (models.PayrollRecord, error) {
	var m models.PayrollRecord
	err := row.Scan(
		&m.RecordID,
		&m.EmployeeID,
		&m.PeriodID,
		&m.PayDate,
		&m.Status,
		&m.GrossPay,
		&m.TotalDeductions,
		&m.NetPay,
		&m.Notes,
		&m.ApprovedBy,
		&m.ApprovedAt,
		&m.RejectedBy,
		&m.RejectedAt,
		&m.RejectionReason,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindRecordByID retrieves a payroll record by its identifier.
func (r *PgxPayrollRepository) FindRecordByID(ctx context.Context, recordID string) (*domain.PayrollRecord, error) {
	query := `SELECT ` + payrollRecordColumns + ` FROM payroll_records WHERE record_id = $1;`

	m, err := scanPayrollRecord(r.Pool.QueryRow(ctx, query, recordID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payroll record %s: %w", recordID, err)
	}

	record := mapping.ToDomainPayrollRecord(m)
	return &record, nil
}

// FindRecordsByIDs retrieves payroll records for multiple identifiers, keyed by record ID.
func (r *PgxPayrollRepository) FindRecordsByIDs(ctx context.Context, recordIDs []string) (map[string]domain.PayrollRecord, error) {
	if len(recordIDs) == 0 {
		return map[string]domain.PayrollRecord{}, nil
	}

	query := `SELECT ` + payrollRecordColumns + ` FROM payroll_records WHERE record_id = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, recordIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll records: %w", err)
	}
	defer rows.Close()

	modelRecords, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.PayrollRecord, error) {
		return scanPayrollRecord(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan payroll records: %w", err)
	}

	records := make(map[string]domain.PayrollRecord, len(modelRecords))
	for _, m := range modelRecords {
		records[m.RecordID] = mapping.ToDomainPayrollRecord(m)
	}
	return records, nil
}

// FindRecordsByPeriod retrieves all payroll records for a pay period, optionally
// filtered to a status set.
func (r *PgxPayrollRepository) FindRecordsByPeriod(ctx context.Context, periodID string, statuses []domain.PayrollStatus) ([]domain.PayrollRecord, error) {
	query := `SELECT ` + payrollRecordColumns + ` FROM payroll_records WHERE period_id = $1`
	args := []any{periodID}

	if len(statuses) > 0 {
		statusStrings := make([]string, 0, len(statuses))
		for _, s := range statuses {
			statusStrings = append(statusStrings, string(s))
		}
		query += ` AND status = ANY($2)`
		args = append(args, statusStrings)
	}
	query += ` ORDER BY employee_id;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll records for period %s: %w", periodID, err)
	}
	defer rows.Close()

	modelRecords, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.PayrollRecord, error) {
		return scanPayrollRecord(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan payroll records for period %s: %w", periodID, err)
	}

	records := make([]domain.PayrollRecord, 0, len(modelRecords))
	for _, m := range modelRecords {
		records = append(records, mapping.ToDomainPayrollRecord(m))
	}
	return records, nil
}

// FindExistingEmployeeIDs returns a map of employee ID to record ID for every
// payroll record in the period.
func (r *PgxPayrollRepository) FindExistingEmployeeIDs(ctx context.Context, periodID string) (map[string]string, error) {
	query := `SELECT employee_id, record_id FROM payroll_records WHERE period_id = $1;`

	rows, err := r.Pool.Query(ctx, query, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query existing payroll employees for period %s: %w", periodID, err)
	}
	defer rows.Close()

	existing := make(map[string]string)
	for rows.Next() {
		var employeeID, recordID string
		if err := rows.Scan(&employeeID, &recordID); err != nil {
			return nil, fmt.Errorf("failed to scan existing payroll employee: %w", err)
		}
		existing[employeeID] = recordID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading existing payroll employees: %w", err)
	}
	return existing, nil
}

// SaveRecord persists a new payroll record.
func (r *PgxPayrollRepository) SaveRecord(ctx context.Context, record domain.PayrollRecord) error {
	m := mapping.ToModelPayrollRecord(record)

	query := `
		INSERT INTO payroll_records (` + payrollRecordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`

	_, err := r.Pool.Exec(ctx, query,
		m.RecordID, m.EmployeeID, m.PeriodID, m.PayDate, m.Status,
		m.GrossPay, m.TotalDeductions, m.NetPay, m.Notes,
		m.ApprovedBy, m.ApprovedAt, m.RejectedBy, m.RejectedAt, m.RejectionReason,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save payroll record %s: %w", m.RecordID, err)
	}
	return nil
}

// ResetRecord zeroes the monetary fields of an existing record and puts it back
// into draft, keeping its identity.
func (r *PgxPayrollRepository) ResetRecord(ctx context.Context, recordID string, payDate time.Time, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE payroll_records
		SET status = $2, pay_date = $3,
			gross_pay = $4, total_deductions = $4, net_pay = $4,
			notes = '', approved_by = NULL, approved_at = NULL,
			rejected_by = NULL, rejected_at = NULL, rejection_reason = NULL,
			last_updated_by = $5, last_updated_at = $6
		WHERE record_id = $1;
	`

	tag, err := r.Pool.Exec(ctx, query, recordID, string(domain.StatusDraft), payDate, decimal.Zero, updatedBy, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to reset payroll record %s: %w", recordID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateRecordStatus writes a workflow transition: new status, acting user and
// timestamp, plus approval or rejection metadata where applicable.
func (r *PgxPayrollRepository) UpdateRecordStatus(ctx context.Context, record domain.PayrollRecord) error {
	m := mapping.ToModelPayrollRecord(record)

	query := `
		UPDATE payroll_records
		SET status = $2, notes = $3,
			approved_by = $4, approved_at = $5,
			rejected_by = $6, rejected_at = $7, rejection_reason = $8,
			last_updated_by = $9, last_updated_at = $10
		WHERE record_id = $1;
	`

	tag, err := r.Pool.Exec(ctx, query,
		m.RecordID, m.Status, m.Notes,
		m.ApprovedBy, m.ApprovedAt,
		m.RejectedBy, m.RejectedAt, m.RejectionReason,
		m.LastUpdatedBy, m.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update status of payroll record %s: %w", m.RecordID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindPeriodByID retrieves a pay period by its identifier.
func (r *PgxPayrollRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.PayrollPeriod, error) {
	query := `
		SELECT period_id, name, start_date, end_date, pay_date
		FROM payroll_periods
		WHERE period_id = $1;
	`

	var m models.PayrollPeriod
	err := r.Pool.QueryRow(ctx, query, periodID).Scan(&m.PeriodID, &m.Name, &m.StartDate, &m.EndDate, &m.PayDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payroll period %s: %w", periodID, err)
	}

	period := mapping.ToDomainPayrollPeriod(m)
	return &period, nil
}
