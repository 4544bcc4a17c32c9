package repositories

import (
	"context"
	"time"

	"github.com/salarysys/payroll-backend/internal/core/domain"
)

// PayrollReader defines read operations for payroll record data.
type PayrollReader interface {
	// FindRecordByID retrieves a specific payroll record by its identifier.
	FindRecordByID(ctx context.Context, recordID string) (*domain.PayrollRecord, error)

	// FindRecordsByIDs retrieves payroll records for multiple identifiers, keyed by record ID.
	FindRecordsByIDs(ctx context.Context, recordIDs []string) (map[string]domain.PayrollRecord, error)

	// FindRecordsByPeriod retrieves all payroll records for a pay period,
	// optionally filtered to a status set.
	FindRecordsByPeriod(ctx context.Context, periodID string, statuses []domain.PayrollStatus) ([]domain.PayrollRecord, error)

	// FindExistingEmployeeIDs returns the employee IDs that already have a
	// payroll record for the given period.
	FindExistingEmployeeIDs(ctx context.Context, periodID string) (map[string]string, error)
}

// PayrollWriter defines write operations for payroll record data.
type PayrollWriter interface {
	// SaveRecord persists a new payroll record.
	SaveRecord(ctx context.Context, record domain.PayrollRecord) error

	// ResetRecord zeroes the monetary fields of an existing record and puts it
	// back into draft, keeping its identity.
	ResetRecord(ctx context.Context, recordID string, payDate time.Time, updatedBy string, updatedAt time.Time) error

	// UpdateRecordStatus writes a workflow transition: new status, acting user
	// and timestamp, plus approval or rejection metadata where applicable.
	UpdateRecordStatus(ctx context.Context, record domain.PayrollRecord) error
}

// PeriodReader defines read operations for pay period data.
type PeriodReader interface {
	// FindPeriodByID retrieves a pay period by its identifier.
	FindPeriodByID(ctx context.Context, periodID string) (*domain.PayrollPeriod, error)
}

// PayrollRepositoryFacade combines all payroll-related repository interfaces.
type PayrollRepositoryFacade interface {
	PayrollReader
	PayrollWriter
	PeriodReader
}
