package repositories

import (
	"context"
	"time"

	"github.com/salarysys/payroll-backend/internal/core/domain"
)

// ContributionBaseReader defines read operations for contribution base data.
type ContributionBaseReader interface {
	// FindOpenBases retrieves the currently open base record for each of the
	// given pairs, keyed by pair. Pairs without an open record are absent.
	FindOpenBases(ctx context.Context, pairs []domain.BasePair) (map[domain.BasePair]domain.ContributionBaseRecord, error)

	// FindOpenBasesForEmployees retrieves all open base records for the given
	// employees.
	FindOpenBasesForEmployees(ctx context.Context, employeeIDs []string) ([]domain.ContributionBaseRecord, error)

	// FindBasesByEmployee retrieves the full effective-dated base history for
	// one employee, newest first.
	FindBasesByEmployee(ctx context.Context, employeeID string) ([]domain.ContributionBaseRecord, error)
}

// ContributionBaseWriter defines write operations for contribution base data.
type ContributionBaseWriter interface {
	// TerminateBases sets the effective end date on the open record of each
	// given pair. It returns the pairs that actually had an open record.
	TerminateBases(ctx context.Context, pairs []domain.BasePair, endDate time.Time, updatedBy string, updatedAt time.Time) ([]domain.BasePair, error)

	// InsertBases persists new open base records.
	InsertBases(ctx context.Context, records []domain.ContributionBaseRecord) error

	// ReopenBases clears the effective end date previously set by
	// TerminateBases, as a compensating action after a failed insert.
	ReopenBases(ctx context.Context, pairs []domain.BasePair, updatedBy string, updatedAt time.Time) error
}

// ContributionBaseRepositoryFacade combines base reader and writer interfaces.
type ContributionBaseRepositoryFacade interface {
	ContributionBaseReader
	ContributionBaseWriter
}

// AtomicBaseReplacer is implemented by stores that can terminate the open
// records and insert their replacements in a single atomic operation. The
// strategy manager prefers this path when available.
type AtomicBaseReplacer interface {
	// ReplaceBasesAtomic terminates the open record for every affected pair and
	// inserts the replacement records, all or nothing.
	ReplaceBasesAtomic(ctx context.Context, pairs []domain.BasePair, endDate time.Time, records []domain.ContributionBaseRecord) error
}
