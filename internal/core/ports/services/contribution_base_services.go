package services

import (
	"context"

	"github.com/salarysys/payroll-backend/internal/core/domain"
	"github.com/salarysys/payroll-backend/internal/dto"
)

// ContributionBaseSvcFacade manages effective-dated contribution base records.
// The strategy is always selected explicitly by the caller, never inferred.
type ContributionBaseSvcFacade interface {
	// CarryForward validates that base data exists to be reused from the source
	// period. It mutates nothing and returns a count summary.
	CarryForward(ctx context.Context, req dto.CarryForwardRequest) (*dto.CarryForwardSummary, error)

	// ApplyNewBases terminates the open base record for every affected
	// (employee, insuranceType) pair and inserts replacements effective from
	// the request date.
	ApplyNewBases(ctx context.Context, req dto.NewBaseRequest, actor string) (*dto.NewBaseResult, error)

	// ListBases returns one employee's effective-dated base history.
	ListBases(ctx context.Context, employeeID string) ([]domain.ContributionBaseRecord, error)
}
