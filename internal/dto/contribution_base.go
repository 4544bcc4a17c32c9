package dto

import (
	"github.com/salarysys/payroll-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// NewBaseEntryRequest is one requested base change.
type NewBaseEntryRequest struct {
	EmployeeID      string          `json:"employeeId" binding:"required"`
	InsuranceTypeID string          `json:"insuranceTypeId" binding:"required"`
	NewBase         decimal.Decimal `json:"newBase"`
	EffectiveDate   string          `json:"effectiveDate" binding:"required,isodate"` // YYYY-MM-DD
}

// NewBaseRequest applies the new-base strategy to a list of entries. All
// entries must share the same effective date.
type NewBaseRequest struct {
	Entries []NewBaseEntryRequest `json:"entries" binding:"required,min=1,dive"`
}

// EntryError reports why one entry was rejected during pre-validation.
type EntryError struct {
	EmployeeID      string `json:"employeeId"`
	InsuranceTypeID string `json:"insuranceTypeId"`
	Message         string `json:"message"`
}

// NewBaseResult summarises a new-base strategy run.
type NewBaseResult struct {
	TerminatedCount int          `json:"terminatedCount"`
	InsertedCount   int          `json:"insertedCount"`
	RejectedEntries []EntryError `json:"rejectedEntries,omitempty"`
}

// CarryForwardRequest validates that the source period's base data can be
// reused for the listed employees.
type CarryForwardRequest struct {
	SourcePeriodID string   `json:"sourcePeriodId" binding:"required"`
	EmployeeIDs    []string `json:"employeeIds" binding:"required,min=1"`
}

// CarryForwardSummary is the count summary of a carry-forward check.
type CarryForwardSummary struct {
	EmployeesChecked   int      `json:"employeesChecked"`
	EmployeesWithBases int      `json:"employeesWithBases"`
	MissingEmployeeIDs []string `json:"missingEmployeeIds,omitempty"`
}

// BaseHistoryResponse wraps one employee's base history.
type BaseHistoryResponse struct {
	EmployeeID string                          `json:"employeeId"`
	Bases      []domain.ContributionBaseRecord `json:"bases"`
}
