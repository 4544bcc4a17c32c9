package services

import (
	"context"

	"github.com/salarysys/payroll-backend/internal/core/domain"
)

// ValidationSvcFacade evaluates declarative rules against payroll records and
// manages the engine's rule registry.
type ValidationSvcFacade interface {
	// Validate evaluates every registered rule against every record.
	Validate(ctx context.Context, records []domain.PayrollRecord) *domain.ValidationResult

	// ValidatePeriod loads the period's payroll records and validates them.
	ValidatePeriod(ctx context.Context, periodID string) (*domain.ValidationResult, error)

	// AutoFix applies the automated remedies of the given issues to the record
	// and returns the corrected copy plus the number of fixes applied. The
	// caller is responsible for persisting the result.
	AutoFix(record domain.PayrollRecord, issues []domain.ValidationIssue) (domain.PayrollRecord, int)

	// AddRule registers an additional rule.
	AddRule(rule domain.ValidationRule) error

	// RemoveRule unregisters a rule by ID, reporting whether it existed.
	RemoveRule(ruleID string) bool

	// Rules returns a snapshot of the registered rules.
	Rules() []domain.ValidationRule
}
