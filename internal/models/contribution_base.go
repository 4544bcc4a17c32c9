package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InsuranceType represents one row of the insurance_types table.
type InsuranceType struct {
	InsuranceTypeID string `db:"insurance_type_id"`
	Name            string `db:"name"`
}

// ContributionBase represents one row of the contribution_bases table.
// EffectiveEnd is NULL while the record is in force.
type ContributionBase struct {
	BaseID           string          `db:"base_id"`
	EmployeeID       string          `db:"employee_id"`
	InsuranceTypeID  string          `db:"insurance_type_id"`
	ContributionBase decimal.Decimal `db:"contribution_base"`
	EffectiveStart   time.Time       `db:"effective_start"`
	EffectiveEnd     *time.Time      `db:"effective_end"`
	AuditFields
}
