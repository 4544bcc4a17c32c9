package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InsuranceType identifies one mandatory insurance or benefit scheme
// (pension, medical, housing fund, ...).
type InsuranceType struct {
	InsuranceTypeID string `json:"insuranceTypeID"`
	Name            string `json:"name"`
}

// ContributionBaseRecord is an effective-dated base amount used to compute
// insurance and benefit deductions for one employee and one insurance type.
// At most one record per (employee, insuranceType) pair may be open, i.e.
// have a nil EffectiveEnd.
type ContributionBaseRecord struct {
	BaseID           string          `json:"baseID"`
	EmployeeID       string          `json:"employeeID"`
	InsuranceTypeID  string          `json:"insuranceTypeID"`
	ContributionBase decimal.Decimal `json:"contributionBase"`
	EffectiveStart   time.Time       `json:"effectiveStart"`
	EffectiveEnd     *time.Time      `json:"effectiveEnd,omitempty"` // nil while the record is in force
	AuditFields
}

// IsOpen reports whether the record is currently in force.
func (r *ContributionBaseRecord) IsOpen() bool {
	return r.EffectiveEnd == nil
}

// BasePair identifies one (employee, insuranceType) combination.
type BasePair struct {
	EmployeeID      string `json:"employeeID"`
	InsuranceTypeID string `json:"insuranceTypeID"`
}

// NewBaseEntry is one requested base change in a new-base strategy run.
type NewBaseEntry struct {
	EmployeeID      string          `json:"employeeID"`
	InsuranceTypeID string          `json:"insuranceTypeID"`
	NewBase         decimal.Decimal `json:"newBase"`
	EffectiveDate   time.Time       `json:"effectiveDate"`
}

// Pair returns the (employee, insuranceType) pair the entry targets.
func (e NewBaseEntry) Pair() BasePair {
	return BasePair{EmployeeID: e.EmployeeID, InsuranceTypeID: e.InsuranceTypeID}
}
