package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus indicates where a payroll record sits in the approval lifecycle.
// The string values are wire-stable and must never be renumbered or renamed.
type PayrollStatus string

const (
	StatusDraft       PayrollStatus = "draft"
	StatusCalculating PayrollStatus = "calculating"
	StatusCalculated  PayrollStatus = "calculated"
	StatusApproved    PayrollStatus = "approved"
	StatusPaid        PayrollStatus = "paid"
	StatusCancelled   PayrollStatus = "cancelled"
)

// allowedTransitions is the approval workflow state machine. A status missing
// from the map is terminal.
var allowedTransitions = map[PayrollStatus][]PayrollStatus{
	StatusDraft:       {StatusCalculating, StatusCalculated, StatusApproved, StatusCancelled},
	StatusCalculating: {StatusCalculated, StatusCancelled},
	StatusCalculated:  {StatusApproved, StatusCancelled},
	StatusApproved:    {StatusPaid, StatusCancelled},
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s PayrollStatus) IsTerminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// CanTransitionTo reports whether the workflow permits moving from s to target.
func (s PayrollStatus) CanTransitionTo(target PayrollStatus) bool {
	for _, next := range allowedTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsValidStatus reports whether the given string is a known payroll status.
func IsValidStatus(s string) bool {
	switch PayrollStatus(s) {
	case StatusDraft, StatusCalculating, StatusCalculated, StatusApproved, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// NetPayEpsilon is the tolerance used when checking the net pay arithmetic invariant.
var NetPayEpsilon = decimal.NewFromFloat(0.01)

// PayrollRecord is one employee's payroll result for one pay period.
// Records are never physically deleted; they are cancelled instead.
type PayrollRecord struct {
	RecordID        string          `json:"recordID"`
	EmployeeID      string          `json:"employeeID"`
	PeriodID        string          `json:"periodID"`
	PayDate         time.Time       `json:"payDate"`
	Status          PayrollStatus   `json:"status"`
	GrossPay        decimal.Decimal `json:"grossPay"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	NetPay          decimal.Decimal `json:"netPay"`
	Notes           string          `json:"notes"`
	ApprovedBy      string          `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time      `json:"approvedAt,omitempty"`
	RejectedBy      string          `json:"rejectedBy,omitempty"`
	RejectedAt      *time.Time      `json:"rejectedAt,omitempty"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
	AuditFields
}

// NetPayConsistent reports whether netPay equals grossPay minus totalDeductions
// within NetPayEpsilon.
func (r *PayrollRecord) NetPayConsistent() bool {
	diff := r.GrossPay.Sub(r.TotalDeductions).Sub(r.NetPay).Abs()
	return diff.LessThanOrEqual(NetPayEpsilon)
}

// PayrollPeriod is the interval payroll is computed for, typically one calendar month.
type PayrollPeriod struct {
	PeriodID  string    `json:"periodID"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	PayDate   time.Time `json:"payDate"`
}

// ComponentKind classifies a payroll component line item.
type ComponentKind string

const (
	ComponentEarning   ComponentKind = "earning"
	ComponentDeduction ComponentKind = "deduction"
	ComponentOther     ComponentKind = "other"
)

// PayrollItem is a single component-level line item belonging to a payroll record,
// e.g. base salary, performance bonus, personal pension contribution.
type PayrollItem struct {
	RecordID      string          `json:"recordID"`
	EmployeeID    string          `json:"employeeID"`
	ComponentName string          `json:"componentName"`
	Kind          ComponentKind   `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
}
