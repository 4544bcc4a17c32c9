package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollPeriod represents one row of the payroll_periods table.
type PayrollPeriod struct {
	PeriodID  string    `db:"period_id"`
	Name      string    `db:"name"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	PayDate   time.Time `db:"pay_date"`
}

// PayrollRecord represents one row of the payroll_records table.
// Rejection metadata doubles as cancellation metadata.
type PayrollRecord struct {
	RecordID        string          `db:"record_id"`
	EmployeeID      string          `db:"employee_id"`
	PeriodID        string          `db:"period_id"`
	PayDate         time.Time       `db:"pay_date"`
	Status          string          `db:"status"`
	GrossPay        decimal.Decimal `db:"gross_pay"`
	TotalDeductions decimal.Decimal `db:"total_deductions"`
	NetPay          decimal.Decimal `db:"net_pay"`
	Notes           string          `db:"notes"`
	ApprovedBy      *string         `db:"approved_by"`
	ApprovedAt      *time.Time      `db:"approved_at"`
	RejectedBy      *string         `db:"rejected_by"`
	RejectedAt      *time.Time      `db:"rejected_at"`
	RejectionReason *string         `db:"rejection_reason"`
	AuditFields
}

// PayrollItem represents one row of the payroll_items table.
type PayrollItem struct {
	ItemID        string          `db:"item_id"`
	RecordID      string          `db:"record_id"`
	EmployeeID    string          `db:"employee_id"`
	ComponentName string          `db:"component_name"`
	Kind          string          `db:"kind"`
	Amount        decimal.Decimal `db:"amount"`
}
