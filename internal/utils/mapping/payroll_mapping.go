package mapping

import (
	"github.com/salarysys/payroll-backend/internal/core/domain"
	"github.com/salarysys/payroll-backend/internal/models"
)

// ToModelPayrollRecord converts a domain PayrollRecord to a model PayrollRecord
func ToModelPayrollRecord(d domain.PayrollRecord) models.PayrollRecord {
	return models.PayrollRecord{
		RecordID:        d.RecordID,
		EmployeeID:      d.EmployeeID,
		PeriodID:        d.PeriodID,
		PayDate:         d.PayDate,
		Status:          string(d.Status),
		GrossPay:        d.GrossPay,
		TotalDeductions: d.TotalDeductions,
		NetPay:          d.NetPay,
		Notes:           d.Notes,
		ApprovedBy:      optionalString(d.ApprovedBy),
		ApprovedAt:      d.ApprovedAt,
		RejectedBy:      optionalString(d.RejectedBy),
		RejectedAt:      d.RejectedAt,
		RejectionReason: optionalString(d.RejectionReason),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayrollRecord converts a model PayrollRecord to a domain PayrollRecord
func ToDomainPayrollRecord(m models.PayrollRecord) domain.PayrollRecord {
	return domain.PayrollRecord{
		RecordID:        m.RecordID,
		EmployeeID:      m.EmployeeID,
		PeriodID:        m.PeriodID,
		PayDate:         m.PayDate,
		Status:          domain.PayrollStatus(m.Status),
		GrossPay:        m.GrossPay,
		TotalDeductions: m.TotalDeductions,
		NetPay:          m.NetPay,
		Notes:           m.Notes,
		ApprovedBy:      stringValue(m.ApprovedBy),
		ApprovedAt:      m.ApprovedAt,
		RejectedBy:      stringValue(m.RejectedBy),
		RejectedAt:      m.RejectedAt,
		RejectionReason: stringValue(m.RejectionReason),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPayrollPeriod converts a model PayrollPeriod to a domain PayrollPeriod
func ToDomainPayrollPeriod(m models.PayrollPeriod) domain.PayrollPeriod {
	return domain.PayrollPeriod{
		PeriodID:  m.PeriodID,
		Name:      m.Name,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		PayDate:   m.PayDate,
	}
}

// ToDomainPayrollItem converts a model PayrollItem to a domain PayrollItem
func ToDomainPayrollItem(m models.PayrollItem) domain.PayrollItem {
	return domain.PayrollItem{
		RecordID:      m.RecordID,
		EmployeeID:    m.EmployeeID,
		ComponentName: m.ComponentName,
		Kind:          domain.ComponentKind(m.Kind),
		Amount:        m.Amount,
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
