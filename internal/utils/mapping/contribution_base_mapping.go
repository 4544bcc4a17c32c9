package mapping

import (
	"github.com/salarysys/payroll-backend/internal/core/domain"
	"github.com/salarysys/payroll-backend/internal/models"
)

// ToModelContributionBase converts a domain ContributionBaseRecord to its model
func ToModelContributionBase(d domain.ContributionBaseRecord) models.ContributionBase {
	return models.ContributionBase{
		BaseID:           d.BaseID,
		EmployeeID:       d.EmployeeID,
		InsuranceTypeID:  d.InsuranceTypeID,
		ContributionBase: d.ContributionBase,
		EffectiveStart:   d.EffectiveStart,
		EffectiveEnd:     d.EffectiveEnd,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainContributionBase converts a model ContributionBase to its domain form
func ToDomainContributionBase(m models.ContributionBase) domain.ContributionBaseRecord {
	return domain.ContributionBaseRecord{
		BaseID:           m.BaseID,
		EmployeeID:       m.EmployeeID,
		InsuranceTypeID:  m.InsuranceTypeID,
		ContributionBase: m.ContributionBase,
		EffectiveStart:   m.EffectiveStart,
		EffectiveEnd:     m.EffectiveEnd,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainContributionBaseSlice converts model rows to domain records
func ToDomainContributionBaseSlice(ms []models.ContributionBase) []domain.ContributionBaseRecord {
	records := make([]domain.ContributionBaseRecord, 0, len(ms))
	for _, m := range ms {
		records = append(records, ToDomainContributionBase(m))
	}
	return records
}
