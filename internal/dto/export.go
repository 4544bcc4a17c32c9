package dto

import "github.com/salarysys/payroll-backend/internal/core/domain"

// ExportRequest configures one export run. Format selects the serializer:
// workbook (multi-sheet), csv (payroll summary only) or document (full JSON).
type ExportRequest struct {
	PeriodID            string   `json:"periodId" binding:"required"`
	DepartmentIDs       []string `json:"departmentIds"`
	EmployeeIDs         []string `json:"employeeIds"`
	Statuses            []string `json:"statuses"`
	IncludeItems        bool     `json:"includeItems"`
	IncludeBases        bool     `json:"includeBases"`
	IncludeJobData      bool     `json:"includeJobData"`
	IncludeCategoryData bool     `json:"includeCategoryData"`
	OmitZeroColumns     bool     `json:"omitZeroColumns"`
	Format              string   `json:"format" binding:"omitempty,oneof=workbook csv document"`
}

// ToExportConfig converts the request to the domain config. Payroll summary
// rows are always included; the other groups are opt-in.
func (r ExportRequest) ToExportConfig() domain.ExportConfig {
	statuses := make([]domain.PayrollStatus, 0, len(r.Statuses))
	for _, s := range r.Statuses {
		statuses = append(statuses, domain.PayrollStatus(s))
	}
	return domain.ExportConfig{
		PeriodID:            r.PeriodID,
		DepartmentIDs:       r.DepartmentIDs,
		EmployeeIDs:         r.EmployeeIDs,
		Statuses:            statuses,
		IncludePayroll:      true,
		IncludeItems:        r.IncludeItems,
		IncludeBases:        r.IncludeBases,
		IncludeJobData:      r.IncludeJobData,
		IncludeCategoryData: r.IncludeCategoryData,
		OmitZeroColumns:     r.OmitZeroColumns,
	}
}
