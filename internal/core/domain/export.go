package domain

import "github.com/shopspring/decimal"

// ExportConfig describes one export request. It is a request descriptor only
// and is never persisted.
type ExportConfig struct {
	PeriodID            string          `json:"periodID"`
	DepartmentIDs       []string        `json:"departmentIDs,omitempty"`
	EmployeeIDs         []string        `json:"employeeIDs,omitempty"`
	Statuses            []PayrollStatus `json:"statuses,omitempty"`
	IncludePayroll      bool            `json:"includePayroll"`
	IncludeItems        bool            `json:"includeItems"`
	IncludeBases        bool            `json:"includeBases"`
	IncludeJobData      bool            `json:"includeJobData"`
	IncludeCategoryData bool            `json:"includeCategoryData"`
	OmitZeroColumns     bool            `json:"omitZeroColumns"`
}

// PayrollSummaryRow is one employee's payroll totals for the export summary sheet.
type PayrollSummaryRow struct {
	EmployeeID      string          `json:"employeeID"`
	EmployeeCode    string          `json:"employeeCode"`
	EmployeeName    string          `json:"employeeName"`
	DepartmentName  string          `json:"departmentName"`
	CategoryName    string          `json:"categoryName"`
	Status          PayrollStatus   `json:"status"`
	GrossPay        decimal.Decimal `json:"grossPay"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	NetPay          decimal.Decimal `json:"netPay"`
}

// PivotRow is one employee's component line items folded into a wide record.
// Amounts are keyed by component name; Columns on the dataset fixes the order.
type PivotRow struct {
	EmployeeID     string                     `json:"employeeID"`
	EmployeeCode   string                     `json:"employeeCode"`
	EmployeeName   string                     `json:"employeeName"`
	Amounts        map[string]decimal.Decimal `json:"amounts"`
	TotalIncome    decimal.Decimal            `json:"totalIncome"`
	TotalDeduction decimal.Decimal            `json:"totalDeduction"`
	NetPay         decimal.Decimal            `json:"netPay"`
}

// JobAssignmentRow is one employee's organizational assignment for the export.
type JobAssignmentRow struct {
	EmployeeID     string `json:"employeeID"`
	EmployeeCode   string `json:"employeeCode"`
	EmployeeName   string `json:"employeeName"`
	DepartmentName string `json:"departmentName"`
	PositionName   string `json:"positionName"`
}

// CategoryAssignmentRow is one employee's personnel category for the export.
type CategoryAssignmentRow struct {
	EmployeeID   string `json:"employeeID"`
	EmployeeCode string `json:"employeeCode"`
	EmployeeName string `json:"employeeName"`
	CategoryName string `json:"categoryName"`
}

// ContributionBaseRow is one employee/insurance-type base for the export.
type ContributionBaseRow struct {
	EmployeeID       string          `json:"employeeID"`
	EmployeeCode     string          `json:"employeeCode"`
	EmployeeName     string          `json:"employeeName"`
	InsuranceType    string          `json:"insuranceType"`
	ContributionBase decimal.Decimal `json:"contributionBase"`
}

// AggregatedDataset is the full logical report produced by one aggregation run.
// Serialization to any concrete output format is a pure function of this value.
type AggregatedDataset struct {
	Period       PayrollPeriod           `json:"period"`
	PayrollRows  []PayrollSummaryRow     `json:"payrollRows,omitempty"`
	Columns      []string                `json:"columns,omitempty"` // pivot column order
	PivotRows    []PivotRow              `json:"pivotRows,omitempty"`
	BaseRows     []ContributionBaseRow   `json:"baseRows,omitempty"`
	JobRows      []JobAssignmentRow      `json:"jobRows,omitempty"`
	CategoryRows []CategoryAssignmentRow `json:"categoryRows,omitempty"`
}

// CategorySummary aggregates payroll totals for one personnel category.
type CategorySummary struct {
	CategoryName  string          `json:"categoryName"`
	EmployeeCount int             `json:"employeeCount"`
	AvgGrossPay   decimal.Decimal `json:"avgGrossPay"`
	AvgDeductions decimal.Decimal `json:"avgDeductions"`
	AvgNetPay     decimal.Decimal `json:"avgNetPay"`
	MinGrossPay   decimal.Decimal `json:"minGrossPay"`
	MaxGrossPay   decimal.Decimal `json:"maxGrossPay"`
	TotalGrossPay decimal.Decimal `json:"totalGrossPay"`
	TotalNetPay   decimal.Decimal `json:"totalNetPay"`
}
