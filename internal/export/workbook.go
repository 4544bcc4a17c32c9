package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/salarysys/payroll-backend/internal/core/domain"
)

// WorkbookSerializer renders the dataset as a spreadsheet workbook with one
// sheet per included data group.
type WorkbookSerializer struct{}

var _ Serializer = (*WorkbookSerializer)(nil)

func (s *WorkbookSerializer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (s *WorkbookSerializer) FileExtension() string {
	return "xlsx"
}

// Serialize writes one sheet per populated data group. Empty groups produce no
// sheet, so a payroll-only dataset yields a single-sheet workbook.
func (s *WorkbookSerializer) Serialize(dataset *domain.AggregatedDataset, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	var sheets []string
	addSheet := func(name string, rows [][]interface{}) error {
		index, err := f.NewSheet(name)
		if err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", name, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return fmt.Errorf("failed to write row %d of sheet %q: %w", i+1, name, err)
			}
		}
		if len(sheets) == 0 {
			f.SetActiveSheet(index)
		}
		sheets = append(sheets, name)
		return nil
	}

	if len(dataset.PayrollRows) > 0 {
		if err := addSheet("Payroll Summary", s.payrollRows(dataset)); err != nil {
			return err
		}
	}
	if len(dataset.PivotRows) > 0 {
		if err := addSheet("Payroll Details", s.pivotRows(dataset)); err != nil {
			return err
		}
	}
	if len(dataset.BaseRows) > 0 {
		if err := addSheet("Contribution Bases", s.baseRows(dataset)); err != nil {
			return err
		}
	}
	if len(dataset.JobRows) > 0 {
		if err := addSheet("Job Assignments", s.jobRows(dataset)); err != nil {
			return err
		}
	}
	if len(dataset.CategoryRows) > 0 {
		if err := addSheet("Personnel Categories", s.categoryRows(dataset)); err != nil {
			return err
		}
	}
	if len(sheets) == 0 {
		if err := addSheet("Payroll Summary", [][]interface{}{payrollHeader()}); err != nil {
			return err
		}
	}

	// The default sheet is replaced by the first data sheet.
	if sheets[0] != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("failed to remove default sheet: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func payrollHeader() []interface{} {
	return []interface{}{"Employee Code", "Employee Name", "Department", "Category", "Status", "Gross Pay", "Total Deductions", "Net Pay"}
}

func (s *WorkbookSerializer) payrollRows(dataset *domain.AggregatedDataset) [][]interface{} {
	rows := [][]interface{}{payrollHeader()}
	for _, row := range dataset.PayrollRows {
		rows = append(rows, []interface{}{
			row.EmployeeCode, row.EmployeeName, row.DepartmentName, row.CategoryName,
			string(row.Status), amount(row.GrossPay), amount(row.TotalDeductions), amount(row.NetPay),
		})
	}
	return rows
}

func (s *WorkbookSerializer) pivotRows(dataset *domain.AggregatedDataset) [][]interface{} {
	header := []interface{}{"Employee Code", "Employee Name"}
	for _, column := range dataset.Columns {
		header = append(header, column)
	}
	header = append(header, "Total Income", "Total Deduction", "Net Pay")

	rows := [][]interface{}{header}
	for _, row := range dataset.PivotRows {
		cells := []interface{}{row.EmployeeCode, row.EmployeeName}
		for _, column := range dataset.Columns {
			cells = append(cells, amount(row.Amounts[column]))
		}
		cells = append(cells, amount(row.TotalIncome), amount(row.TotalDeduction), amount(row.NetPay))
		rows = append(rows, cells)
	}
	return rows
}

func (s *WorkbookSerializer) baseRows(dataset *domain.AggregatedDataset) [][]interface{} {
	rows := [][]interface{}{{"Employee Code", "Employee Name", "Insurance Type", "Contribution Base"}}
	for _, row := range dataset.BaseRows {
		rows = append(rows, []interface{}{row.EmployeeCode, row.EmployeeName, row.InsuranceType, amount(row.ContributionBase)})
	}
	return rows
}

func (s *WorkbookSerializer) jobRows(dataset *domain.AggregatedDataset) [][]interface{} {
	rows := [][]interface{}{{"Employee Code", "Employee Name", "Department", "Position"}}
	for _, row := range dataset.JobRows {
		rows = append(rows, []interface{}{row.EmployeeCode, row.EmployeeName, row.DepartmentName, row.PositionName})
	}
	return rows
}

func (s *WorkbookSerializer) categoryRows(dataset *domain.AggregatedDataset) [][]interface{} {
	rows := [][]interface{}{{"Employee Code", "Employee Name", "Category"}}
	for _, row := range dataset.CategoryRows {
		rows = append(rows, []interface{}{row.EmployeeCode, row.EmployeeName, row.CategoryName})
	}
	return rows
}

// amount renders a decimal as a float cell so spreadsheet tools treat it as a
// number. Payroll amounts carry two decimal places, well inside float64 range.
func amount(d decimal.Decimal) float64 {
	v, _ := d.Round(2).Float64()
	return v
}
