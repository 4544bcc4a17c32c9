package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/salarysys/payroll-backend/internal/core/domain"
)

// CSVSerializer renders the payroll summary rows as a single CSV table. CSV
// has no sheet concept, so the other data groups are not representable and
// are skipped.
type CSVSerializer struct{}

var _ Serializer = (*CSVSerializer)(nil)

func (s *CSVSerializer) ContentType() string {
	return "text/csv"
}

func (s *CSVSerializer) FileExtension() string {
	return "csv"
}

func (s *CSVSerializer) Serialize(dataset *domain.AggregatedDataset, w io.Writer) error {
	cw := csv.NewWriter(w)

	header := []string{"Employee Code", "Employee Name", "Department", "Category", "Status", "Gross Pay", "Total Deductions", "Net Pay"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range dataset.PayrollRows {
		record := []string{
			row.EmployeeCode,
			row.EmployeeName,
			row.DepartmentName,
			row.CategoryName,
			string(row.Status),
			row.GrossPay.StringFixed(2),
			row.TotalDeductions.StringFixed(2),
			row.NetPay.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row for employee %s: %w", row.EmployeeID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
