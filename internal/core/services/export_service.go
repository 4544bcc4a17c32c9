package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/salarysys/payroll-backend/internal/apperrors"
	"github.com/salarysys/payroll-backend/internal/core/domain"
	portsrepo "github.com/salarysys/payroll-backend/internal/core/ports/repositories"
	portssvc "github.com/salarysys/payroll-backend/internal/core/ports/services"
)

// earningKeywords and deductionKeywords classify components whose stored kind
// is unspecified. Matching is case-insensitive on the component name.
var (
	earningKeywords   = []string{"wage", "salary", "allowance", "bonus", "performance", "subsidy", "overtime"}
	deductionKeywords = []string{"personal", "tax", "withhold", "deduction", "fine", "absence"}
)

// exportService aggregates multi-entity payroll data into exportable datasets.
type exportService struct {
	BaseService
	exportRepo portsrepo.ExportRepository
	periodRepo portsrepo.PeriodReader
}

// NewExportService creates a new export aggregator.
func NewExportService(exportRepo portsrepo.ExportRepository, periodRepo portsrepo.PeriodReader) portssvc.ExportSvcFacade {
	return &exportService{
		exportRepo: exportRepo,
		periodRepo: periodRepo,
	}
}

// Ensure exportService implements the ExportSvcFacade interface
var _ portssvc.ExportSvcFacade = (*exportService)(nil)

// Aggregate resolves the payroll-having employee set for the period and then
// collects every requested data group, each filtered by that set. Employees
// without payroll in the period never appear in any group.
func (s *exportService) Aggregate(ctx context.Context, cfg domain.ExportConfig) (*domain.AggregatedDataset, error) {
	if cfg.PeriodID == "" {
		return nil, fmt.Errorf("%w: period ID is required", apperrors.ErrValidation)
	}

	period, err := s.periodRepo.FindPeriodByID(ctx, cfg.PeriodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: period %s not found", apperrors.ErrValidation, cfg.PeriodID)
		}
		return nil, fmt.Errorf("failed to load period %s: %w", cfg.PeriodID, err)
	}

	employeeIDs, err := s.exportRepo.FindPayrollEmployeeIDs(ctx, cfg)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve export employee set", slog.String("period_id", cfg.PeriodID))
		return nil, fmt.Errorf("failed to resolve export employee set: %w", err)
	}

	dataset := &domain.AggregatedDataset{Period: *period}
	if len(employeeIDs) == 0 {
		s.LogInfo(ctx, "Export aggregation matched no employees", slog.String("period_id", cfg.PeriodID))
		return dataset, nil
	}

	if cfg.IncludePayroll {
		rows, err := s.exportRepo.FindPayrollSummaryRows(ctx, cfg.PeriodID, employeeIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load payroll summary rows: %w", err)
		}
		dataset.PayrollRows = rows
	}

	if cfg.IncludeItems {
		items, err := s.exportRepo.FindPayrollItems(ctx, cfg.PeriodID, employeeIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load payroll items: %w", err)
		}
		dataset.Columns, dataset.PivotRows = s.pivot(items, dataset.PayrollRows, cfg.OmitZeroColumns)
	}

	if cfg.IncludeBases {
		rows, err := s.exportRepo.FindContributionBaseRows(ctx, employeeIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load contribution base rows: %w", err)
		}
		dataset.BaseRows = rows
	}

	if cfg.IncludeJobData {
		rows, err := s.exportRepo.FindJobRows(ctx, employeeIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load job assignment rows: %w", err)
		}
		dataset.JobRows = rows
	}

	if cfg.IncludeCategoryData {
		rows, err := s.exportRepo.FindCategoryRows(ctx, employeeIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load category assignment rows: %w", err)
		}
		dataset.CategoryRows = rows
	}

	s.LogInfo(ctx, "Export aggregation completed",
		slog.String("period_id", cfg.PeriodID),
		slog.Int("employees", len(employeeIDs)),
		slog.Int("pivot_columns", len(dataset.Columns)))
	return dataset, nil
}

// SummarizeByCategory aggregates payroll totals per personnel category for
// the period.
func (s *exportService) SummarizeByCategory(ctx context.Context, periodID string) ([]domain.CategorySummary, error) {
	cfg := domain.ExportConfig{PeriodID: periodID}
	employeeIDs, err := s.exportRepo.FindPayrollEmployeeIDs(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve employee set for period %s: %w", periodID, err)
	}
	if len(employeeIDs) == 0 {
		return nil, nil
	}

	rows, err := s.exportRepo.FindPayrollSummaryRows(ctx, periodID, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load payroll summary rows: %w", err)
	}

	grouped := make(map[string][]domain.PayrollSummaryRow)
	for _, row := range rows {
		name := row.CategoryName
		if name == "" {
			name = "Uncategorized"
		}
		grouped[name] = append(grouped[name], row)
	}

	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	summaries := make([]domain.CategorySummary, 0, len(names))
	for _, name := range names {
		summaries = append(summaries, summarizeCategory(name, grouped[name]))
	}
	return summaries, nil
}

// pivot folds component line items into wide per-employee rows. Columns are
// ordered earnings first, then deductions, then everything else, alphabetical
// within each group. Row totals are computed from the items themselves, not
// copied from the payroll record.
func (s *exportService) pivot(items []domain.PayrollItem, summaryRows []domain.PayrollSummaryRow, omitZero bool) ([]string, []domain.PivotRow) {
	if len(items) == 0 {
		return nil, nil
	}

	identity := make(map[string]domain.PayrollSummaryRow, len(summaryRows))
	for _, row := range summaryRows {
		identity[row.EmployeeID] = row
	}

	kinds := make(map[string]domain.ComponentKind)
	columnTotals := make(map[string]decimal.Decimal)
	rowsByEmployee := make(map[string]*domain.PivotRow)
	var employeeOrder []string

	for _, item := range items {
		kind := classifyComponent(item)
		if existing, ok := kinds[item.ComponentName]; !ok || existing == domain.ComponentOther {
			kinds[item.ComponentName] = kind
		}
		columnTotals[item.ComponentName] = columnTotals[item.ComponentName].Add(item.Amount.Abs())

		row, ok := rowsByEmployee[item.EmployeeID]
		if !ok {
			row = &domain.PivotRow{
				EmployeeID: item.EmployeeID,
				Amounts:    make(map[string]decimal.Decimal),
			}
			if id, found := identity[item.EmployeeID]; found {
				row.EmployeeCode = id.EmployeeCode
				row.EmployeeName = id.EmployeeName
			}
			rowsByEmployee[item.EmployeeID] = row
			employeeOrder = append(employeeOrder, item.EmployeeID)
		}

		row.Amounts[item.ComponentName] = row.Amounts[item.ComponentName].Add(item.Amount)
		switch kind {
		case domain.ComponentEarning:
			row.TotalIncome = row.TotalIncome.Add(item.Amount)
		case domain.ComponentDeduction:
			row.TotalDeduction = row.TotalDeduction.Add(item.Amount)
		}
	}

	columns := orderColumns(kinds, columnTotals, omitZero)

	rows := make([]domain.PivotRow, 0, len(employeeOrder))
	for _, employeeID := range employeeOrder {
		row := rowsByEmployee[employeeID]
		row.NetPay = row.TotalIncome.Sub(row.TotalDeduction)
		rows = append(rows, *row)
	}
	return columns, rows
}

// orderColumns fixes the pivot column order: earnings, deductions, other,
// alphabetical within each group. With omitZero set, columns whose amounts are
// zero across every row are dropped.
func orderColumns(kinds map[string]domain.ComponentKind, totals map[string]decimal.Decimal, omitZero bool) []string {
	var earnings, deductions, others []string
	for name, kind := range kinds {
		if omitZero && totals[name].IsZero() {
			continue
		}
		switch kind {
		case domain.ComponentEarning:
			earnings = append(earnings, name)
		case domain.ComponentDeduction:
			deductions = append(deductions, name)
		default:
			others = append(others, name)
		}
	}
	sort.Strings(earnings)
	sort.Strings(deductions)
	sort.Strings(others)

	columns := make([]string, 0, len(earnings)+len(deductions)+len(others))
	columns = append(columns, earnings...)
	columns = append(columns, deductions...)
	columns = append(columns, others...)
	return columns
}

// classifyComponent resolves an item's kind, falling back to a keyword match
// on the component name when the stored kind is unspecified.
func classifyComponent(item domain.PayrollItem) domain.ComponentKind {
	if item.Kind == domain.ComponentEarning || item.Kind == domain.ComponentDeduction {
		return item.Kind
	}
	name := strings.ToLower(item.ComponentName)
	for _, keyword := range deductionKeywords {
		if strings.Contains(name, keyword) {
			return domain.ComponentDeduction
		}
	}
	for _, keyword := range earningKeywords {
		if strings.Contains(name, keyword) {
			return domain.ComponentEarning
		}
	}
	return domain.ComponentOther
}

func summarizeCategory(name string, rows []domain.PayrollSummaryRow) domain.CategorySummary {
	summary := domain.CategorySummary{
		CategoryName:  name,
		EmployeeCount: len(rows),
		MinGrossPay:   rows[0].GrossPay,
		MaxGrossPay:   rows[0].GrossPay,
	}

	var totalDeductions decimal.Decimal
	for _, row := range rows {
		summary.TotalGrossPay = summary.TotalGrossPay.Add(row.GrossPay)
		summary.TotalNetPay = summary.TotalNetPay.Add(row.NetPay)
		totalDeductions = totalDeductions.Add(row.TotalDeductions)
		if row.GrossPay.LessThan(summary.MinGrossPay) {
			summary.MinGrossPay = row.GrossPay
		}
		if row.GrossPay.GreaterThan(summary.MaxGrossPay) {
			summary.MaxGrossPay = row.GrossPay
		}
	}

	count := decimal.NewFromInt(int64(len(rows)))
	summary.AvgGrossPay = summary.TotalGrossPay.DivRound(count, 2)
	summary.AvgDeductions = totalDeductions.DivRound(count, 2)
	summary.AvgNetPay = summary.TotalNetPay.DivRound(count, 2)
	return summary
}
