package services

import (
	"context"

	"github.com/salarysys/payroll-backend/internal/core/domain"
)

// ExportSvcFacade aggregates multi-entity payroll data into an exportable dataset.
type ExportSvcFacade interface {
	// Aggregate resolves the payroll-having employee set for the period and
	// collects the requested data groups, each gated by that set.
	Aggregate(ctx context.Context, cfg domain.ExportConfig) (*domain.AggregatedDataset, error)

	// SummarizeByCategory aggregates payroll totals per personnel category.
	SummarizeByCategory(ctx context.Context, periodID string) ([]domain.CategorySummary, error)
}
