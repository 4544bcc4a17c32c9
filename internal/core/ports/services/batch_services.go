package services

import (
	"context"

	"github.com/salarysys/payroll-backend/internal/core/domain"
	"github.com/salarysys/payroll-backend/internal/dto"
)

// BatchCreationSvcFacade creates payroll records for a pay period across an
// employee population.
type BatchCreationSvcFacade interface {
	// CreateBatch resolves the eligible employees and creates one draft payroll
	// record per employee, sequentially, reporting progress after each one.
	// Per-employee failures are collected and do not stop the batch.
	CreateBatch(ctx context.Context, req dto.BatchCreateRequest, actor string, progress domain.ProgressFunc) (*domain.CreationResult, error)

	// PreviewBatch reports what CreateBatch would do, without mutating state.
	PreviewBatch(ctx context.Context, req dto.BatchCreateRequest) (*domain.CreationPreview, error)
}
