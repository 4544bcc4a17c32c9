package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/salarysys/payroll-backend/internal/apperrors"
	"github.com/salarysys/payroll-backend/internal/core/domain"
	portsrepo "github.com/salarysys/payroll-backend/internal/core/ports/repositories"
	portssvc "github.com/salarysys/payroll-backend/internal/core/ports/services"
	"github.com/salarysys/payroll-backend/internal/dto"
)

var ErrEmptyScope = errors.New("batch config must name at least one employee or department")

// batchService creates payroll records for a pay period across an employee
// population, one employee at a time.
type batchService struct {
	BaseService
	payrollRepo  portsrepo.PayrollRepositoryFacade
	employeeRepo portsrepo.EmployeeReader
	now          func() time.Time
}

// BatchServiceOption is a functional option for configuring the batch service.
type BatchServiceOption func(*batchService)

// WithBatchClock overrides the clock, for tests.
func WithBatchClock(now func() time.Time) BatchServiceOption {
	return func(s *batchService) {
		s.now = now
	}
}

// NewBatchService creates a new batch creation orchestrator.
func NewBatchService(payrollRepo portsrepo.PayrollRepositoryFacade, employeeRepo portsrepo.EmployeeReader, options ...BatchServiceOption) portssvc.BatchCreationSvcFacade {
	svc := &batchService{
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure batchService implements the BatchCreationSvcFacade interface
var _ portssvc.BatchCreationSvcFacade = (*batchService)(nil)

// CreateBatch resolves the eligible employees and creates one draft payroll
// record per employee, sequentially and in scope order. Per-employee failures
// are collected and do not stop the batch.
func (s *batchService) CreateBatch(ctx context.Context, req dto.BatchCreateRequest, actor string, progress domain.ProgressFunc) (*domain.CreationResult, error) {
	period, employees, resolveErrs, err := s.resolveScope(ctx, req)
	if err != nil {
		return nil, err
	}

	payDate := period.PayDate
	if req.PayDate != nil {
		payDate = *req.PayDate
	}

	existing, err := s.payrollRepo.FindExistingEmployeeIDs(ctx, req.PeriodID)
	if err != nil {
		s.LogError(ctx, err, "Failed to query existing payroll records", slog.String("period_id", req.PeriodID))
		return nil, fmt.Errorf("failed to query existing payroll records: %w", err)
	}

	result := &domain.CreationResult{Errors: append([]domain.CreationError{}, resolveErrs...)}
	total := len(employees)
	report(progress, domain.BatchProgress{Phase: domain.PhaseResolving, Processed: 0, Total: total})

	for i, emp := range employees {
		s.createOne(ctx, req, emp, existing, payDate, actor, result)
		report(progress, domain.BatchProgress{
			Phase:        domain.PhaseCreating,
			Processed:    i + 1,
			Total:        total,
			EmployeeName: emp.FullName,
		})
	}

	report(progress, domain.BatchProgress{Phase: domain.PhaseDone, Processed: total, Total: total})
	result.Success = len(result.Errors) == 0

	s.LogInfo(ctx, "Batch creation completed",
		slog.String("period_id", req.PeriodID),
		slog.Int("created", result.CreatedCount),
		slog.Int("updated", result.UpdatedCount),
		slog.Int("skipped", result.SkippedCount),
		slog.Int("errors", len(result.Errors)))
	return result, nil
}

func (s *batchService) createOne(ctx context.Context, req dto.BatchCreateRequest, emp domain.Employee, existing map[string]string, payDate time.Time, actor string, result *domain.CreationResult) {
	if recordID, found := existing[emp.EmployeeID]; found {
		if !req.OverwriteExisting {
			result.SkippedCount++
			return
		}
		now := s.now()
		if err := s.payrollRepo.ResetRecord(ctx, recordID, payDate, actor, now); err != nil {
			result.Errors = append(result.Errors, domain.CreationError{
				EmployeeID:   emp.EmployeeID,
				EmployeeName: emp.FullName,
				Message:      err.Error(),
			})
			return
		}
		result.UpdatedCount++
		return
	}

	now := s.now()
	record := domain.PayrollRecord{
		RecordID:        uuid.NewString(),
		EmployeeID:      emp.EmployeeID,
		PeriodID:        req.PeriodID,
		PayDate:         payDate,
		Status:          domain.StatusDraft,
		GrossPay:        decimal.Zero,
		TotalDeductions: decimal.Zero,
		NetPay:          decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	// Monetary fields stay zero; downstream calculation fills them in later.
	if err := s.payrollRepo.SaveRecord(ctx, record); err != nil {
		result.Errors = append(result.Errors, domain.CreationError{
			EmployeeID:   emp.EmployeeID,
			EmployeeName: emp.FullName,
			Message:      err.Error(),
		})
		return
	}
	result.CreatedCount++
}

// PreviewBatch performs scope resolution and the existing-record query only,
// reporting what CreateBatch would do without mutating state.
func (s *batchService) PreviewBatch(ctx context.Context, req dto.BatchCreateRequest) (*domain.CreationPreview, error) {
	_, employees, _, err := s.resolveScope(ctx, req)
	if err != nil {
		return nil, err
	}

	existing, err := s.payrollRepo.FindExistingEmployeeIDs(ctx, req.PeriodID)
	if err != nil {
		s.LogError(ctx, err, "Failed to query existing payroll records", slog.String("period_id", req.PeriodID))
		return nil, fmt.Errorf("failed to query existing payroll records: %w", err)
	}

	preview := &domain.CreationPreview{
		EligibleCount: len(employees),
		OverwriteMode: req.OverwriteExisting,
	}
	for _, emp := range employees {
		preview.EligibleIDs = append(preview.EligibleIDs, emp.EmployeeID)
		if _, found := existing[emp.EmployeeID]; found {
			preview.ExistingIDs = append(preview.ExistingIDs, emp.EmployeeID)
			if req.OverwriteExisting {
				preview.ToUpdateCount++
			} else {
				preview.ToSkipCount++
			}
			continue
		}
		preview.ToCreateCount++
	}
	return preview, nil
}

// resolveScope validates the request and resolves the eligible employees in a
// deterministic order: explicit IDs first (input order), then department
// members, de-duplicated. Unknown explicit IDs become per-employee errors.
func (s *batchService) resolveScope(ctx context.Context, req dto.BatchCreateRequest) (*domain.PayrollPeriod, []domain.Employee, []domain.CreationError, error) {
	if !req.HasScope() {
		return nil, nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrEmptyScope)
	}

	period, err := s.payrollRepo.FindPeriodByID(ctx, req.PeriodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, nil, fmt.Errorf("%w: pay period %s not found", apperrors.ErrValidation, req.PeriodID)
		}
		return nil, nil, nil, fmt.Errorf("failed to load pay period %s: %w", req.PeriodID, err)
	}

	var (
		employees   []domain.Employee
		resolveErrs []domain.CreationError
		seen        = make(map[string]struct{})
	)

	if len(req.EmployeeIDs) > 0 {
		byID, err := s.employeeRepo.FindEmployeesByIDs(ctx, req.EmployeeIDs)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to resolve employees: %w", err)
		}
		for _, id := range req.EmployeeIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			emp, found := byID[id]
			if !found {
				resolveErrs = append(resolveErrs, domain.CreationError{
					EmployeeID: id,
					Message:    "employee not found",
				})
				continue
			}
			employees = append(employees, emp)
		}
	}

	if len(req.DepartmentIDs) > 0 {
		members, err := s.employeeRepo.FindEmployeesByDepartments(ctx, req.DepartmentIDs)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to resolve department employees: %w", err)
		}
		for _, emp := range members {
			if _, dup := seen[emp.EmployeeID]; dup {
				continue
			}
			seen[emp.EmployeeID] = struct{}{}
			employees = append(employees, emp)
		}
	}

	return period, employees, resolveErrs, nil
}

// report invokes the progress callback when one is provided.
func report(progress domain.ProgressFunc, p domain.BatchProgress) {
	if progress != nil {
		progress(p)
	}
}
