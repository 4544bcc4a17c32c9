package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/salarysys/payroll-backend/internal/apperrors"
	"github.com/salarysys/payroll-backend/internal/core/domain"
	"github.com/salarysys/payroll-backend/internal/core/events"
	portsrepo "github.com/salarysys/payroll-backend/internal/core/ports/repositories"
	portssvc "github.com/salarysys/payroll-backend/internal/core/ports/services"
)

var (
	ErrEmptyReason    = errors.New("a non-empty reason is required")
	ErrNoRecordIDs    = errors.New("at least one record ID is required")
	ErrTerminalStatus = errors.New("record is in a terminal status")
)

// workflowService drives payroll records through the approval state machine.
type workflowService struct {
	BaseService
	payrollRepo portsrepo.PayrollRepositoryFacade
	notifier    *events.Notifier
	now         func() time.Time
}

// WorkflowServiceOption is a functional option for configuring the workflow service.
type WorkflowServiceOption func(*workflowService)

// WithWorkflowClock overrides the clock, for tests.
func WithWorkflowClock(now func() time.Time) WorkflowServiceOption {
	return func(s *workflowService) {
		s.now = now
	}
}

// NewWorkflowService creates a new approval workflow service.
func NewWorkflowService(payrollRepo portsrepo.PayrollRepositoryFacade, notifier *events.Notifier, options ...WorkflowServiceOption) portssvc.WorkflowSvcFacade {
	svc := &workflowService{
		payrollRepo: payrollRepo,
		notifier:    notifier,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure workflowService implements the WorkflowSvcFacade interface
var _ portssvc.WorkflowSvcFacade = (*workflowService)(nil)

// GetRecord retrieves a specific payroll record.
func (s *workflowService) GetRecord(ctx context.Context, recordID string) (*domain.PayrollRecord, error) {
	record, err := s.payrollRepo.FindRecordByID(ctx, recordID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find payroll record", slog.String("record_id", recordID))
		}
		return nil, fmt.Errorf("failed to find payroll record %s: %w", recordID, err)
	}
	return record, nil
}

// ListRecords retrieves payroll records for a period, optionally filtered by status.
func (s *workflowService) ListRecords(ctx context.Context, periodID string, statuses []domain.PayrollStatus) ([]domain.PayrollRecord, error) {
	records, err := s.payrollRepo.FindRecordsByPeriod(ctx, periodID, statuses)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payroll records", slog.String("period_id", periodID))
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	return records, nil
}

// ApproveRecords moves draft or calculated records to approved. Approving a
// record that is already approved is a no-op success.
func (s *workflowService) ApproveRecords(ctx context.Context, recordIDs []string, comment string, actor string) (*domain.BatchOperationResult, error) {
	if len(recordIDs) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrNoRecordIDs)
	}

	result := &domain.BatchOperationResult{Outcomes: make([]domain.EntityOutcome, 0, len(recordIDs))}
	for _, recordID := range recordIDs {
		outcome := s.approveOne(ctx, recordID, comment, actor)
		result.Outcomes = append(result.Outcomes, outcome)
	}

	s.LogInfo(ctx, "Batch approval completed",
		slog.String("actor", actor),
		slog.Int("succeeded", result.SucceededCount()),
		slog.Int("failed", result.FailedCount()))
	return result, nil
}

func (s *workflowService) approveOne(ctx context.Context, recordID, comment, actor string) domain.EntityOutcome {
	record, err := s.payrollRepo.FindRecordByID(ctx, recordID)
	if err != nil {
		return failedOutcome(recordID, err)
	}

	// Idempotent: re-approving an approved record changes nothing.
	if record.Status == domain.StatusApproved {
		return domain.EntityOutcome{EntityID: recordID, Success: true, Message: "already approved"}
	}

	if !record.Status.CanTransitionTo(domain.StatusApproved) {
		return failedOutcome(recordID, fmt.Errorf("%w: cannot approve record in status %s", apperrors.ErrConflict, record.Status))
	}

	from := record.Status
	now := s.now()
	record.Status = domain.StatusApproved
	record.ApprovedBy = actor
	record.ApprovedAt = &now
	if comment != "" {
		record.Notes = comment
	}
	record.LastUpdatedAt = now
	record.LastUpdatedBy = actor

	if err := s.payrollRepo.UpdateRecordStatus(ctx, *record); err != nil {
		s.LogError(ctx, err, "Failed to persist approval", slog.String("record_id", recordID))
		return failedOutcome(recordID, err)
	}

	s.publishTransition(recordID, from, domain.StatusApproved, actor, now)
	return domain.EntityOutcome{EntityID: recordID, Success: true, Message: "approved"}
}

// RejectRecords moves draft or calculated records to cancelled with a
// rejection reason. An empty reason fails the whole call before any mutation.
func (s *workflowService) RejectRecords(ctx context.Context, recordIDs []string, reason string, actor string) (*domain.BatchOperationResult, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrEmptyReason)
	}
	if len(recordIDs) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrNoRecordIDs)
	}

	result := &domain.BatchOperationResult{Outcomes: make([]domain.EntityOutcome, 0, len(recordIDs))}
	for _, recordID := range recordIDs {
		outcome := s.rejectOne(ctx, recordID, reason, actor, false)
		result.Outcomes = append(result.Outcomes, outcome)
	}

	s.LogInfo(ctx, "Batch rejection completed",
		slog.String("actor", actor),
		slog.Int("succeeded", result.SucceededCount()),
		slog.Int("failed", result.FailedCount()))
	return result, nil
}

// CancelRecords moves any non-terminal record to cancelled. An empty reason
// fails the whole call before any mutation.
func (s *workflowService) CancelRecords(ctx context.Context, recordIDs []string, reason string, actor string) (*domain.BatchOperationResult, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrEmptyReason)
	}
	if len(recordIDs) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrNoRecordIDs)
	}

	result := &domain.BatchOperationResult{Outcomes: make([]domain.EntityOutcome, 0, len(recordIDs))}
	for _, recordID := range recordIDs {
		outcome := s.rejectOne(ctx, recordID, reason, actor, true)
		result.Outcomes = append(result.Outcomes, outcome)
	}

	s.LogInfo(ctx, "Batch cancellation completed",
		slog.String("actor", actor),
		slog.Int("succeeded", result.SucceededCount()),
		slog.Int("failed", result.FailedCount()))
	return result, nil
}

// rejectOne cancels one record. Reject is restricted to draft and calculated
// records; cancel accepts any non-terminal status.
func (s *workflowService) rejectOne(ctx context.Context, recordID, reason, actor string, anyNonTerminal bool) domain.EntityOutcome {
	record, err := s.payrollRepo.FindRecordByID(ctx, recordID)
	if err != nil {
		return failedOutcome(recordID, err)
	}

	if record.Status.IsTerminal() {
		return failedOutcome(recordID, fmt.Errorf("%w: record is already %s", ErrTerminalStatus, record.Status))
	}
	if !anyNonTerminal && record.Status != domain.StatusDraft && record.Status != domain.StatusCalculated {
		return failedOutcome(recordID, fmt.Errorf("%w: cannot reject record in status %s", apperrors.ErrConflict, record.Status))
	}

	from := record.Status
	now := s.now()
	record.Status = domain.StatusCancelled
	record.RejectedBy = actor
	record.RejectedAt = &now
	record.RejectionReason = reason
	record.LastUpdatedAt = now
	record.LastUpdatedBy = actor

	if err := s.payrollRepo.UpdateRecordStatus(ctx, *record); err != nil {
		s.LogError(ctx, err, "Failed to persist cancellation", slog.String("record_id", recordID))
		return failedOutcome(recordID, err)
	}

	s.publishTransition(recordID, from, domain.StatusCancelled, actor, now)
	return domain.EntityOutcome{EntityID: recordID, Success: true, Message: "cancelled"}
}

// MarkPaid moves approved records to paid.
func (s *workflowService) MarkPaid(ctx context.Context, recordIDs []string, actor string) (*domain.BatchOperationResult, error) {
	if len(recordIDs) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrNoRecordIDs)
	}

	result := &domain.BatchOperationResult{Outcomes: make([]domain.EntityOutcome, 0, len(recordIDs))}
	for _, recordID := range recordIDs {
		outcome := s.markPaidOne(ctx, recordID, actor)
		result.Outcomes = append(result.Outcomes, outcome)
	}

	s.LogInfo(ctx, "Batch mark-paid completed",
		slog.String("actor", actor),
		slog.Int("succeeded", result.SucceededCount()),
		slog.Int("failed", result.FailedCount()))
	return result, nil
}

func (s *workflowService) markPaidOne(ctx context.Context, recordID, actor string) domain.EntityOutcome {
	record, err := s.payrollRepo.FindRecordByID(ctx, recordID)
	if err != nil {
		return failedOutcome(recordID, err)
	}

	if !record.Status.CanTransitionTo(domain.StatusPaid) {
		return failedOutcome(recordID, fmt.Errorf("%w: cannot mark record paid in status %s", apperrors.ErrConflict, record.Status))
	}

	from := record.Status
	now := s.now()
	record.Status = domain.StatusPaid
	record.LastUpdatedAt = now
	record.LastUpdatedBy = actor

	if err := s.payrollRepo.UpdateRecordStatus(ctx, *record); err != nil {
		s.LogError(ctx, err, "Failed to persist paid status", slog.String("record_id", recordID))
		return failedOutcome(recordID, err)
	}

	s.publishTransition(recordID, from, domain.StatusPaid, actor, now)
	return domain.EntityOutcome{EntityID: recordID, Success: true, Message: "paid"}
}

func (s *workflowService) publishTransition(recordID string, from, to domain.PayrollStatus, actor string, at time.Time) {
	s.notifier.Publish(domain.StatusChangedEvent{
		Type:       domain.EventStatusChanged,
		RecordID:   recordID,
		FromStatus: from,
		ToStatus:   to,
		Actor:      actor,
		Timestamp:  at,
	})
}

func failedOutcome(entityID string, err error) domain.EntityOutcome {
	return domain.EntityOutcome{EntityID: entityID, Success: false, Message: err.Error()}
}
