package services

import (
	"context"

	"github.com/salarysys/payroll-backend/internal/core/domain"
)

// WorkflowReaderSvc defines read operations over payroll records.
type WorkflowReaderSvc interface {
	// GetRecord retrieves a specific payroll record.
	GetRecord(ctx context.Context, recordID string) (*domain.PayrollRecord, error)

	// ListRecords retrieves payroll records for a period, optionally filtered by status.
	ListRecords(ctx context.Context, periodID string, statuses []domain.PayrollStatus) ([]domain.PayrollRecord, error)
}

// WorkflowWriterSvc defines the batch workflow transitions. Every operation
// processes each record independently and returns one outcome per record, in
// input order.
type WorkflowWriterSvc interface {
	// ApproveRecords moves draft or calculated records to approved. Approving a
	// record that is already approved is a no-op success.
	ApproveRecords(ctx context.Context, recordIDs []string, comment string, actor string) (*domain.BatchOperationResult, error)

	// RejectRecords moves draft or calculated records to cancelled with a
	// rejection reason. An empty reason fails the whole call before any mutation.
	RejectRecords(ctx context.Context, recordIDs []string, reason string, actor string) (*domain.BatchOperationResult, error)

	// MarkPaid moves approved records to paid.
	MarkPaid(ctx context.Context, recordIDs []string, actor string) (*domain.BatchOperationResult, error)

	// CancelRecords moves any non-terminal record to cancelled. An empty reason
	// fails the whole call before any mutation.
	CancelRecords(ctx context.Context, recordIDs []string, reason string, actor string) (*domain.BatchOperationResult, error)
}

// WorkflowSvcFacade combines all approval workflow service interfaces.
type WorkflowSvcFacade interface {
	WorkflowReaderSvc
	WorkflowWriterSvc
}
