package dto

import (
	"github.com/salarysys/payroll-backend/internal/core/domain"
)

// BatchActionRequest identifies the payroll records targeted by a bulk
// approve or mark-paid call.
type BatchActionRequest struct {
	RecordIDs []string `json:"recordIds" binding:"required,min=1"`
	Comment   string   `json:"comment"`
}

// BatchRejectRequest identifies records to reject or cancel; the reason is a
// whole-call precondition and must not be empty.
type BatchRejectRequest struct {
	RecordIDs []string `json:"recordIds" binding:"required,min=1"`
	Reason    string   `json:"reason" binding:"required"`
}

// BatchOperationResponse reports per-record outcomes plus summary counts.
type BatchOperationResponse struct {
	SucceededCount int                    `json:"succeededCount"`
	FailedCount    int                    `json:"failedCount"`
	Outcomes       []domain.EntityOutcome `json:"outcomes"`
}

// ToBatchOperationResponse converts a domain batch result to its response DTO.
func ToBatchOperationResponse(r *domain.BatchOperationResult) BatchOperationResponse {
	return BatchOperationResponse{
		SucceededCount: r.SucceededCount(),
		FailedCount:    r.FailedCount(),
		Outcomes:       r.Outcomes,
	}
}
