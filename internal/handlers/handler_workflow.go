package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salarysys/payroll-backend/internal/apperrors"
	"github.com/salarysys/payroll-backend/internal/core/domain"
	portssvc "github.com/salarysys/payroll-backend/internal/core/ports/services"
	"github.com/salarysys/payroll-backend/internal/dto"
	"github.com/salarysys/payroll-backend/internal/middleware"
)

// workflowHandler handles HTTP requests for the payroll approval workflow.
type workflowHandler struct {
	workflowService portssvc.WorkflowSvcFacade
}

func newWorkflowHandler(workflowService portssvc.WorkflowSvcFacade) *workflowHandler {
	return &workflowHandler{
		workflowService: workflowService,
	}
}

func registerWorkflowRoutes(group *gin.RouterGroup, workflowService portssvc.WorkflowSvcFacade) {
	h := newWorkflowHandler(workflowService)

	records := group.Group("/payroll-records")
	records.GET("/:recordID", h.getRecord)
	records.POST("/approve", h.approveRecords)
	records.POST("/reject", h.rejectRecords)
	records.POST("/mark-paid", h.markPaid)
	records.POST("/cancel", h.cancelRecords)

	group.GET("/periods/:periodID/payroll-records", h.listRecords)
}

// getRecord retrieves a single payroll record by ID.
func (h *workflowHandler) getRecord(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	recordID := c.Param("recordID")

	record, err := h.workflowService.GetRecord(c.Request.Context(), recordID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payroll record not found"})
			return
		}
		logger.Error("Failed to get payroll record", slog.String("record_id", recordID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get payroll record"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// listRecords retrieves a period's payroll records, optionally filtered by
// status query parameters.
func (h *workflowHandler) listRecords(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")

	var statuses []domain.PayrollStatus
	for _, raw := range c.QueryArray("status") {
		if !domain.IsValidStatus(raw) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter: " + raw})
			return
		}
		statuses = append(statuses, domain.PayrollStatus(raw))
	}

	records, err := h.workflowService.ListRecords(c.Request.Context(), periodID, statuses)
	if err != nil {
		logger.Error("Failed to list payroll records", slog.String("period_id", periodID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list payroll records"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}

// approveRecords moves the targeted records to approved.
func (h *workflowHandler) approveRecords(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.BatchActionRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for approveRecords", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.workflowService.ApproveRecords(c.Request.Context(), req.RecordIDs, req.Comment, actor)
	if err != nil {
		h.writeBatchError(c, logger, "approve", err)
		return
	}

	logger.Info("Payroll records approved", slog.Int("succeeded", result.SucceededCount()), slog.Int("failed", result.FailedCount()))
	c.JSON(http.StatusOK, dto.ToBatchOperationResponse(result))
}

// rejectRecords moves the targeted records to cancelled with a rejection reason.
func (h *workflowHandler) rejectRecords(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.BatchRejectRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for rejectRecords", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.workflowService.RejectRecords(c.Request.Context(), req.RecordIDs, req.Reason, actor)
	if err != nil {
		h.writeBatchError(c, logger, "reject", err)
		return
	}

	logger.Info("Payroll records rejected", slog.Int("succeeded", result.SucceededCount()), slog.Int("failed", result.FailedCount()))
	c.JSON(http.StatusOK, dto.ToBatchOperationResponse(result))
}

// markPaid moves approved records to paid.
func (h *workflowHandler) markPaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.BatchActionRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for markPaid", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.workflowService.MarkPaid(c.Request.Context(), req.RecordIDs, actor)
	if err != nil {
		h.writeBatchError(c, logger, "mark paid", err)
		return
	}

	logger.Info("Payroll records marked paid", slog.Int("succeeded", result.SucceededCount()), slog.Int("failed", result.FailedCount()))
	c.JSON(http.StatusOK, dto.ToBatchOperationResponse(result))
}

// cancelRecords moves any non-terminal records to cancelled.
func (h *workflowHandler) cancelRecords(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.BatchRejectRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for cancelRecords", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.workflowService.CancelRecords(c.Request.Context(), req.RecordIDs, req.Reason, actor)
	if err != nil {
		h.writeBatchError(c, logger, "cancel", err)
		return
	}

	logger.Info("Payroll records cancelled", slog.Int("succeeded", result.SucceededCount()), slog.Int("failed", result.FailedCount()))
	c.JSON(http.StatusOK, dto.ToBatchOperationResponse(result))
}

func (h *workflowHandler) writeBatchError(c *gin.Context, logger *slog.Logger, action string, err error) {
	if errors.Is(err, apperrors.ErrValidation) {
		logger.Warn("Validation error in workflow action", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	logger.Error("Workflow action failed", slog.String("action", action), slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action + " payroll records"})
}
