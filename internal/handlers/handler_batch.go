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

// batchHandler handles HTTP requests for batch payroll creation.
type batchHandler struct {
	batchService portssvc.BatchCreationSvcFacade
}

func newBatchHandler(batchService portssvc.BatchCreationSvcFacade) *batchHandler {
	return &batchHandler{
		batchService: batchService,
	}
}

func registerBatchRoutes(group *gin.RouterGroup, batchService portssvc.BatchCreationSvcFacade) {
	h := newBatchHandler(batchService)

	batches := group.Group("/payroll-batches")
	batches.POST("", h.createBatch)
	batches.POST("/preview", h.previewBatch)
}

// createBatch creates one draft payroll record per eligible employee.
func (h *batchHandler) createBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.BatchCreateRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createBatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	// Progress is logged per phase; a UI would subscribe over a push channel.
	progress := func(p domain.BatchProgress) {
		logger.Debug("Batch creation progress",
			slog.String("phase", string(p.Phase)),
			slog.Int("processed", p.Processed),
			slog.Int("total", p.Total))
	}

	result, err := h.batchService.CreateBatch(c.Request.Context(), req, actor, progress)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Batch creation rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Batch creation failed", slog.String("period_id", req.PeriodID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payroll batch"})
		return
	}

	logger.Info("Payroll batch created",
		slog.String("period_id", req.PeriodID),
		slog.Int("created", result.CreatedCount),
		slog.Int("updated", result.UpdatedCount),
		slog.Int("skipped", result.SkippedCount),
		slog.Int("failed", len(result.Errors)))
	c.JSON(http.StatusOK, result)
}

// previewBatch reports what createBatch would do, without mutating state.
func (h *batchHandler) previewBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.BatchCreateRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for previewBatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	preview, err := h.batchService.PreviewBatch(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Batch preview rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Batch preview failed", slog.String("period_id", req.PeriodID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to preview payroll batch"})
		return
	}

	c.JSON(http.StatusOK, preview)
}
