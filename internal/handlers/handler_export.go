package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salarysys/payroll-backend/internal/apperrors"
	portssvc "github.com/salarysys/payroll-backend/internal/core/ports/services"
	"github.com/salarysys/payroll-backend/internal/dto"
	"github.com/salarysys/payroll-backend/internal/export"
	"github.com/salarysys/payroll-backend/internal/middleware"
)

// exportHandler handles HTTP requests for payroll data exports.
type exportHandler struct {
	exportService portssvc.ExportSvcFacade
}

func newExportHandler(exportService portssvc.ExportSvcFacade) *exportHandler {
	return &exportHandler{
		exportService: exportService,
	}
}

func registerExportRoutes(group *gin.RouterGroup, exportService portssvc.ExportSvcFacade) {
	h := newExportHandler(exportService)

	exports := group.Group("/exports")
	exports.POST("", h.runExport)
	exports.GET("/periods/:periodID/category-summary", h.categorySummary)
}

// runExport aggregates the requested data groups and streams the serialized
// file to the client.
func (h *exportHandler) runExport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.ExportRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for runExport", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if req.Format == "" {
		req.Format = string(export.FormatWorkbook)
	}

	serializer, err := export.NewSerializer(export.Format(req.Format))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dataset, err := h.exportService.Aggregate(c.Request.Context(), req.ToExportConfig())
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Export rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Export aggregation failed", slog.String("period_id", req.PeriodID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate export data"})
		return
	}

	filename := fmt.Sprintf("payroll-export-%s.%s", req.PeriodID, serializer.FileExtension())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", serializer.ContentType())
	c.Status(http.StatusOK)

	if err := serializer.Serialize(dataset, c.Writer); err != nil {
		// Headers are already written; all we can do is log and abort.
		logger.Error("Export serialization failed", slog.String("period_id", req.PeriodID), slog.String("error", err.Error()))
		c.Abort()
		return
	}

	logger.Info("Export completed",
		slog.String("period_id", req.PeriodID),
		slog.String("format", req.Format),
		slog.Int("payroll_rows", len(dataset.PayrollRows)))
}

// categorySummary aggregates payroll totals per personnel category.
func (h *exportHandler) categorySummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")

	summaries, err := h.exportService.SummarizeByCategory(c.Request.Context(), periodID)
	if err != nil {
		logger.Error("Category summary failed", slog.String("period_id", periodID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to summarize by category"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": summaries})
}
