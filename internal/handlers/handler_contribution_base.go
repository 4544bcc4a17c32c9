package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salarysys/payroll-backend/internal/apperrors"
	portssvc "github.com/salarysys/payroll-backend/internal/core/ports/services"
	"github.com/salarysys/payroll-backend/internal/core/services"
	"github.com/salarysys/payroll-backend/internal/dto"
	"github.com/salarysys/payroll-backend/internal/middleware"
)

// contributionBaseHandler handles HTTP requests for contribution base strategies.
type contributionBaseHandler struct {
	baseService portssvc.ContributionBaseSvcFacade
}

func newContributionBaseHandler(baseService portssvc.ContributionBaseSvcFacade) *contributionBaseHandler {
	return &contributionBaseHandler{
		baseService: baseService,
	}
}

func registerContributionBaseRoutes(group *gin.RouterGroup, baseService portssvc.ContributionBaseSvcFacade) {
	h := newContributionBaseHandler(baseService)

	bases := group.Group("/contribution-bases")
	bases.POST("/carry-forward", h.carryForward)
	bases.POST("/new-base", h.applyNewBases)
	bases.GET("/employees/:employeeID", h.listBases)
}

// carryForward checks that open base data exists to reuse from the source period.
func (h *contributionBaseHandler) carryForward(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.CarryForwardRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for carryForward", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	summary, err := h.baseService.CarryForward(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Carry-forward rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Carry-forward check failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run carry-forward check"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// applyNewBases terminates open base records and inserts replacements.
func (h *contributionBaseHandler) applyNewBases(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.NewBaseRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for applyNewBases", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.baseService.ApplyNewBases(c.Request.Context(), req, actor)
	if err != nil {
		var inconsistency *services.BaseInconsistencyError
		if errors.As(err, &inconsistency) {
			logger.Error("Contribution base inconsistency, manual reconciliation required",
				slog.Int("affected_pairs", len(inconsistency.Pairs)),
				slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{
				"error":         "Base replacement left inconsistent records; manual reconciliation required",
				"affectedPairs": inconsistency.Pairs,
			})
			return
		}
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("New-base request rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("New-base strategy failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply new contribution bases"})
		return
	}

	logger.Info("New-base strategy applied",
		slog.Int("terminated", result.TerminatedCount),
		slog.Int("inserted", result.InsertedCount),
		slog.Int("rejected", len(result.RejectedEntries)))
	c.JSON(http.StatusOK, result)
}

// listBases returns one employee's effective-dated base history.
func (h *contributionBaseHandler) listBases(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	employeeID := c.Param("employeeID")

	bases, err := h.baseService.ListBases(c.Request.Context(), employeeID)
	if err != nil {
		logger.Error("Failed to list contribution bases", slog.String("employee_id", employeeID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list contribution bases"})
		return
	}

	c.JSON(http.StatusOK, dto.BaseHistoryResponse{EmployeeID: employeeID, Bases: bases})
}
