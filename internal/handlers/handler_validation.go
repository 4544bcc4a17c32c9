package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salarysys/payroll-backend/internal/apperrors"
	portssvc "github.com/salarysys/payroll-backend/internal/core/ports/services"
	"github.com/salarysys/payroll-backend/internal/dto"
	"github.com/salarysys/payroll-backend/internal/middleware"
)

// validationHandler handles HTTP requests for the validation rule engine.
type validationHandler struct {
	validationService portssvc.ValidationSvcFacade
}

func newValidationHandler(validationService portssvc.ValidationSvcFacade) *validationHandler {
	return &validationHandler{
		validationService: validationService,
	}
}

func registerValidationRoutes(group *gin.RouterGroup, validationService portssvc.ValidationSvcFacade) {
	h := newValidationHandler(validationService)

	validation := group.Group("/validation")
	validation.POST("/run", h.validatePeriod)
	validation.GET("/rules", h.listRules)
}

// validatePeriod runs every registered rule against a period's payroll records.
func (h *validationHandler) validatePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.ValidatePeriodRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for validatePeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.validationService.ValidatePeriod(c.Request.Context(), req.PeriodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation run rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Validation run failed", slog.String("period_id", req.PeriodID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate period"})
		return
	}

	logger.Info("Validation run completed",
		slog.String("period_id", req.PeriodID),
		slog.Int("errors", len(result.Errors)),
		slog.Int("warnings", len(result.Warnings)))
	c.JSON(http.StatusOK, gin.H{
		"valid":  result.IsValid(req.Strict),
		"result": result,
	})
}

// listRules returns the registered validation rules.
func (h *validationHandler) listRules(c *gin.Context) {
	rules := h.validationService.Rules()

	responses := make([]dto.RuleResponse, 0, len(rules))
	for _, rule := range rules {
		responses = append(responses, dto.RuleResponse{
			RuleID:      rule.RuleID,
			Name:        rule.Name,
			Type:        string(rule.Type),
			Field:       rule.Field,
			Severity:    string(rule.Severity),
			Message:     rule.Message,
			AutoFixable: rule.AutoFixable(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"rules": responses})
}
