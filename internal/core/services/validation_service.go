package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/salarysys/payroll-backend/internal/core/domain"
	portsrepo "github.com/salarysys/payroll-backend/internal/core/ports/repositories"
	portssvc "github.com/salarysys/payroll-backend/internal/core/ports/services"
)

// validationService evaluates the registered rules against payroll records.
type validationService struct {
	BaseService
	registry    *RuleRegistry
	payrollRepo portsrepo.PayrollReader
}

// NewValidationService creates a validation engine around the given registry.
// The registry is owned by the caller so tests can hold independent rule sets.
func NewValidationService(registry *RuleRegistry, payrollRepo portsrepo.PayrollReader) portssvc.ValidationSvcFacade {
	return &validationService{
		registry:    registry,
		payrollRepo: payrollRepo,
	}
}

// Ensure validationService implements the ValidationSvcFacade interface
var _ portssvc.ValidationSvcFacade = (*validationService)(nil)

// Validate evaluates every registered rule against every record. A rule that
// panics during evaluation is logged and skipped for that record; the run
// continues.
func (s *validationService) Validate(ctx context.Context, records []domain.PayrollRecord) *domain.ValidationResult {
	rules := s.registry.Rules()
	result := &domain.ValidationResult{
		TotalRecords:    len(records),
		Issues:          []domain.ValidationIssue{},
		Errors:          []domain.ValidationIssue{},
		Warnings:        []domain.ValidationIssue{},
		Infos:           []domain.ValidationIssue{},
		CountByRuleType: make(map[domain.RuleType]int),
		CountByEmployee: make(map[string]int),
	}

	for _, record := range records {
		recordHasError := false
		for _, rule := range rules {
			passed, evalErr := s.evaluateRule(ctx, rule, record)
			if evalErr != nil {
				// Evaluation failure is logged and skipped, it must not abort the run.
				continue
			}
			if passed {
				continue
			}

			issue := domain.ValidationIssue{
				RecordID:    record.RecordID,
				EmployeeID:  record.EmployeeID,
				RuleID:      rule.RuleID,
				RuleType:    rule.Type,
				Severity:    rule.Severity,
				Field:       rule.Field,
				Message:     rule.Message,
				Value:       fieldValue(record, rule.Field),
				AutoFixable: rule.AutoFixable(),
			}
			result.Issues = append(result.Issues, issue)
			result.CountByRuleType[rule.Type]++
			result.CountByEmployee[record.EmployeeID]++

			switch rule.Severity {
			case domain.SeverityError:
				result.Errors = append(result.Errors, issue)
				recordHasError = true
			case domain.SeverityWarning:
				result.Warnings = append(result.Warnings, issue)
			default:
				result.Infos = append(result.Infos, issue)
			}
		}
		if recordHasError {
			result.InvalidRecords++
		} else {
			result.ValidRecords++
		}
	}

	s.LogInfo(ctx, "Validation run completed",
		slog.Int("total_records", result.TotalRecords),
		slog.Int("invalid_records", result.InvalidRecords),
		slog.Int("issue_count", len(result.Issues)))
	return result
}

// evaluateRule runs one rule predicate, converting a panic into a skip.
func (s *validationService) evaluateRule(ctx context.Context, rule domain.ValidationRule, record domain.PayrollRecord) (passed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rule %s panicked: %v", rule.RuleID, r)
			s.LogError(ctx, err, "Rule evaluation failed, skipping for record",
				slog.String("rule_id", rule.RuleID),
				slog.String("record_id", record.RecordID))
		}
	}()
	return rule.Evaluate(record), nil
}

// ValidatePeriod loads the period's payroll records and validates them.
func (s *validationService) ValidatePeriod(ctx context.Context, periodID string) (*domain.ValidationResult, error) {
	records, err := s.payrollRepo.FindRecordsByPeriod(ctx, periodID, nil)
	if err != nil {
		s.LogError(ctx, err, "Failed to load records for validation", slog.String("period_id", periodID))
		return nil, fmt.Errorf("failed to load payroll records for period %s: %w", periodID, err)
	}
	return s.Validate(ctx, records), nil
}

// AutoFix applies the automated remedies of the given issues to the record.
// The engine does not persist the corrected record; that is the caller's
// responsibility.
func (s *validationService) AutoFix(record domain.PayrollRecord, issues []domain.ValidationIssue) (domain.PayrollRecord, int) {
	applied := 0
	for _, issue := range issues {
		if !issue.AutoFixable || issue.RecordID != record.RecordID {
			continue
		}
		rule, ok := s.registry.Find(issue.RuleID)
		if !ok || rule.Fix == nil {
			continue
		}
		record = rule.Fix(record)
		applied++
	}
	return record, applied
}

// AddRule registers an additional rule.
func (s *validationService) AddRule(rule domain.ValidationRule) error {
	return s.registry.Add(rule)
}

// RemoveRule unregisters a rule by ID, reporting whether it existed.
func (s *validationService) RemoveRule(ruleID string) bool {
	return s.registry.Remove(ruleID)
}

// Rules returns a snapshot of the registered rules.
func (s *validationService) Rules() []domain.ValidationRule {
	return s.registry.Rules()
}

// fieldValue renders the offending field of a record for issue reporting.
func fieldValue(record domain.PayrollRecord, field string) string {
	switch field {
	case "gross_pay":
		return record.GrossPay.StringFixed(2)
	case "total_deductions":
		return record.TotalDeductions.StringFixed(2)
	case "net_pay":
		return record.NetPay.StringFixed(2)
	case "status":
		return string(record.Status)
	default:
		return ""
	}
}
