package services

import (
	"fmt"
	"sync"

	"github.com/salarysys/payroll-backend/internal/apperrors"
	"github.com/salarysys/payroll-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RuleRegistry holds the validation rules in effect for one engine instance.
// It is safe for concurrent use; readers always see the latest registered
// rules. Separate engine instances can hold independent rule sets.
type RuleRegistry struct {
	mu    sync.RWMutex
	rules []domain.ValidationRule
}

// NewRuleRegistry creates a registry seeded with the given rules.
func NewRuleRegistry(rules ...domain.ValidationRule) *RuleRegistry {
	r := &RuleRegistry{rules: make([]domain.ValidationRule, 0, len(rules))}
	r.rules = append(r.rules, rules...)
	return r
}

// Add registers a rule. The rule must carry an ID and an Evaluate predicate;
// a duplicate ID is rejected.
func (r *RuleRegistry) Add(rule domain.ValidationRule) error {
	if rule.RuleID == "" {
		return fmt.Errorf("%w: rule ID is required", apperrors.ErrValidation)
	}
	if rule.Evaluate == nil {
		return fmt.Errorf("%w: rule %s has no evaluate predicate", apperrors.ErrValidation, rule.RuleID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rules {
		if existing.RuleID == rule.RuleID {
			return fmt.Errorf("%w: rule %s", apperrors.ErrDuplicate, rule.RuleID)
		}
	}
	r.rules = append(r.rules, rule)
	return nil
}

// Remove unregisters a rule by ID, reporting whether it existed.
func (r *RuleRegistry) Remove(ruleID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, rule := range r.rules {
		if rule.RuleID == ruleID {
			r.rules = append(r.rules[:i], r.rules[i+1:]...)
			return true
		}
	}
	return false
}

// Rules returns a snapshot of the registered rules.
func (r *RuleRegistry) Rules() []domain.ValidationRule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot := make([]domain.ValidationRule, len(r.rules))
	copy(snapshot, r.rules)
	return snapshot
}

// Find returns the rule with the given ID, if registered.
func (r *RuleRegistry) Find(ruleID string) (domain.ValidationRule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rule := range r.rules {
		if rule.RuleID == ruleID {
			return rule, true
		}
	}
	return domain.ValidationRule{}, false
}

// DefaultRules builds the standard payroll rule set. minNetPay and
// grossCeiling come from configuration.
func DefaultRules(minNetPay, grossCeiling decimal.Decimal) []domain.ValidationRule {
	return []domain.ValidationRule{
		{
			RuleID:   "gross_pay_non_negative",
			Name:     "Gross pay must not be negative",
			Type:     domain.RuleRangeCheck,
			Field:    "gross_pay",
			Severity: domain.SeverityError,
			Message:  "gross pay must not be negative",
			Evaluate: func(r domain.PayrollRecord) bool {
				return !r.GrossPay.IsNegative()
			},
		},
		{
			RuleID:   "net_pay_consistent",
			Name:     "Net pay must equal gross pay minus deductions",
			Type:     domain.RuleLogicalConsistency,
			Field:    "net_pay",
			Severity: domain.SeverityError,
			Message:  "net pay does not equal gross pay minus total deductions",
			Evaluate: func(r domain.PayrollRecord) bool {
				return r.NetPayConsistent()
			},
			Fix: func(r domain.PayrollRecord) domain.PayrollRecord {
				r.NetPay = r.GrossPay.Sub(r.TotalDeductions)
				return r
			},
		},
		{
			RuleID:   "deductions_within_gross",
			Name:     "Deductions must not exceed gross pay",
			Type:     domain.RuleBusinessRule,
			Field:    "total_deductions",
			Severity: domain.SeverityError,
			Message:  "total deductions cannot exceed gross pay",
			Evaluate: func(r domain.PayrollRecord) bool {
				return r.TotalDeductions.LessThanOrEqual(r.GrossPay)
			},
		},
		{
			RuleID:   "net_pay_above_minimum",
			Name:     "Net pay should meet the statutory minimum",
			Type:     domain.RuleBusinessRule,
			Field:    "net_pay",
			Severity: domain.SeverityWarning,
			Message:  "net pay is below the statutory minimum",
			Evaluate: func(r domain.PayrollRecord) bool {
				return r.NetPay.GreaterThanOrEqual(minNetPay)
			},
		},
		{
			RuleID:   "gross_pay_below_ceiling",
			Name:     "Gross pay should stay below the configured ceiling",
			Type:     domain.RuleRangeCheck,
			Field:    "gross_pay",
			Severity: domain.SeverityWarning,
			Message:  "gross pay exceeds the configured ceiling",
			Evaluate: func(r domain.PayrollRecord) bool {
				return r.GrossPay.LessThanOrEqual(grossCeiling)
			},
		},
	}
}
