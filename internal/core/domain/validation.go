package domain

// RuleType classifies what kind of check a validation rule performs.
type RuleType string

const (
	RuleRequiredField      RuleType = "required_field"
	RuleRangeCheck         RuleType = "range_check"
	RuleLogicalConsistency RuleType = "logical_consistency"
	RuleDataIntegrity      RuleType = "data_integrity"
	RuleBusinessRule       RuleType = "business_rule"
)

// RuleSeverity ranks how serious a rule violation is.
type RuleSeverity string

const (
	SeverityError   RuleSeverity = "error"
	SeverityWarning RuleSeverity = "warning"
	SeverityInfo    RuleSeverity = "info"
)

// ValidationRule is one declarative check over a payroll record. Evaluate
// returns true when the record passes. Fix, when present, returns a corrected
// copy of the record; both must be pure functions.
type ValidationRule struct {
	RuleID   string
	Name     string
	Type     RuleType
	Field    string
	Severity RuleSeverity
	Message  string
	Evaluate func(PayrollRecord) bool
	Fix      func(PayrollRecord) PayrollRecord
}

// AutoFixable reports whether the rule declares an automated remedy.
func (r ValidationRule) AutoFixable() bool {
	return r.Fix != nil
}

// ValidationIssue is a single rule violation found on a specific record.
// Issues are recomputed on every validation run and never persisted.
type ValidationIssue struct {
	RecordID    string       `json:"recordID"`
	EmployeeID  string       `json:"employeeID"`
	RuleID      string       `json:"ruleID"`
	RuleType    RuleType     `json:"ruleType"`
	Severity    RuleSeverity `json:"severity"`
	Field       string       `json:"field,omitempty"`
	Message     string       `json:"message"`
	Value       string       `json:"value,omitempty"`
	AutoFixable bool         `json:"autoFixable"`
}

// ValidationResult aggregates the outcome of one validation run.
type ValidationResult struct {
	TotalRecords    int               `json:"totalRecords"`
	ValidRecords    int               `json:"validRecords"`
	InvalidRecords  int               `json:"invalidRecords"`
	Issues          []ValidationIssue `json:"issues"`
	Errors          []ValidationIssue `json:"errors"`
	Warnings        []ValidationIssue `json:"warnings"`
	Infos           []ValidationIssue `json:"infos"`
	CountByRuleType map[RuleType]int  `json:"countByRuleType"`
	CountByEmployee map[string]int    `json:"countByEmployee"`
}

// IsValid reports whether the run found no error-severity issues. In strict
// mode warnings also invalidate the result.
func (r *ValidationResult) IsValid(strict bool) bool {
	if len(r.Errors) > 0 {
		return false
	}
	if strict && len(r.Warnings) > 0 {
		return false
	}
	return true
}
