package dto

// ValidatePeriodRequest selects the pay period to validate. Strict mode makes
// warnings invalidate the result as well.
type ValidatePeriodRequest struct {
	PeriodID string `json:"periodId" binding:"required"`
	Strict   bool   `json:"strict"`
}

// RuleResponse describes one registered rule; predicates are not serialized.
type RuleResponse struct {
	RuleID      string `json:"ruleId"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Field       string `json:"field,omitempty"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	AutoFixable bool   `json:"autoFixable"`
}
