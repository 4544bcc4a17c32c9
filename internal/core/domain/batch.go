package domain

// EntityOutcome is the per-entity result of one bulk action. Every attempted
// entity yields exactly one outcome, in input order.
type EntityOutcome struct {
	EntityID string `json:"entityId"`
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
}

// BatchOperationResult is produced by every bulk workflow action, enabling
// partial success reporting instead of all-or-nothing failure.
type BatchOperationResult struct {
	Outcomes []EntityOutcome `json:"outcomes"`
}

// SucceededCount returns the number of successful outcomes.
func (r *BatchOperationResult) SucceededCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Success {
			n++
		}
	}
	return n
}

// FailedCount returns the number of failed outcomes.
func (r *BatchOperationResult) FailedCount() int {
	return len(r.Outcomes) - r.SucceededCount()
}

// BatchPhase names the stage a batch creation run is in, for progress reporting.
type BatchPhase string

const (
	PhaseResolving BatchPhase = "resolving"
	PhaseCreating  BatchPhase = "creating"
	PhaseDone      BatchPhase = "done"
)

// BatchProgress is delivered to the caller after each processed employee.
type BatchProgress struct {
	Phase        BatchPhase `json:"phase"`
	Processed    int        `json:"processed"`
	Total        int        `json:"total"`
	EmployeeName string     `json:"employeeName,omitempty"`
}

// ProgressFunc receives progress updates during a batch creation run. It is
// invoked synchronously between employees; a nil func disables reporting.
type ProgressFunc func(BatchProgress)

// CreationError captures one employee's creation failure inside a batch run.
type CreationError struct {
	EmployeeID   string `json:"employeeId"`
	EmployeeName string `json:"employeeName,omitempty"`
	Message      string `json:"message"`
}

// CreationResult summarises a batch creation run.
type CreationResult struct {
	Success      bool            `json:"success"`
	CreatedCount int             `json:"createdCount"`
	UpdatedCount int             `json:"updatedCount"`
	SkippedCount int             `json:"skippedCount"`
	Errors       []CreationError `json:"errors"`
}

// CreationPreview reports what a batch creation run would do, without mutating
// anything.
type CreationPreview struct {
	EligibleCount int      `json:"eligibleCount"`
	ToCreateCount int      `json:"toCreateCount"`
	ToSkipCount   int      `json:"toSkipCount"`
	ToUpdateCount int      `json:"toUpdateCount"`
	ExistingIDs   []string `json:"existingIds"`
	EligibleIDs   []string `json:"eligibleIds"`
	OverwriteMode bool     `json:"overwriteMode"`
}
