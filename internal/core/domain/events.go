package domain

import "time"

// EventStatusChanged is the type tag carried by payroll status change events.
const EventStatusChanged = "payroll.status_changed"

// StatusChangedEvent is published on every successful workflow transition.
// It is fire-and-forget, intended for cache invalidation and audit collaborators.
type StatusChangedEvent struct {
	Type       string        `json:"type"`
	RecordID   string        `json:"recordId"`
	FromStatus PayrollStatus `json:"fromStatus"`
	ToStatus   PayrollStatus `json:"toStatus"`
	Actor      string        `json:"actor"`
	Timestamp  time.Time     `json:"timestamp"`
}
