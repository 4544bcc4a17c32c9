// Package events carries domain notifications from the engine to external
// collaborators such as cache invalidators and audit logs. Delivery is
// fire-and-forget: a failing subscriber never fails the operation that
// produced the event.
package events

import (
	"log/slog"
	"sync"

	"github.com/salarysys/payroll-backend/internal/core/domain"
)

// Subscriber receives payroll status change events.
type Subscriber func(domain.StatusChangedEvent)

// Notifier fans status change events out to registered subscribers. The zero
// value is usable; a nil *Notifier silently drops events, which keeps the core
// testable without a live subscriber.
type Notifier struct {
	mu          sync.RWMutex
	subscribers []Subscriber
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers a subscriber for all future events.
func (n *Notifier) Subscribe(s Subscriber) {
	if n == nil || s == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subscribers = append(n.subscribers, s)
}

// Publish delivers the event to every subscriber, synchronously and in
// registration order. A panicking subscriber is recovered and logged.
func (n *Notifier) Publish(evt domain.StatusChangedEvent) {
	if n == nil {
		return
	}
	n.mu.RLock()
	subs := make([]Subscriber, len(n.subscribers))
	copy(subs, n.subscribers)
	n.mu.RUnlock()

	for _, s := range subs {
		deliver(s, evt)
	}
}

func deliver(s Subscriber, evt domain.StatusChangedEvent) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Event subscriber panicked",
				slog.String("event_type", evt.Type),
				slog.String("record_id", evt.RecordID),
				slog.Any("panic", r))
		}
	}()
	s(evt)
}
