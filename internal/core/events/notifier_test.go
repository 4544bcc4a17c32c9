package events_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/salarysys/payroll-backend/internal/core/domain"
	"github.com/salarysys/payroll-backend/internal/core/events"
)

func TestNotifier_DeliversInRegistrationOrder(t *testing.T) {
	n := events.NewNotifier()

	var order []string
	n.Subscribe(func(domain.StatusChangedEvent) { order = append(order, "first") })
	n.Subscribe(func(domain.StatusChangedEvent) { order = append(order, "second") })
	n.Subscribe(func(domain.StatusChangedEvent) { order = append(order, "third") })

	n.Publish(domain.StatusChangedEvent{Type: domain.EventStatusChanged, RecordID: "rec-1"})

	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestNotifier_PanickingSubscriberDoesNotBlockOthers(t *testing.T) {
	n := events.NewNotifier()

	delivered := false
	n.Subscribe(func(domain.StatusChangedEvent) { panic("subscriber failure") })
	n.Subscribe(func(domain.StatusChangedEvent) { delivered = true })

	assert.NotPanics(t, func() {
		n.Publish(domain.StatusChangedEvent{RecordID: "rec-1"})
	})
	assert.True(t, delivered)
}

func TestNotifier_NilSafe(t *testing.T) {
	var n *events.Notifier

	assert.NotPanics(t, func() {
		n.Subscribe(func(domain.StatusChangedEvent) {})
		n.Publish(domain.StatusChangedEvent{RecordID: "rec-1"})
	})
}

func TestNotifier_IgnoresNilSubscriber(t *testing.T) {
	n := events.NewNotifier()
	n.Subscribe(nil)

	assert.NotPanics(t, func() {
		n.Publish(domain.StatusChangedEvent{RecordID: "rec-1"})
	})
}
