package domain

import "time"

// StatusChangedEventName identifies status change events on the wire and in the audit log.
const StatusChangedEventName = "orders.order.status_changed"

// StatusChange records an accepted status update performed by an admin.
type StatusChange struct {
	ID         string
	OrderID    string
	From       Status
	To         Status
	Actor      string
	OccurredAt time.Time
}

// EventName returns the event type identifier.
func (StatusChange) EventName() string {
	return StatusChangedEventName
}
