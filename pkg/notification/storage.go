package notification

import (
	"context"
)

// Storage is the durable event store boundary for notifications. The service
// treats it as a synchronous dependency: one insert or update per call, no
// transactions spanning calls, no retries.
type Storage interface {
	// Create appends the notification and fills in the store-assigned
	// ID and CreatedAt (and the initial Read flag).
	Create(ctx context.Context, n *Notification) error

	// ListRecent returns up to limit notifications newest first.
	// Broadcasts are always included; with a non-nil userID the user's
	// personal notifications are included as well.
	ListRecent(ctx context.Context, userID *int64, limit int) ([]Notification, error)

	// MarkRead flags the notification as read. Marking an already-read or
	// unknown id is a no-op, not an error.
	MarkRead(ctx context.Context, id int64) error

	// CountUnread returns the number of unread notifications visible to
	// the user (broadcasts plus personal ones for a non-nil userID).
	CountUnread(ctx context.Context, userID *int64) (int, error)
}

// Deliverer pushes a stored notification to currently-connected endpoints.
// Delivery is best-effort: implementations report infrastructure errors but
// a notification reaching zero endpoints is not one.
type Deliverer interface {
	Deliver(ctx context.Context, n Notification) error
}

// NoOpDeliverer discards every notification. Useful when real-time delivery
// is not wired, e.g. in tests.
type NoOpDeliverer struct{}

func (NoOpDeliverer) Deliver(ctx context.Context, n Notification) error { return nil }
