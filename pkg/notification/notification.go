package notification

import (
	"time"
)

// Notification is the core domain model: a persisted event addressed either
// to one user or, with a nil UserID, to everyone currently connected.
//
// Notifications are append-only; Read is the only field that mutates after
// creation, and only through MarkRead.
type Notification struct {
	ID        int64          `json:"id"`
	UserID    *int64         `json:"user_id"` // nil means broadcast
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Meta      map[string]any `json:"meta,omitempty"` // opaque caller payload
	Read      bool           `json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
}

// Broadcast reports whether the notification is addressed to everyone.
func (n *Notification) Broadcast() bool {
	return n.UserID == nil
}
