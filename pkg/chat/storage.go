package chat

import (
	"context"
)

// Storage is the durable store boundary for chat messages.
type Storage interface {
	// Create appends the message and fills in the store-assigned ID and
	// CreatedAt.
	Create(ctx context.Context, m *Message) error

	// History returns up to limit most recent messages in chronological
	// (ascending) order. An empty room returns history across all rooms.
	History(ctx context.Context, room string, limit int) ([]Message, error)
}
