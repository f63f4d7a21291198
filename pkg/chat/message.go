package chat

import (
	"time"
)

// Roles a chat participant can declare on join.
const (
	RoleProducer = "producer"
	RoleConsumer = "consumer"
)

// Message is one room-scoped chat message. Messages are append-only: never
// mutated, never deleted. The wire shape matches the persisted row, so the
// id broadcast to the room is always the store-assigned one.
type Message struct {
	ID        int64     `json:"id"`
	Room      string    `json:"room"`
	Sender    string    `json:"sender"`
	Role      string    `json:"role"`
	Text      string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
