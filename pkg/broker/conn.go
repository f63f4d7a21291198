package broker

import (
	"sync"
)

// Conn is a live delivery endpoint. It exists only between Connect and
// Disconnect; a reconnecting client gets a fresh Conn with a fresh id.
type Conn struct {
	id     string
	events chan Event

	mu     sync.RWMutex
	name   string
	role   string
	closed bool
}

func newConn(id string, bufferSize int) *Conn {
	return &Conn{
		id: id,
		// Minimum buffer of 1 keeps push non-blocking even when
		// misconfigured with a zero buffer size.
		events: make(chan Event, max(bufferSize, 1)),
	}
}

// ID returns the connection identifier assigned at Connect.
func (c *Conn) ID() string { return c.id }

// Events returns the channel delivering events pushed to this endpoint.
// The channel is closed when the connection is disconnected.
func (c *Conn) Events() <-chan Event { return c.events }

// Name returns the display name declared on the last identify/join.
func (c *Conn) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

// Role returns the role declared on the last identify/join.
func (c *Conn) Role() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.role
}

func (c *Conn) identify(name, role string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name != "" {
		c.name = name
	}
	if role != "" {
		c.role = role
	}
}

// push attempts a non-blocking delivery. It reports false when the endpoint
// is closed or its buffer is full; the event is dropped in both cases, never
// queued or retried.
func (c *Conn) push(ev Event) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return false
	}

	select {
	case c.events <- ev:
		return true
	default:
		return false
	}
}

// close is idempotent.
func (c *Conn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.events)
	}
}
