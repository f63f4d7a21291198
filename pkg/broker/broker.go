package broker

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/SaribMalek/relay/pkg/logger"
)

// Reserved room keys. User notification rooms use UserRoom; chat rooms use
// arbitrary caller-chosen keys.
const (
	// BroadcastRoom addresses every live connection regardless of the
	// rooms it has joined.
	BroadcastRoom = "broadcast"
	// AnonymousRoom is assigned when a client identifies without a user id.
	AnonymousRoom = "anonymous"
)

// UserRoom returns the room key receiving personal notifications for a user.
func UserRoom(userID int64) string {
	return fmt.Sprintf("user_%d", userID)
}

// Config holds broker tunables loaded from the environment.
type Config struct {
	BufferSize int `env:"BROKER_BUFFER_SIZE" envDefault:"32"` // BufferSize is the per-connection outbound event buffer.
}

// Option configures a Broker.
type Option func(*Broker)

// WithLogger sets the logger for the Broker.
func WithLogger(log *slog.Logger) Option {
	return func(b *Broker) {
		if log != nil {
			b.logger = log
		}
	}
}

// WithBufferSize sets the per-connection outbound buffer size.
func WithBufferSize(n int) Option {
	return func(b *Broker) {
		if n > 0 {
			b.bufferSize = n
		}
	}
}

// Broker owns the set of live connections and mediates room assignment and
// fan-out. Each connection moves through CONNECTED (after Connect),
// IDENTIFIED (after Identify, possibly repeatedly) and DISCONNECTED (after
// Disconnect); there is no way back from DISCONNECTED, a reconnect yields a
// new connection id.
//
// Delivery is best-effort and at-most-once per currently-connected endpoint:
// pushes to closed or saturated endpoints are dropped silently, counted but
// never retried or queued.
type Broker struct {
	dir        *Directory
	bufferSize int
	logger     *slog.Logger

	mu     sync.RWMutex
	conns  map[string]*Conn
	closed bool
}

// New creates a Broker fanning out through the given room directory.
func New(dir *Directory, opts ...Option) *Broker {
	b := &Broker{
		dir:        dir,
		bufferSize: 32,
		logger:     slog.Default(),
		conns:      make(map[string]*Conn),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With(logger.Component("broker"))
	return b
}

// Connect registers a new live connection and returns it in the CONNECTED
// state: no room membership yet, but broadcasts already reach it.
func (b *Broker) Connect() (*Conn, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrBrokerClosed
	}

	conn := newConn(uuid.New().String(), b.bufferSize)
	b.conns[conn.id] = conn

	b.logger.Debug("connection registered", logger.ConnectionID(conn.id))
	return conn, nil
}

// Identify transitions the connection to IDENTIFIED, joining roomKey in the
// room directory. An empty roomKey assigns the anonymous room. Repeated
// identifies are allowed and join additional rooms; prior memberships are
// kept (callers wanting exclusivity disconnect and reconnect).
func (b *Broker) Identify(connID, roomKey, name, role string) error {
	b.mu.RLock()
	conn, ok := b.conns[connID]
	b.mu.RUnlock()
	if !ok {
		return ErrUnknownConnection
	}

	if roomKey == "" {
		roomKey = AnonymousRoom
	}

	conn.identify(name, role)
	b.dir.Join(connID, roomKey)

	b.logger.Debug("connection identified",
		logger.ConnectionID(connID),
		logger.Room(roomKey),
	)
	return nil
}

// Join adds the connection to an arbitrary room without touching its
// identity. Membership is additive: a connection can sit in its user room
// and any number of chat rooms at once.
func (b *Broker) Join(connID, roomKey string) error {
	b.mu.RLock()
	_, ok := b.conns[connID]
	b.mu.RUnlock()
	if !ok {
		return ErrUnknownConnection
	}

	b.dir.Join(connID, roomKey)

	b.logger.Debug("connection joined room",
		logger.ConnectionID(connID),
		logger.Room(roomKey),
	)
	return nil
}

// Disconnect removes the connection from the directory and closes its event
// channel. It is idempotent; disconnecting an unknown id is a no-op.
func (b *Broker) Disconnect(connID string) {
	b.mu.Lock()
	conn, ok := b.conns[connID]
	delete(b.conns, connID)
	b.mu.Unlock()

	b.dir.Leave(connID)

	if ok {
		conn.close()
		b.logger.Debug("connection disconnected", logger.ConnectionID(connID))
	}
}

// Publish pushes the event to every connection currently in the room and
// returns the number of successful delivery attempts. BroadcastRoom
// addresses all live connections regardless of joined rooms. Delivery to a
// since-disconnected endpoint is dropped silently.
func (b *Broker) Publish(roomKey string, ev Event) int {
	targets := b.targets(roomKey)

	delivered := 0
	for _, conn := range targets {
		if conn.push(ev) {
			delivered++
		}
	}

	b.logger.Debug("event published",
		logger.Room(roomKey),
		logger.Event(ev.Name),
		logger.Delivered(delivered),
	)
	return delivered
}

// targets snapshots the connections addressed by roomKey. The snapshot is
// taken under the lock, the pushes happen outside it.
func (b *Broker) targets(roomKey string) []*Conn {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil
	}

	if roomKey == BroadcastRoom {
		targets := make([]*Conn, 0, len(b.conns))
		for _, conn := range b.conns {
			targets = append(targets, conn)
		}
		return targets
	}

	members := b.dir.Members(roomKey)
	targets := make([]*Conn, 0, len(members))
	for _, id := range members {
		if conn, ok := b.conns[id]; ok {
			targets = append(targets, conn)
		}
	}
	return targets
}

// ConnectionCount returns the number of live connections.
func (b *Broker) ConnectionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.conns)
}

// Close disconnects every connection and refuses further Connects. It is
// safe to call repeatedly.
func (b *Broker) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	conns := b.conns
	b.conns = make(map[string]*Conn)
	b.mu.Unlock()

	for id, conn := range conns {
		b.dir.Leave(id)
		conn.close()
	}
	return nil
}
