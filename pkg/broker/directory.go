package broker

import (
	"sync"

	"github.com/samber/lo"
)

// Directory maintains the mapping from room keys to the set of connection
// ids currently assigned to them. It holds no transport state and nothing is
// persisted: the directory is rebuilt from scratch on every restart as
// clients re-identify.
//
// Membership is not exclusive: joining a second room does not leave the
// first. Callers that want exclusivity must Leave first.
//
// All methods are safe for concurrent use; critical sections only touch the
// two maps, never I/O.
type Directory struct {
	mu     sync.RWMutex
	rooms  map[string]map[string]struct{} // room key -> connection ids
	byConn map[string]map[string]struct{} // connection id -> room keys
}

// NewDirectory creates an empty room directory.
func NewDirectory() *Directory {
	return &Directory{
		rooms:  make(map[string]map[string]struct{}),
		byConn: make(map[string]map[string]struct{}),
	}
}

// Join adds the connection to the room's member set. Rooms are created
// implicitly on first join. Joining a room the connection is already a
// member of is a no-op.
func (d *Directory) Join(connID, roomKey string) {
	if connID == "" || roomKey == "" {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.rooms[roomKey]; !ok {
		d.rooms[roomKey] = make(map[string]struct{})
	}
	d.rooms[roomKey][connID] = struct{}{}

	if _, ok := d.byConn[connID]; !ok {
		d.byConn[connID] = make(map[string]struct{})
	}
	d.byConn[connID][roomKey] = struct{}{}
}

// Leave removes the connection from every room it is a member of. Empty
// rooms are deleted eagerly. Calling Leave for an unknown connection is a
// no-op.
func (d *Directory) Leave(connID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for roomKey := range d.byConn[connID] {
		delete(d.rooms[roomKey], connID)
		if len(d.rooms[roomKey]) == 0 {
			delete(d.rooms, roomKey)
		}
	}
	delete(d.byConn, connID)
}

// Members returns a snapshot of the connection ids currently assigned to the
// room. The result is a fresh slice; an unknown room yields an empty one.
func (d *Directory) Members(roomKey string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return lo.Keys(d.rooms[roomKey])
}

// Rooms returns a snapshot of the room keys the connection is a member of.
func (d *Directory) Rooms(connID string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return lo.Keys(d.byConn[connID])
}

// MemberCount returns the current number of members in the room.
func (d *Directory) MemberCount(roomKey string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.rooms[roomKey])
}
