package notification

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStorage is an in-memory implementation of the Storage interface.
// Suitable for development and testing.
type MemoryStorage struct {
	mu            sync.RWMutex
	notifications []Notification
	nextID        int64
}

// NewMemoryStorage creates a new in-memory notification storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{nextID: 1}
}

func (s *MemoryStorage) Create(ctx context.Context, n *Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n.ID = s.nextID
	s.nextID++
	n.Read = false
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	s.notifications = append(s.notifications, *n)
	return nil
}

func (s *MemoryStorage) ListRecent(ctx context.Context, userID *int64, limit int) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if visibleTo(n, userID) {
			filtered = append(filtered, n)
		}
	}

	// Newest first; creation order breaks timestamp ties.
	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
			return filtered[i].ID > filtered[j].ID
		}
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

func (s *MemoryStorage) MarkRead(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
			return nil
		}
	}
	// Unknown id mirrors the UPDATE semantics of the SQL storage: no-op.
	return nil
}

func (s *MemoryStorage) CountUnread(ctx context.Context, userID *int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.notifications {
		if !n.Read && visibleTo(n, userID) {
			count++
		}
	}
	return count, nil
}

// visibleTo mirrors the SQL filter: broadcasts for everyone, personal rows
// only for their recipient.
func visibleTo(n Notification, userID *int64) bool {
	if n.UserID == nil {
		return true
	}
	return userID != nil && *n.UserID == *userID
}
