package chat

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage is an in-memory implementation of the Storage interface.
// Suitable for development and testing.
type MemoryStorage struct {
	mu       sync.RWMutex
	messages []Message
	nextID   int64
}

// NewMemoryStorage creates a new in-memory message storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{nextID: 1}
}

func (s *MemoryStorage) Create(ctx context.Context, m *Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = s.nextID
	s.nextID++
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	s.messages = append(s.messages, *m)
	return nil
}

func (s *MemoryStorage) History(ctx context.Context, room string, limit int) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Messages are appended in insert order, which is chronological.
	filtered := make([]Message, 0, len(s.messages))
	for _, m := range s.messages {
		if room == "" || m.Room == room {
			filtered = append(filtered, m)
		}
	}

	// Most recent N, still ascending.
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[len(filtered)-limit:]
	}
	return filtered, nil
}
