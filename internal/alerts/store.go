package alerts

import (
	"sync"

	"github.com/google/uuid"
)

// Store is the bounded in-memory notification log. Listing returns newest
// first; once capacity is reached, adding evicts the oldest entry. Nothing
// survives a restart.
type Store struct {
	mu       sync.RWMutex
	capacity int
	order    []uuid.UUID
	byID     map[uuid.UUID]Notification
}

func NewStore(capacity int) *Store {
	if capacity < 1 {
		capacity = 1
	}

	return &Store{
		capacity: capacity,
		byID:     make(map[uuid.UUID]Notification, capacity),
	}
}

// Add records a notification, evicting the oldest entry at capacity.
func (s *Store) Add(n Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.order) >= s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.byID, oldest)
	}

	s.order = append(s.order, n.ID)
	s.byID[n.ID] = n
}

// List returns notifications newest first, optionally filtered by event and
// capped at limit (0 means uncapped). The second return value is the
// filtered total before the cap.
func (s *Store) List(limit int, event string) ([]Notification, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]Notification, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		n := s.byID[s.order[i]]
		if event != "" && n.Event != event {
			continue
		}
		matched = append(matched, n)
	}

	total := len(matched)
	if limit > 0 && limit < total {
		matched = matched[:limit]
	}

	return matched, total
}

// Get looks up one notification by id.
func (s *Store) Get(id uuid.UUID) (Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.byID[id]
	return n, ok
}

// Delete removes one notification, reporting whether it existed.
func (s *Store) Delete(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return false
	}

	delete(s.byID, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	return true
}

// Clear empties the log and returns how many entries were removed.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := len(s.order)
	s.order = nil
	s.byID = make(map[uuid.UUID]Notification, s.capacity)

	return removed
}

// Len is the current number of stored notifications.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.order)
}
