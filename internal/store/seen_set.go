package store

import (
	"sync"
	"time"
)

// SeenSet tracks product ids dismissed by any session or direct action. It
// suppresses replenishment from re-surfacing dismissed products; it is global,
// not per-viewer.
type SeenSet struct {
	mu   sync.RWMutex
	seen map[string]time.Time
}

func NewSeenSet() *SeenSet {
	return &SeenSet{seen: make(map[string]time.Time)}
}

func (s *SeenSet) Mark(productId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[productId] = time.Now()
}

func (s *SeenSet) Contains(productId string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.seen[productId]
	return ok
}

func (s *SeenSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}

func (s *SeenSet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = make(map[string]time.Time)
}

// Export returns the id -> first-seen mapping for persistence.
func (s *SeenSet) Export() map[string]time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]time.Time, len(s.seen))
	for id, at := range s.seen {
		out[id] = at
	}
	return out
}

// Replace restores the set from a persisted snapshot.
func (s *SeenSet) Replace(seen map[string]time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seen = make(map[string]time.Time, len(seen))
	for id, at := range seen {
		s.seen[id] = at
	}
}
