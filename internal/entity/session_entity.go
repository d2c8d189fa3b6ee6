package entity

import "sync"

// Session is the authoritative server-side record for one viewing session.
// Connection objects only carry the session id; everything stateful lives
// here and is looked up by id on each incoming message.
//
// The closed-alert set survives reconnects and is cleared only by an explicit
// reset. The user-seen set is replaced wholesale on every session-init
// because the client's own record is the source of truth for it. Both maps
// are guarded by the session's own mutex: stats and projection reads run
// concurrently with intent handlers.
type Session struct {
	Id string

	mu                 sync.RWMutex
	userSeenProductIds map[string]struct{}
	closedAlertIds     map[string]struct{}
}

func NewSession(id string) *Session {
	return &Session{
		Id:                 id,
		userSeenProductIds: make(map[string]struct{}),
		closedAlertIds:     make(map[string]struct{}),
	}
}

// SetUserSeen replaces the client-declared seen set.
func (s *Session) SetUserSeen(productIds []string) {
	seen := make(map[string]struct{}, len(productIds))
	for _, id := range productIds {
		seen[id] = struct{}{}
	}
	s.mu.Lock()
	s.userSeenProductIds = seen
	s.mu.Unlock()
}

func (s *Session) MarkUserSeen(productId string) {
	s.mu.Lock()
	s.userSeenProductIds[productId] = struct{}{}
	s.mu.Unlock()
}

func (s *Session) CloseAlert(alertId string) {
	s.mu.Lock()
	s.closedAlertIds[alertId] = struct{}{}
	s.mu.Unlock()
}

func (s *Session) ResetClosed() {
	s.mu.Lock()
	s.closedAlertIds = make(map[string]struct{})
	s.mu.Unlock()
}

func (s *Session) IsUserSeen(productId string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.userSeenProductIds[productId]
	return ok
}

func (s *Session) IsClosed(alertId string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.closedAlertIds[alertId]
	return ok
}

func (s *Session) ClosedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.closedAlertIds)
}

// Stats summarizes the persisted stores for the dashboard header.
type Stats struct {
	ViewedProductsCount  int    `json:"viewedProductsCount"`
	BannedProductsCount  int    `json:"bannedProductsCount"`
	CurrentProductsCount int    `json:"currentProductsCount"`
	LastUpdate           string `json:"lastUpdate,omitempty"`
}

// SessionStats summarizes the live session registry.
type SessionStats struct {
	ActiveSessions    int `json:"activeSessions"`
	TotalClosedAlerts int `json:"totalClosedAlerts"`
}
