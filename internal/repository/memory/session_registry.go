package memory

import (
	"time"

	"deal-alert-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// SessionRegistry holds the Session entity for every session id seen
// recently. Entries carry a sliding 24h expiry: closed-alert sets survive
// reconnects but stale sessions are eventually purged.
type SessionRegistry struct {
	cache *cache.Cache
}

func NewSessionRegistry() *SessionRegistry {
	c := cache.New(24*time.Hour, 30*time.Minute)
	return &SessionRegistry{cache: c}
}

func (r *SessionRegistry) Save(session *entity.Session) {
	r.cache.Set(session.Id, session, cache.DefaultExpiration)
}

func (r *SessionRegistry) Get(sessionId string) (*entity.Session, bool) {
	if x, found := r.cache.Get(sessionId); found {
		return x.(*entity.Session), true
	}
	return nil, false
}

// GetOrCreate returns the existing session (refreshing its expiry) or a new
// empty one.
func (r *SessionRegistry) GetOrCreate(sessionId string) *entity.Session {
	if s, found := r.Get(sessionId); found {
		r.Save(s) // slide expiry
		return s
	}
	s := entity.NewSession(sessionId)
	r.Save(s)
	return s
}

func (r *SessionRegistry) Delete(sessionId string) {
	r.cache.Delete(sessionId)
}

// Stats counts live sessions and their accumulated closed alerts.
func (r *SessionRegistry) Stats() entity.SessionStats {
	stats := entity.SessionStats{}
	for _, item := range r.cache.Items() {
		s, ok := item.Object.(*entity.Session)
		if !ok {
			continue
		}
		stats.ActiveSessions++
		stats.TotalClosedAlerts += s.ClosedCount()
	}
	return stats
}
