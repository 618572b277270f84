package viewstate

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxSessions caps the registry when NewRegistry gets no limit.
const DefaultMaxSessions = 10000

// Registry maps session ids to controllers. Idle sessions are dropped after ttl,
// and the least recently seen session makes room once max is reached.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	max      int
	now      func() time.Time
}

type session struct {
	ctrl     *Controller
	lastSeen time.Time
}

// NewRegistry creates a registry; ttl <= 0 keeps sessions for 12 hours and
// max <= 0 allows DefaultMaxSessions.
func NewRegistry(ttl time.Duration, max int) *Registry {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	if max <= 0 {
		max = DefaultMaxSessions
	}
	return &Registry{sessions: make(map[string]*session), ttl: ttl, max: max, now: time.Now}
}

// Lookup returns the live controller of id without creating anything.
func (r *Registry) Lookup(id string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.liveLocked(id)
	if !ok {
		return nil, false
	}
	return s.ctrl, true
}

// Get returns the controller of id, creating a new session when id is unknown or expired.
// The returned id is the one the caller must keep using.
func (r *Registry) Get(id string) (string, *Controller) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.liveLocked(id); ok {
		return id, s.ctrl
	}
	delete(r.sessions, id)
	if len(r.sessions) >= r.max {
		r.sweepLocked()
	}
	for len(r.sessions) >= r.max {
		r.evictOldestLocked()
	}
	id = uuid.New().String()
	s := &session{ctrl: &Controller{}, lastSeen: r.now()}
	r.sessions[id] = s
	return id, s.ctrl
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops expired sessions.
func (r *Registry) Sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
}

func (r *Registry) liveLocked(id string) (*session, bool) {
	if id == "" {
		return nil, false
	}
	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	now := r.now()
	if now.Sub(s.lastSeen) >= r.ttl {
		return nil, false
	}
	s.lastSeen = now
	return s, true
}

func (r *Registry) sweepLocked() {
	now := r.now()
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) >= r.ttl {
			delete(r.sessions, id)
		}
	}
}

func (r *Registry) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, s := range r.sessions {
		if oldestID == "" || s.lastSeen.Before(oldest) {
			oldestID, oldest = id, s.lastSeen
		}
	}
	if oldestID == "" {
		return
	}
	delete(r.sessions, oldestID)
}
