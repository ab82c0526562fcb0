package editor

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/CLAYYO/VRASeniors/content"
)

// DefaultTTL is how long an editing session stays valid after login.
const DefaultTTL = 2 * time.Hour

// Registry owns the open editing sessions, keyed by session id.
type Registry struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*Session
}

// NewRegistry creates an empty registry. A non-positive ttl uses DefaultTTL.
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{ttl: ttl, sessions: make(map[string]*Session)}
}

// TTL returns the session lifetime.
func (r *Registry) TTL() time.Duration { return r.ttl }

// Create opens a session over items under a new random id.
func (r *Registry) Create(items []content.ContentItem, now time.Time) (*Session, error) {
	s, err := NewSession(uuid.NewString(), items, now)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()
	return s, nil
}

// Get returns the session with the given id.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Delete closes the session with the given id.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Sweep drops sessions older than the TTL and returns how many were removed.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if now.Sub(s.Created()) >= r.ttl {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
