package service

import (
	"sync"
	"time"

	"github.com/Marga-Ghale/ora-admin-console/internal/entity"
	"github.com/Marga-Ghale/ora-admin-console/internal/screen"
)

// Registry keeps one screen per browser session for a resource kind.
type Registry[T entity.Record] struct {
	mu      sync.Mutex
	screens map[string]*screen.Screen[T]
	create  func(sid string) *screen.Screen[T]
}

func NewRegistry[T entity.Record](create func(sid string) *screen.Screen[T]) *Registry[T] {
	return &Registry[T]{
		screens: make(map[string]*screen.Screen[T]),
		create:  create,
	}
}

// Get returns the session's screen, creating it on first use.
func (r *Registry[T]) Get(sid string) *screen.Screen[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.screens[sid]
	if !ok {
		s = r.create(sid)
		r.screens[sid] = s
	}
	return s
}

// EvictIdle drops screens not used since cutoff. Screens with a submission in
// flight are kept.
func (r *Registry[T]) EvictIdle(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for sid, s := range r.screens {
		if s.LastUsed().Before(cutoff) && s.Snapshot("").State == screen.Idle {
			delete(r.screens, sid)
			evicted++
		}
	}
	return evicted
}

// Forget drops every screen of a session, e.g. after logout.
func (r *Registry[T]) Forget(sid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.screens, sid)
}

func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.screens)
}
