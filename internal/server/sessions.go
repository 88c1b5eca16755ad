package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adeyinka/paydesk/internal/actions"
	"github.com/adeyinka/paydesk/internal/domain"
	"github.com/adeyinka/paydesk/internal/search"
)

// Session is one dashboard client's workflow state: a search controller per
// entity kind plus an action dispatcher. Sessions live in memory only and are
// evicted after sitting idle for the TTL; nothing in them is ever persisted.
type Session struct {
	ID string

	mu          sync.Mutex
	controllers map[domain.Kind]*search.Controller
	dispatcher  *actions.Dispatcher
	lastSeen    time.Time
}

// Controller returns the session's controller for a kind. All three are
// built up front when the session is created.
func (s *Session) Controller(kind domain.Kind) *search.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controllers[kind]
}

// Dispatcher returns the session's action dispatcher.
func (s *Session) Dispatcher() *actions.Dispatcher {
	return s.dispatcher
}

// SessionRegistry owns all live sessions.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	build    func(id string) *Session
	log      zerolog.Logger
	now      func() time.Time
}

// NewSessionRegistry creates a registry. build constructs a fresh session's
// controllers and dispatcher.
func NewSessionRegistry(ttl time.Duration, build func(id string) *Session, log zerolog.Logger) *SessionRegistry {
	if ttl == 0 {
		ttl = 30 * time.Minute
	}
	return &SessionRegistry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		build:    build,
		log:      log.With().Str("component", "sessions").Logger(),
		now:      time.Now,
	}
}

// Get returns the session with the given ID, creating it when absent. An
// empty ID allocates a fresh session; the caller echoes the ID back to the
// client so subsequent requests reuse it.
func (r *SessionRegistry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id != "" {
		if session, ok := r.sessions[id]; ok {
			session.mu.Lock()
			session.lastSeen = r.now()
			session.mu.Unlock()
			return session
		}
	}

	if id == "" {
		id = uuid.NewString()
	}

	session := r.build(id)
	session.lastSeen = r.now()
	r.sessions[id] = session

	r.log.Debug().Str("session_id", id).Msg("Session created")
	return session
}

// Len returns the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// StartJanitor evicts idle sessions every minute until ctx is cancelled.
func (r *SessionRegistry) StartJanitor(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.evictIdle()
			}
		}
	}()
}

func (r *SessionRegistry) evictIdle() {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	for id, session := range r.sessions {
		session.mu.Lock()
		idle := session.lastSeen.Before(cutoff)
		session.mu.Unlock()

		if idle {
			delete(r.sessions, id)
			r.log.Debug().Str("session_id", id).Msg("Idle session evicted")
		}
	}
}
