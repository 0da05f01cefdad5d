package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ControllerFactory builds a fresh controller for a new visitor
type ControllerFactory func() *ProfileController

type session struct {
	controller *ProfileController
	lastSeen   time.Time
}

// SessionStore keeps one ProfileController per visitor, keyed by session id.
// New controllers are loaded before they are handed out.
type SessionStore struct {
	factory     ControllerFactory
	idleTimeout time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*session

	stopOnce sync.Once
	stop     chan struct{}
}

// NewSessionStore creates a store; idle sessions older than idleTimeout are evicted by the janitor
func NewSessionStore(factory ControllerFactory, idleTimeout time.Duration) *SessionStore {
	return &SessionStore{
		factory:     factory,
		idleTimeout: idleTimeout,
		now:         time.Now,
		sessions:    make(map[string]*session),
		stop:        make(chan struct{}),
	}
}

// Get returns the controller for id. Unknown or empty ids get a new session;
// the returned id is the one the caller must persist.
func (s *SessionStore) Get(ctx context.Context, id string) (*ProfileController, string) {
	if id != "" {
		s.mu.Lock()
		if sess, ok := s.sessions[id]; ok {
			sess.lastSeen = s.now()
			s.mu.Unlock()
			return sess.controller, id
		}
		s.mu.Unlock()
	}

	controller := s.factory()
	controller.Load(ctx)

	id = uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &session{controller: controller, lastSeen: s.now()}
	s.mu.Unlock()

	return controller, id
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// EvictIdle removes sessions not seen within the idle timeout and returns how many were removed
func (s *SessionStore) EvictIdle() int {
	cutoff := s.now().Add(-s.idleTimeout)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// StartJanitor evicts idle sessions every interval until ctx is done or Close is called
func (s *SessionStore) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				if n := s.EvictIdle(); n > 0 {
					log.Debug().Int("evicted", n).Int("active", s.Len()).Msg("evicted idle sessions")
				}
			}
		}
	}()
}

// Close stops the janitor. It is safe to call more than once.
func (s *SessionStore) Close() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}
