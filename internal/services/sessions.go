package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-keynexus/internal/cart"
	"github.com/tbourn/go-keynexus/internal/scout"
)

// Session is one shopper's storefront state: a cart and a dialogue with the
// assistant. Both are safe for concurrent use.
type Session struct {
	ID        string
	Cart      *cart.Cart
	Scout     *scout.Session
	CreatedAt time.Time

	lastSeen time.Time // guarded by SessionStore.mu
}

// SessionStore is the in-memory registry of sessions. Sessions idle for
// longer than the TTL are dropped by Sweep, which also runs opportunistically
// from Create.
type SessionStore struct {
	newScout func() *scout.Session
	ttl      time.Duration
	max      int
	now      func() time.Time

	// OnExpire, when set, is called with the ids dropped by a sweep or
	// Delete. It runs outside the store lock.
	OnExpire func(ids []string)

	mu        sync.Mutex
	sessions  map[string]*Session
	lastSweep time.Time
}

// NewSessionStore creates a store. newScout builds the dialogue for each new
// session; max <= 0 means no cap.
func NewSessionStore(newScout func() *scout.Session, ttl time.Duration, max int) *SessionStore {
	return &SessionStore{
		newScout: newScout,
		ttl:      ttl,
		max:      max,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session with an empty cart and a greeted dialogue.
func (s *SessionStore) Create(ctx context.Context) (*Session, error) {
	now := s.now()

	s.mu.Lock()
	var expired []string
	if s.ttl > 0 && now.Sub(s.lastSweep) > s.ttl/4 {
		expired = s.sweepLocked(now)
	}
	if s.max > 0 && len(s.sessions) >= s.max {
		s.mu.Unlock()
		s.notify(expired)
		return nil, ErrTooManySessions
	}
	sess := &Session{
		ID:        uuid.NewString(),
		Cart:      cart.New(),
		Scout:     s.newScout(),
		CreatedAt: now,
		lastSeen:  now,
	}
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.notify(expired)
	return sess, nil
}

// Get returns a live session and refreshes its idle timer.
func (s *SessionStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	now := s.now()
	if s.ttl > 0 && now.Sub(sess.lastSeen) > s.ttl {
		return nil, ErrSessionNotFound
	}
	sess.lastSeen = now
	return sess, nil
}

// Delete drops a session. It reports whether the id existed.
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if ok {
		s.notify([]string{id})
	}
	return ok
}

// Len reports the number of tracked sessions, expired or not.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops every idle session and returns how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	expired := s.sweepLocked(s.now())
	s.mu.Unlock()
	s.notify(expired)
	return len(expired)
}

// Run sweeps every interval until ctx is done.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(); n > 0 {
				log.Debug().Int("expired", n).Msg("sessions swept")
			}
		}
	}
}

func (s *SessionStore) sweepLocked(now time.Time) []string {
	s.lastSweep = now
	if s.ttl <= 0 {
		return nil
	}
	var ids []string
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, id)
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *SessionStore) notify(ids []string) {
	if len(ids) > 0 && s.OnExpire != nil {
		s.OnExpire(ids)
	}
}
