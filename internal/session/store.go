// Package session holds the single authoritative copy of the authentication
// session. All mutation goes through the three operations below; the
// lifecycle controller is the only intended writer, while any number of
// consumers may read or subscribe.
package session

import (
	"sync"

	domainauth "github.com/adadev/review-ui-api/internal/domain/auth"
)

// Store serializes access to the in-memory Session. Reads always reflect the
// most recent mutation; the whole Session is replaced atomically so no torn
// state is observable.
type Store struct {
	mu      sync.RWMutex
	current domainauth.Session
	subs    map[int]chan domainauth.Session
	nextSub int
}

// NewStore creates a store in the initial loading state: the session is
// empty and IsLoading is true until the first mutation settles it.
func NewStore() *Store {
	return &Store{
		current: domainauth.Session{IsLoading: true},
		subs:    make(map[int]chan domainauth.Session),
	}
}

// Current returns a snapshot of the session.
func (s *Store) Current() domainauth.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// StartLoad marks the session as loading. Idempotent.
func (s *Store) StartLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.IsLoading {
		return
	}
	s.current.IsLoading = true
	s.notifyLocked()
}

// SignIn atomically replaces the session with a signed-in one and clears the
// loading flag. A prior session, if any, is simply overwritten; re-sign-in of
// a different identity is permitted.
func (s *Store) SignIn(user domainauth.Identity, username, accessToken string, role domainauth.Role) error {
	sess, err := domainauth.NewSignedInSession(user, username, accessToken, role)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = sess
	s.notifyLocked()
	return nil
}

// SignOut resets the session to the empty signed-out state with IsLoading
// false. Calling it when already signed out is a no-op in effect.
func (s *Store) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	empty := domainauth.Session{}
	if s.current == empty {
		return
	}
	s.current = empty
	s.notifyLocked()
}

// Subscribe registers a reactive consumer. The current session is delivered
// immediately, then every subsequent change. Slow consumers only ever see the
// latest state: intermediate snapshots are coalesced rather than queued.
// The returned cancel func must be called to release the subscription.
func (s *Store) Subscribe() (<-chan domainauth.Session, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan domainauth.Session, 1)
	ch <- s.current
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// notifyLocked fans the current session out to subscribers. Callers must
// hold s.mu. A full subscriber buffer is drained first so the channel always
// carries the newest snapshot.
func (s *Store) notifyLocked() {
	for _, ch := range s.subs {
		select {
		case ch <- s.current:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s.current:
			default:
			}
		}
	}
}
