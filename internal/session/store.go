// Package session keeps per-user conversation state and throttles page
// navigation.
//
// State lives in process memory only. Entries idle for longer than the
// configured TTL are evicted by Sweep, so a long-running bot does not grow
// without bound.
package session

import (
	"sync"
	"time"

	"github.com/kote12ab-cloud/minjust-searh-base/internal/domain"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 24 * time.Hour

// State is one user's current search: the full result list, the query that
// produced it and the zero-based page being shown.
type State struct {
	Results    []domain.Record
	Query      string
	Page       int
	LastAction time.Time
}

// Store maps user ids to State. It is safe for concurrent use; Update gives
// an atomic read-modify-write per user.
type Store struct {
	mu    sync.Mutex
	users map[int64]*State
	ttl   time.Duration
}

// NewStore returns an empty Store evicting sessions idle for ttl
// (DefaultTTL when ttl <= 0).
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{users: make(map[int64]*State), ttl: ttl}
}

// Replace installs st as the user's session, discarding any previous one.
func (s *Store) Replace(user int64, st State) {
	cp := st
	s.mu.Lock()
	s.users[user] = &cp
	s.mu.Unlock()
}

// Get returns a copy of the user's session.
func (s *Store) Get(user int64) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.users[user]
	if !ok {
		return State{}, false
	}
	return *st, true
}

// Update runs fn on the user's session under the store lock. The changes
// are kept only when fn returns nil. It reports ErrNoSession when the user
// has none.
func (s *Store) Update(user int64, fn func(*State) error) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.users[user]
	if !ok {
		return State{}, ErrNoSession
	}
	next := *cur
	if err := fn(&next); err != nil {
		return *cur, err
	}
	*cur = next
	return next, nil
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// Sweep deletes sessions whose LastAction is at least ttl before now and
// returns how many were removed.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, st := range s.users {
		if now.Sub(st.LastAction) >= s.ttl {
			delete(s.users, id)
			n++
		}
	}
	return n
}
