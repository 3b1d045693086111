package session

import (
	"errors"
	"sync"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// Store holds active wizard sessions in memory. Sessions are short-lived;
// anything idle past the TTL is dropped by the next sweep.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewStore creates a session store. A non-positive ttl disables expiry.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Create starts and registers a new session. The returned session is a
// copy; all later access goes through Get and Update.
func (st *Store) Create() *Session {
	s := New()
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s.clone()
}

// Get returns a copy of the session with the given id. Handing out the
// live session would let callers read it while Update mutates it.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if st.expired(s) {
		return nil, ErrSessionNotFound
	}
	return s.clone(), nil
}

// Update runs fn while holding the store lock, serializing all mutations
// of one session against concurrent requests, and returns a copy of the
// result. When fn changes the session id (Reset does), the entry is
// re-keyed and the old id stops resolving.
func (st *Store) Update(id string, fn func(*Session) error) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok || st.expired(s) {
		return nil, ErrSessionNotFound
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	if s.ID != id {
		delete(st.sessions, id)
		st.sessions[s.ID] = s
	}
	return s.clone(), nil
}

// Delete removes a session.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep drops expired sessions and returns how many were removed.
func (st *Store) Sweep() int {
	if st.ttl <= 0 {
		return 0
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if st.expired(s) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper sweeps periodically until the stop channel closes.
func (st *Store) StartSweeper(interval time.Duration, stop <-chan struct{}) {
	if st.ttl <= 0 || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				st.Sweep()
			case <-stop:
				return
			}
		}
	}()
}

func (st *Store) expired(s *Session) bool {
	return st.ttl > 0 && time.Since(s.UpdatedAt) > st.ttl
}
