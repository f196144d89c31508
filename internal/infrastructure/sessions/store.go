// Package sessions keeps open editor sessions in memory.
package sessions

import (
	"sort"
	"sync"
	"time"

	"github.com/AtRiskMedia/flexstack-go/internal/domain/editor"
)

// Session is one open editor. Commands for a session are serialized by its
// mutex so the reducer always sees a single writer.
type Session struct {
	ID        string
	ProfileID string
	Created   time.Time

	mu           sync.Mutex
	state        *editor.State
	cardID       string
	lastActivity time.Time
}

// Do runs fn with exclusive access to the session and stores the state it
// returns. A nil state from fn leaves the session unchanged.
func (s *Session) Do(fn func(*editor.State) (*editor.State, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(s.state)
	if next != nil {
		s.state = next
	}
	s.lastActivity = time.Now()
	return err
}

// State returns the current state. States are immutable so the value may be
// read after the lock is released.
func (s *Session) State() *editor.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CardID is the saved card this session last wrote, if any.
func (s *Session) CardID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cardID
}

func (s *Session) SetCardID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cardID = id
}

func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// Store is a concurrency-safe registry of sessions keyed by id.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create registers a session for state. cardID links it to the card it was
// opened from.
func (st *Store) Create(id, profileID, cardID string, state *editor.State) *Session {
	now := time.Now()
	s := &Session{
		ID:           id,
		ProfileID:    profileID,
		Created:      now,
		state:        state,
		cardID:       cardID,
		lastActivity: now,
	}
	st.mu.Lock()
	st.sessions[id] = s
	st.mu.Unlock()
	return s
}

func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Delete removes a session and reports whether it existed.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	return ok
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// IdleSince returns the ids of sessions with no activity after cutoff,
// oldest first.
func (st *Store) IdleSince(cutoff time.Time) []string {
	st.mu.RLock()
	candidates := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		candidates = append(candidates, s)
	}
	st.mu.RUnlock()

	type idle struct {
		id   string
		last time.Time
	}
	var found []idle
	for _, s := range candidates {
		if last := s.LastActivity(); last.Before(cutoff) {
			found = append(found, idle{id: s.ID, last: last})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].last.Before(found[j].last) })

	ids := make([]string, len(found))
	for i, f := range found {
		ids[i] = f.id
	}
	return ids
}
