package conversation

import (
	"sync"
	"time"

	"community-helper-bot/metrics"
)

// Key scopes a workflow to one user inside one chat.
type Key struct {
	ChatID int64
	UserID int64
}

// Store holds in-flight workflows. A state idle longer than the TTL is treated
// as absent and removed by Expire.
type Store struct {
	mu     sync.Mutex
	ttl    time.Duration
	states map[Key]State
	now    func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:    ttl,
		states: make(map[Key]State),
		now:    time.Now,
	}
}

func (s *Store) Now() time.Time {
	return s.now()
}

// Begin replaces any state under key with a fresh workflow.
func (s *Store) Begin(key Key, w Workflow) State {
	state := New(w, s.now())
	s.Set(key, state)
	return state
}

func (s *Store) Get(key Key) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[key]
	if !ok {
		return State{}, false
	}
	if s.now().Sub(state.UpdatedAt) >= s.ttl {
		delete(s.states, key)
		metrics.ActiveConversations.Set(float64(len(s.states)))
		return State{}, false
	}
	return state, true
}

func (s *Store) Set(key Key, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[key] = state
	metrics.ActiveConversations.Set(float64(len(s.states)))
}

// Clear aborts the workflow under key, if any.
func (s *Store) Clear(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, key)
	metrics.ActiveConversations.Set(float64(len(s.states)))
}

// Expire drops idle workflows and returns how many were removed.
func (s *Store) Expire() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	expired := 0
	for key, state := range s.states {
		if now.Sub(state.UpdatedAt) >= s.ttl {
			delete(s.states, key)
			expired++
		}
	}
	metrics.ActiveConversations.Set(float64(len(s.states)))
	return expired
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}
