package records

import "sync"

// Store holds the current State for concurrent HTTP handlers. Each Apply runs
// one transition under the write lock, so transitions never interleave.
type Store struct {
	mu    sync.RWMutex
	state State
	env   Env
}

func NewStore(initial State, env Env) *Store {
	return &Store{state: initial, env: env}
}

func (s *Store) Env() Env { return s.env }

// Snapshot returns the current state. Callers must treat it as read-only.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Apply runs fn against the current state and keeps the result when fn
// succeeds. On error the previous state is kept.
func (s *Store) Apply(fn func(State, Env) (State, error)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(s.state, s.env)
	if err != nil {
		return s.state, err
	}
	s.state = next
	return next, nil
}

// Replace swaps in a whole state, either loaded from storage or restored
// after a failed save.
func (s *Store) Replace(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}
