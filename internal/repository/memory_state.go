package repository

import (
	"context"
	"encoding/json"
	"sync"

	"mindcare/internal/records"
)

// MemoryStateRepository keeps snapshots in process memory (DB disabled).
// Snapshots are stored encoded so callers never share slices with it.
type MemoryStateRepository struct {
	mu     sync.RWMutex
	states map[string][]byte
}

var _ StateRepository = (*MemoryStateRepository)(nil)

func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{states: map[string][]byte{}}
}

func (r *MemoryStateRepository) Load(_ context.Context, owner string) (records.State, bool, error) {
	r.mu.RLock()
	raw, ok := r.states[owner]
	r.mu.RUnlock()
	if !ok {
		return records.State{}, false, nil
	}
	var st records.State
	if err := json.Unmarshal(raw, &st); err != nil {
		return records.State{}, false, err
	}
	return st, true, nil
}

func (r *MemoryStateRepository) Save(_ context.Context, owner string, st records.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.states[owner] = raw
	r.mu.Unlock()
	return nil
}
