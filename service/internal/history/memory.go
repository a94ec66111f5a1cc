package history

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	records []Record
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) SaveMatch(_ context.Context, r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, cloneRecord(r))
	return nil
}

func (m *MemoryStore) Stats(_ context.Context, player string) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var s Stats
	for _, r := range m.records {
		s.Add(r, player)
	}
	return s, nil
}

// Recent returns up to limit records, most recently saved first.
func (m *MemoryStore) Recent(_ context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		return nil, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, 0, min(limit, len(m.records)))
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, cloneRecord(m.records[i]))
	}
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }

func cloneRecord(r Record) Record {
	r.Players = slices.Clone(r.Players)
	r.Scores = slices.Clone(r.Scores)
	r.RoundWins = slices.Clone(r.RoundWins)
	return r
}
