package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/ranking"
	"github.com/okian/arena/pkg/metrics"
)

// MemoryStore is the in-memory Store owning the board's slot map.
type MemoryStore struct {
	mu    sync.RWMutex
	byKey map[model.SlotKey]model.SlotRecord
	label string
}

// NewMemoryStore constructs an empty store with configuration options.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byKey: make(map[model.SlotKey]model.SlotRecord),
		label: "board",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reportSize(len(s.byKey))
	return s
}

// Put implements Store.Put.
func (s *MemoryStore) Put(_ context.Context, key model.SlotKey, rec model.SlotRecord) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	s.mu.Lock()
	s.byKey[key] = rec
	n := len(s.byKey)
	s.mu.Unlock()

	s.reportSize(n)
	return nil
}

// Get implements Store.Get.
func (s *MemoryStore) Get(_ context.Context, key model.SlotKey) (model.SlotRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byKey[key]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.SlotRecord{}, ErrNotFound
	}
	return rec, nil
}

// Delete implements Store.Delete.
func (s *MemoryStore) Delete(_ context.Context, key model.SlotKey) (bool, error) {
	s.mu.Lock()
	_, ok := s.byKey[key]
	delete(s.byKey, key)
	n := len(s.byKey)
	s.mu.Unlock()

	if ok {
		s.reportSize(n)
	}
	return ok, nil
}

// All implements Store.All.
func (s *MemoryStore) All(_ context.Context) map[model.SlotKey]model.SlotRecord {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[model.SlotKey]model.SlotRecord, len(s.byKey))
	for k, v := range s.byKey {
		out[k] = v
	}
	return out
}

// Group implements Store.Group.
func (s *MemoryStore) Group(_ context.Context, group string, size int) []ranking.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ranking.Position, max(size, 0))
	for i := range out {
		out[i].Index = i
		if rec, ok := s.byKey[model.SlotKey{Group: group, Index: i}]; ok {
			out[i].Record = &rec
		}
	}
	return out
}

// Replace implements Store.Replace.
func (s *MemoryStore) Replace(_ context.Context, records map[model.SlotKey]model.SlotRecord) {
	next := make(map[model.SlotKey]model.SlotRecord, len(records))
	for k, v := range records {
		next[k] = v
	}

	s.mu.Lock()
	s.byKey = next
	s.mu.Unlock()

	s.reportSize(len(next))
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKey)
}

func (s *MemoryStore) reportSize(n int) {
	metrics.UpdateRepositoryRecords(s.label, n)
}
