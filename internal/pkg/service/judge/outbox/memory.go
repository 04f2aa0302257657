package outbox

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryStore struct {
	lock  sync.RWMutex
	items map[string]Record
}

// NewMemoryStore creates an in-memory Store for tests.
func NewMemoryStore() Store {
	return &memoryStore{items: make(map[string]Record)}
}

func (s *memoryStore) InsertIfAbsent(_ context.Context, record Record) (bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, found := s.items[record.AggregateID]; found {
		return false, nil
	}
	s.items[record.AggregateID] = record
	return true, nil
}

func (s *memoryStore) DeleteByAggregateID(_ context.Context, aggregateID string) (bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, found := s.items[aggregateID]; !found {
		return false, nil
	}
	delete(s.items, aggregateID)
	return true, nil
}

func (s *memoryStore) FindStaleOlderThan(_ context.Context, createdBefore time.Time, limit int) ([]Record, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	out := make([]Record, 0)
	for _, record := range s.items {
		if record.CreatedAt.Before(createdBefore) {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memoryStore) Count(_ context.Context) (int64, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return int64(len(s.items)), nil
}
