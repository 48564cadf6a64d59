package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-process Store used by tests and as the dev fallback
// when no DATABASE_URL is configured. A single mutex makes every operation
// atomic, which is stronger than the per-record guarantee callers rely on.
type MemoryStore struct {
	mu         sync.RWMutex
	partitions map[string]map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{partitions: map[string]map[string]map[string]string{}}
}

func (s *MemoryStore) Get(_ context.Context, pk, sk string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	attrs, ok := s.partitions[pk][sk]
	if !ok {
		return Record{}, ErrNotFound
	}
	return Record{PK: pk, SK: sk, Attrs: copyAttrs(attrs)}, nil
}

func (s *MemoryStore) Query(_ context.Context, pk, skPrefix string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for sk := range s.partitions[pk] {
		if strings.HasPrefix(sk, skPrefix) {
			keys = append(keys, sk)
		}
	}
	sort.Strings(keys)

	var records []Record
	for _, sk := range keys {
		records = append(records, Record{PK: pk, SK: sk, Attrs: copyAttrs(s.partitions[pk][sk])})
	}
	return records, nil
}

func (s *MemoryStore) Put(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.partitions[rec.PK] == nil {
		s.partitions[rec.PK] = map[string]map[string]string{}
	}
	s.partitions[rec.PK][rec.SK] = copyAttrs(rec.Attrs)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, pk, sk string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.partitions[pk][sk]; !ok {
		return false, nil
	}
	delete(s.partitions[pk], sk)
	return true, nil
}

func copyAttrs(attrs map[string]string) map[string]string {
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}

var _ Store = (*MemoryStore)(nil)
