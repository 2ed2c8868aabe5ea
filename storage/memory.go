package storage

import (
	"context"
	"sync"

	"github.com/goliatone/go-tableview/pkg/types"
)

// MemoryStore keeps values in process. Values are copied on the way in and
// out so callers never share maps with the store.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]map[string]any
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]map[string]any)}
}

var _ types.Store = (*MemoryStore)(nil)

// Get implements types.Store.
func (s *MemoryStore) Get(_ context.Context, key string) (map[string]any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return deepCopy(value), true, nil
}

// Set implements types.Store.
func (s *MemoryStore) Set(_ context.Context, key string, value map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = deepCopy(value)
	return nil
}

// Delete implements types.Store.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Keys returns the stored keys.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.values))
	for k := range s.values {
		out = append(out, k)
	}
	return out
}

func deepCopy(src map[string]any) map[string]any {
	if src == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		return deepCopy(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = copyValue(item)
		}
		return out
	case []string:
		return append([]string(nil), typed...)
	}
	return v
}
