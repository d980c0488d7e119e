package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/msomdec/discount-pro/internal/domain"
)

type scopedKey struct {
	scope string
	key   string
}

// KeyValueStore keeps client storage in process memory. Values are copied
// on the way in and out.
type KeyValueStore struct {
	mu     sync.RWMutex
	values map[scopedKey][]byte
}

func NewKeyValueStore() *KeyValueStore {
	return &KeyValueStore{values: make(map[scopedKey][]byte)}
}

func (s *KeyValueStore) Get(_ context.Context, scope, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[scopedKey{scope, key}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return slices.Clone(v), nil
}

func (s *KeyValueStore) Put(_ context.Context, scope, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[scopedKey{scope, key}] = slices.Clone(value)
	return nil
}

func (s *KeyValueStore) Delete(_ context.Context, scope, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, scopedKey{scope, key})
	return nil
}

// Len reports how many keys are stored across all scopes.
func (s *KeyValueStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
