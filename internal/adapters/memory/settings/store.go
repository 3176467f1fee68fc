package settings

import (
	"context"
	"sync"

	"github.com/Overland-East-Bay/location-finder-api/internal/ports/out/settings"
)

// Store is an in-memory implementation of settings.Store.
// It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex
	m  map[settings.Key]string
}

func NewStore() *Store {
	return &Store{
		m: make(map[settings.Key]string),
	}
}

func (s *Store) Get(ctx context.Context, key settings.Key) (string, bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *Store) Put(ctx context.Context, key settings.Key, value string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}
