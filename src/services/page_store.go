package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/lockroom/lockdash/src/models"
)

// PageStore holds encoded list pages for the query client. Every entity has a
// generation counter; bumping it makes all pages cached under older
// generations unreachable.
type PageStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Generation(ctx context.Context, entity models.Entity) (int64, error)
	Bump(ctx context.Context, entity models.Entity) (int64, error)
}

// MemoryPageStore is an in-process PageStore backed by an expirable LRU
type MemoryPageStore struct {
	pages       *expirable.LRU[string, []byte]
	mu          sync.Mutex
	generations map[models.Entity]int64
}

// NewMemoryPageStore creates a store holding at most size pages for ttl each
func NewMemoryPageStore(size int, ttl time.Duration) *MemoryPageStore {
	if size <= 0 {
		size = 256
	}
	return &MemoryPageStore{
		pages:       expirable.NewLRU[string, []byte](size, nil, ttl),
		generations: make(map[models.Entity]int64),
	}
}

func (s *MemoryPageStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := s.pages.Get(key)
	return value, ok, nil
}

func (s *MemoryPageStore) Set(_ context.Context, key string, value []byte) error {
	s.pages.Add(key, value)
	return nil
}

func (s *MemoryPageStore) Generation(_ context.Context, entity models.Entity) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[entity], nil
}

// Bump advances the entity generation and drops the entity's cached pages
func (s *MemoryPageStore) Bump(_ context.Context, entity models.Entity) (int64, error) {
	s.mu.Lock()
	s.generations[entity]++
	gen := s.generations[entity]
	s.mu.Unlock()

	prefix := entity.String() + "|"
	for _, key := range s.pages.Keys() {
		if strings.HasPrefix(key, prefix) {
			s.pages.Remove(key)
		}
	}
	return gen, nil
}

// Len returns the number of cached pages
func (s *MemoryPageStore) Len() int {
	return s.pages.Len()
}
