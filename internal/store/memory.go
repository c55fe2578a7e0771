package store

import (
	"context"
	"sync"

	"github.com/omran-mahr/Aspiro-AI/internal/domain"
)

// MemoryStore is a process-local Store, used with the mock face provider.
type MemoryStore struct {
	mu      sync.RWMutex
	gallery domain.Gallery
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{gallery: domain.Gallery{}}
}

func (s *MemoryStore) Load(ctx context.Context) (domain.Gallery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gallery.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, gallery domain.Gallery) error {
	if err := gallery.Validate(); err != nil {
		return domain.ErrStorageWrite.WithError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gallery = gallery.Clone()
	return nil
}
