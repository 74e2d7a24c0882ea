package store

import (
	"context"
	"sync"

	"github.com/avvvet/timer-service/internal/timersvc/models"
	"github.com/google/uuid"
)

type MemoryStore struct {
	mu   sync.Mutex
	slot *models.Timer
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Find(ctx context.Context) (*models.Timer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.slot == nil {
		return nil, nil
	}
	t := *s.slot
	return &t, nil
}

func (s *MemoryStore) Replace(ctx context.Context, t *models.Timer) (*models.Timer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *t
	stored.ID = uuid.NewString()
	s.slot = &stored

	out := stored
	return &out, nil
}

func (s *MemoryStore) Swap(ctx context.Context, id string, t *models.Timer) (*models.Timer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.slot == nil || s.slot.ID != id {
		return nil, nil
	}

	stored := *t
	stored.ID = id
	s.slot = &stored

	out := stored
	return &out, nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slot = nil
	return nil
}
