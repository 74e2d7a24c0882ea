package mocks

import (
	"context"

	"github.com/avvvet/timer-service/internal/timersvc/models"
	"github.com/stretchr/testify/mock"
)

// TimerStore is a mock for store.TimerStore.
type TimerStore struct {
	mock.Mock
}

func (m *TimerStore) Find(ctx context.Context) (*models.Timer, error) {
	args := m.Called(ctx)
	if t, ok := args.Get(0).(*models.Timer); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TimerStore) Replace(ctx context.Context, t *models.Timer) (*models.Timer, error) {
	args := m.Called(ctx, t)
	if saved, ok := args.Get(0).(*models.Timer); ok {
		return saved, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TimerStore) Swap(ctx context.Context, id string, t *models.Timer) (*models.Timer, error) {
	args := m.Called(ctx, id, t)
	if saved, ok := args.Get(0).(*models.Timer); ok {
		return saved, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TimerStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
