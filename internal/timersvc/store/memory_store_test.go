package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	testTimerStore(t, NewMemoryStore())
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	saved, err := s.Replace(ctx, sampleTimer("Countdown", time.Hour))
	require.NoError(t, err)
	saved.Name = "mutated"

	got, err := s.Find(ctx)
	require.NoError(t, err)
	require.Equal(t, "Countdown", got.Name)
}
