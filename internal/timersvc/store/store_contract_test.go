package store

import (
	"context"
	"testing"
	"time"

	"github.com/avvvet/timer-service/internal/timersvc/models"
	"github.com/stretchr/testify/require"
)

func sampleTimer(name string, offset time.Duration) *models.Timer {
	now := time.Date(2030, time.January, 2, 15, 4, 5, 0, time.UTC)
	return &models.Timer{
		Name:       name,
		TargetDate: now.Add(offset),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// testTimerStore runs the single slot behaviour every adapter must share.
func testTimerStore(t *testing.T, s TimerStore) {
	ctx := context.Background()

	t.Run("empty slot", func(t *testing.T) {
		require.NoError(t, s.Clear(ctx))

		got, err := s.Find(ctx)
		require.NoError(t, err)
		require.Nil(t, got)

		// clearing twice is fine
		require.NoError(t, s.Clear(ctx))
	})

	t.Run("replace assigns identity", func(t *testing.T) {
		want := sampleTimer("Countdown", time.Hour)

		saved, err := s.Replace(ctx, want)
		require.NoError(t, err)
		require.NotEmpty(t, saved.ID)
		require.Equal(t, want.Name, saved.Name)
		require.True(t, want.TargetDate.Equal(saved.TargetDate))
		require.True(t, want.CreatedAt.Equal(saved.CreatedAt))

		got, err := s.Find(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Equal(t, saved.ID, got.ID)
		require.Equal(t, "Countdown", got.Name)
	})

	t.Run("replace keeps a single record", func(t *testing.T) {
		first, err := s.Replace(ctx, sampleTimer("First", time.Hour))
		require.NoError(t, err)
		second, err := s.Replace(ctx, sampleTimer("Second", 2*time.Hour))
		require.NoError(t, err)
		require.NotEqual(t, first.ID, second.ID)

		got, err := s.Find(ctx)
		require.NoError(t, err)
		require.Equal(t, second.ID, got.ID)
		require.Equal(t, "Second", got.Name)

		// the old identity no longer owns the slot
		swapped, err := s.Swap(ctx, first.ID, sampleTimer("Stale", time.Hour))
		require.NoError(t, err)
		require.Nil(t, swapped)
	})

	t.Run("swap keeps identity and creation time", func(t *testing.T) {
		created, err := s.Replace(ctx, sampleTimer("Countdown", time.Hour))
		require.NoError(t, err)

		next := *created
		next.Name = "Renamed"
		next.TargetDate = created.TargetDate.Add(time.Hour)
		next.UpdatedAt = created.UpdatedAt.Add(time.Minute)

		updated, err := s.Swap(ctx, created.ID, &next)
		require.NoError(t, err)
		require.NotNil(t, updated)
		require.Equal(t, created.ID, updated.ID)
		require.Equal(t, "Renamed", updated.Name)
		require.True(t, created.CreatedAt.Equal(updated.CreatedAt))
		require.True(t, next.UpdatedAt.Equal(updated.UpdatedAt))
		require.True(t, next.TargetDate.Equal(updated.TargetDate))
	})

	t.Run("swap on empty slot", func(t *testing.T) {
		created, err := s.Replace(ctx, sampleTimer("Countdown", time.Hour))
		require.NoError(t, err)
		require.NoError(t, s.Clear(ctx))

		swapped, err := s.Swap(ctx, created.ID, created)
		require.NoError(t, err)
		require.Nil(t, swapped)

		got, err := s.Find(ctx)
		require.NoError(t, err)
		require.Nil(t, got)
	})
}
