package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/avvvet/timer-service/internal/timersvc/models"
)

// ErrUnavailable marks failures of the underlying database. The driver error
// stays in the chain for logging.
var ErrUnavailable = errors.New("store unavailable")

// TimerStore is a single slot holding at most one timer.
type TimerStore interface {
	// Find returns the timer in the slot, or nil, nil when the slot is empty.
	Find(ctx context.Context) (*models.Timer, error)
	// Replace writes t into the slot under a new identity, dropping whatever
	// was there before.
	Replace(ctx context.Context, t *models.Timer) (*models.Timer, error)
	// Swap overwrites the slot only if it still holds the timer with the given
	// id. It returns nil, nil when the slot holds something else or nothing.
	Swap(ctx context.Context, id string, t *models.Timer) (*models.Timer, error)
	// Clear empties the slot. Clearing an empty slot is not an error.
	Clear(ctx context.Context) error
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}
