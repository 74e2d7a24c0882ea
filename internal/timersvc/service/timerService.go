package service

import (
	"context"
	"errors"
	"time"

	"github.com/avvvet/timer-service/internal/comm"
	"github.com/avvvet/timer-service/internal/observability"
	"github.com/avvvet/timer-service/internal/timersvc/broker"
	"github.com/avvvet/timer-service/internal/timersvc/models"
	"github.com/avvvet/timer-service/internal/timersvc/store"
	log "github.com/sirupsen/logrus"
)

// ErrTimerNotFound is returned when the slot is empty, or when an update lost
// its record to a concurrent delete or create.
var ErrTimerNotFound = errors.New("no timer found")

// TimerService owns the lifecycle of the single timer.
type TimerService struct {
	timerStore store.TimerStore
	validator  *models.Validator
	publisher  broker.Publisher
	now        func() time.Time
	instanceId string
}

type Option func(*TimerService)

// WithClock replaces time.Now for timestamps and the future-date rule.
func WithClock(now func() time.Time) Option {
	return func(s *TimerService) { s.now = now }
}

// WithPublisher sends change events after each successful mutation.
func WithPublisher(p broker.Publisher) Option {
	return func(s *TimerService) { s.publisher = p }
}

func WithInstanceId(id string) Option {
	return func(s *TimerService) { s.instanceId = id }
}

func NewTimerService(timerStore store.TimerStore, opts ...Option) *TimerService {
	s := &TimerService{
		timerStore: timerStore,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.validator = models.NewValidator(s.now)
	return s
}

func (s *TimerService) GetTimer(ctx context.Context) (*models.Timer, error) {
	timer, err := s.getTimer(ctx)
	observability.RecordOperation("get", err)
	return timer, err
}

func (s *TimerService) getTimer(ctx context.Context) (*models.Timer, error) {
	timer, err := s.timerStore.Find(ctx)
	if err != nil {
		return nil, err
	}
	if timer == nil {
		return nil, ErrTimerNotFound
	}
	return timer, nil
}

// CreateTimer replaces whatever timer exists with a new one.
func (s *TimerService) CreateTimer(ctx context.Context, in models.TimerInput) (*models.Timer, error) {
	timer, err := s.createTimer(ctx, in)
	observability.RecordOperation("create", err)
	return timer, err
}

func (s *TimerService) createTimer(ctx context.Context, in models.TimerInput) (*models.Timer, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	now := s.timestamp()
	timer, err := s.timerStore.Replace(ctx, &models.Timer{
		Name:       in.Name,
		TargetDate: in.TargetDate.UTC().Truncate(time.Millisecond),
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, comm.TimerCreated, timer)
	return timer, nil
}

// UpdateTimer renames and retargets the existing timer, keeping its identity
// and creation time.
func (s *TimerService) UpdateTimer(ctx context.Context, in models.TimerInput) (*models.Timer, error) {
	timer, err := s.updateTimer(ctx, in)
	observability.RecordOperation("update", err)
	return timer, err
}

func (s *TimerService) updateTimer(ctx context.Context, in models.TimerInput) (*models.Timer, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	existing, err := s.getTimer(ctx)
	if err != nil {
		return nil, err
	}

	existing.Name = in.Name
	existing.TargetDate = in.TargetDate.UTC().Truncate(time.Millisecond)
	existing.UpdatedAt = s.timestamp()

	timer, err := s.timerStore.Swap(ctx, existing.ID, existing)
	if err != nil {
		return nil, err
	}
	if timer == nil {
		log.Warnf("timer %s changed while updating", existing.ID)
		return nil, ErrTimerNotFound
	}

	s.publish(ctx, comm.TimerUpdated, timer)
	return timer, nil
}

func (s *TimerService) DeleteTimer(ctx context.Context) error {
	err := s.timerStore.Clear(ctx)
	observability.RecordOperation("delete", err)
	if err != nil {
		return err
	}

	s.publish(ctx, comm.TimerDeleted, nil)
	return nil
}

// stored timestamps keep millisecond precision, the finest every store can hold
func (s *TimerService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *TimerService) publish(ctx context.Context, eventType string, timer *models.Timer) {
	if s.publisher == nil {
		return
	}

	event := comm.TimerEvent{
		Type:       eventType,
		Timer:      timer,
		InstanceId: s.instanceId,
		OccurredAt: s.timestamp(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Errorf("Error publishing %s event: %v", eventType, err)
	}
}
