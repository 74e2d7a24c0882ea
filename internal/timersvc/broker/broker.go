package broker

import (
	"context"
	"errors"

	"github.com/avvvet/timer-service/internal/comm"
)

// Publisher delivers timer events to interested parties.
type Publisher interface {
	Publish(ctx context.Context, event comm.TimerEvent) error
}

// Fanout publishes to every publisher and joins their errors.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, event comm.TimerEvent) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
