package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/avvvet/timer-service/internal/comm"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

type NatsBroker struct {
	Conn    *nats.Conn
	Subject string
}

func NewNatsBroker(conn *nats.Conn, subject string) *NatsBroker {
	return &NatsBroker{
		Conn:    conn,
		Subject: subject,
	}
}

// publish timer event to every service instance
func (b *NatsBroker) Publish(ctx context.Context, event comm.TimerEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	if err := b.Conn.Publish(b.Subject, payload); err != nil {
		return fmt.Errorf("publish to %s: %w", b.Subject, err)
	}
	return nil
}

// Subscribe relays events published by any instance to handle.
func (b *NatsBroker) Subscribe(handle func(comm.TimerEvent)) (*nats.Subscription, error) {
	return b.Conn.Subscribe(b.Subject, func(msg *nats.Msg) {
		event := comm.TimerEvent{}
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			log.Errorf("Error decoding timer event from %s: %v", msg.Subject, err)
			return
		}

		switch event.Type {
		case comm.TimerCreated, comm.TimerUpdated, comm.TimerDeleted:
			handle(event)
		default:
			log.Warnf("unknown event received: %s", event.Type)
		}
	})
}
