package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avvvet/timer-service/internal/comm"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer the broker needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaBroker appends timer events to a topic for downstream consumers.
type KafkaBroker struct {
	writer messageWriter
}

func NewKafkaBroker(brokers []string, topic string) *KafkaBroker {
	return &KafkaBroker{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			BatchTimeout:           10 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
	}
}

func (b *KafkaBroker) Publish(ctx context.Context, event comm.TimerEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Type),
		Value: payload,
		Time:  event.OccurredAt,
	}
	if err := b.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s event to kafka: %w", event.Type, err)
	}
	return nil
}

func (b *KafkaBroker) Close() error {
	return b.writer.Close()
}
