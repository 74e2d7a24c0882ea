package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/avvvet/timer-service/internal/comm"
	"github.com/avvvet/timer-service/internal/timersvc/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []comm.TimerEvent
	err    error
}

func (r *recorder) Publish(ctx context.Context, event comm.TimerEvent) error {
	r.events = append(r.events, event)
	return r.err
}

func TestFanoutPublishesToAll(t *testing.T) {
	failing := &recorder{err: errors.New("down")}
	ok := &recorder{}

	event := comm.TimerEvent{Type: comm.TimerDeleted, OccurredAt: time.Now()}
	err := Fanout{failing, ok}.Publish(context.Background(), event)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "down")
	assert.Len(t, failing.events, 1)
	assert.Len(t, ok.events, 1)
}

func TestEmptyFanout(t *testing.T) {
	require.NoError(t, Fanout{}.Publish(context.Background(), comm.TimerEvent{}))
}

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaBrokerWritesKeyedEvent(t *testing.T) {
	w := &fakeWriter{}
	b := &KafkaBroker{writer: w}

	occurred := time.Date(2026, time.May, 1, 9, 0, 0, 0, time.UTC)
	event := comm.TimerEvent{
		Type:       comm.TimerCreated,
		Timer:      &models.Timer{ID: "t-1", Name: "Countdown"},
		InstanceId: "instance-1",
		OccurredAt: occurred,
	}
	require.NoError(t, b.Publish(context.Background(), event))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, []byte(comm.TimerCreated), w.msgs[0].Key)
	assert.Equal(t, occurred, w.msgs[0].Time)

	var decoded comm.TimerEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, "t-1", decoded.Timer.ID)
	assert.Equal(t, "instance-1", decoded.InstanceId)

	require.NoError(t, b.Close())
	assert.True(t, w.closed)
}

func TestKafkaBrokerWrapsWriteError(t *testing.T) {
	b := &KafkaBroker{writer: &fakeWriter{err: kafka.LeaderNotAvailable}}

	err := b.Publish(context.Background(), comm.TimerEvent{Type: comm.TimerUpdated})
	require.Error(t, err)
	assert.ErrorIs(t, err, kafka.LeaderNotAvailable)
}

func TestEventMessageEnvelope(t *testing.T) {
	msg, err := comm.TimerEvent{Type: comm.TimerDeleted, InstanceId: "instance-1"}.Message()
	require.NoError(t, err)

	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Len(t, fields, 2)
	assert.JSONEq(t, `"timer-deleted"`, string(fields["type"]))
	assert.Contains(t, string(fields["data"]), `"instanceId":"instance-1"`)
}
