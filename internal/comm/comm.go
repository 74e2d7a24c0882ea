package comm

import (
	"encoding/json"
	"time"

	"github.com/avvvet/timer-service/internal/timersvc/models"
)

const (
	TimerCreated  = "timer-created"
	TimerUpdated  = "timer-updated"
	TimerDeleted  = "timer-deleted"
	TimerSnapshot = "timer-snapshot"
	Ping          = "ping"
	Pong          = "pong"
)

type WSMessage struct {
	Type string          `json:"type"` // e.g. "timer-created", "ping"
	Data json.RawMessage `json:"data"`
}

// TimerEvent is published after every successful mutation. Timer is nil for
// deletions.
type TimerEvent struct {
	Type       string        `json:"type"`
	Timer      *models.Timer `json:"timer"`
	InstanceId string        `json:"instanceId"`
	OccurredAt time.Time     `json:"occurredAt"`
}

// Message wraps the event in the envelope sent to websocket clients.
func (e TimerEvent) Message() (*WSMessage, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return &WSMessage{Type: e.Type, Data: data}, nil
}
