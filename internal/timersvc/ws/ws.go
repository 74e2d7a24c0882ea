package ws

import (
	"context"
	"sync"
	"time"

	"github.com/avvvet/timer-service/internal/comm"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const writeWait = 10 * time.Second

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex // gorilla allows one concurrent writer
}

func (c *client) write(m *comm.WSMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(m)
}

type Ws struct {
	connMap sync.Map // socketId -> *client
}

func NewWs() *Ws {
	return &Ws{}
}

// handle socket message from web clients
func (s *Ws) SocketMessage(socketId string, message *comm.WSMessage) {
	switch message.Type {
	case comm.Ping:
		if err := s.Send(socketId, &comm.WSMessage{Type: comm.Pong}); err != nil {
			log.Errorf("Failed to send pong to socket %s: %v", socketId, err)
		}
	default:
		log.Warnf("unknown event received: %s", message.Type)
	}
}

func (s *Ws) StoreConnection(socketId string, conn *websocket.Conn) {
	s.connMap.Store(socketId, &client{conn: conn})
}

func (s *Ws) HandleDisconnect(socketId string) {
	s.connMap.Delete(socketId)
}

func (s *Ws) Count() int {
	count := 0
	s.connMap.Range(func(key, value any) bool {
		count++
		return true
	})
	return count
}

// Send writes one message to a single socket.
func (s *Ws) Send(socketId string, m *comm.WSMessage) error {
	c, ok := s.connMap.Load(socketId)
	if !ok {
		return nil
	}
	return c.(*client).write(m)
}

// Broadcast sends the event to every connected socket. Sockets that fail the
// write are dropped; their read loop finishes the cleanup.
func (s *Ws) Broadcast(event comm.TimerEvent) {
	m, err := event.Message()
	if err != nil {
		log.Errorf("Failed to encode %s event: %v", event.Type, err)
		return
	}

	s.connMap.Range(func(key, value any) bool {
		if err := value.(*client).write(m); err != nil {
			log.Warnf("dropping socket %s after failed write: %v", key, err)
			value.(*client).conn.Close()
			s.connMap.Delete(key)
		}
		return true
	})
}

// Publish lets the hub stand in for a broker when events stay in process.
func (s *Ws) Publish(ctx context.Context, event comm.TimerEvent) error {
	s.Broadcast(event)
	return nil
}
