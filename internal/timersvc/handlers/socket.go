package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avvvet/timer-service/internal/comm"
	"github.com/avvvet/timer-service/internal/timersvc/service"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// HandleWebSocket upgrades the request, sends the current timer and keeps the
// socket registered for change events until the client goes away.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	socketId := uuid.New().String()
	h.ws.StoreConnection(socketId, conn)

	log.Infof("New WebSocket connection established: %s", socketId)

	h.sendSnapshot(r, socketId)

	go h.handleConnection(conn, socketId)
}

func (h *Handler) sendSnapshot(r *http.Request, socketId string) {
	timer, err := h.timerService.GetTimer(r.Context())
	if err != nil && !errors.Is(err, service.ErrTimerNotFound) {
		log.Errorf("Failed to load timer snapshot for socket %s: %v", socketId, err)
		return
	}

	data, err := json.Marshal(timer)
	if err != nil {
		log.Errorf("Failed to encode timer snapshot: %v", err)
		return
	}

	msg := &comm.WSMessage{Type: comm.TimerSnapshot, Data: data}
	if err := h.ws.Send(socketId, msg); err != nil {
		log.Errorf("Failed to send snapshot to socket %s: %v", socketId, err)
	}
}

func (h *Handler) handleConnection(conn *websocket.Conn, socketId string) {
	// Ensure cleanup happens when connection closes
	defer func() {
		log.Infof("Closing WebSocket connection: %s", socketId)
		conn.Close()
		h.ws.HandleDisconnect(socketId)
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Errorf("WebSocket unexpected close error for socket %s: %v", socketId, err)
			}
			return
		}

		message := &comm.WSMessage{}
		if err := json.Unmarshal(raw, message); err != nil {
			log.Errorf("Failed to unmarshal message from socket %s: %v", socketId, err)
			continue
		}

		h.ws.SocketMessage(socketId, message)
	}
}
