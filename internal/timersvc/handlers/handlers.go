package handlers

import (
	"net/http"
	"time"

	"github.com/avvvet/timer-service/internal/timersvc/service"
	"github.com/avvvet/timer-service/internal/timersvc/ws"
	"github.com/go-chi/jwtauth"
	"github.com/gorilla/websocket"
)

type Handler struct {
	timerService *service.TimerService
	ws           *ws.Ws
	upgrader     websocket.Upgrader
	tokenAuth    *jwtauth.JWTAuth
	info         StatusInfo
}

// StatusInfo describes the running instance on /v1/status.
type StatusInfo struct {
	Service     string    `json:"service"`
	InstanceId  string    `json:"instance_id"`
	StoreDriver string    `json:"store_driver"`
	StartedAt   time.Time `json:"started_at"`
}

func NewHandler(timerService *service.TimerService, s *ws.Ws, info StatusInfo) *Handler {
	return &Handler{
		timerService: timerService,
		ws:           s,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		info: info,
	}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error,omitempty"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	writeJSON(w, rsp.Code, rsp)
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.CreateResponse(w, Response{
		Message: h.info.Service + " service is running",
		Code:    http.StatusOK,
	})
}

func (h *Handler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	h.CreateResponse(w, Response{
		Message: "ok",
		Code:    http.StatusOK,
		Data: map[string]interface{}{
			"instance":       h.info,
			"uptime_seconds": int64(time.Since(h.info.StartedAt).Seconds()),
			"socket_clients": h.ws.Count(),
		},
	})
}
