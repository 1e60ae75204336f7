package handlers

import (
	"net/http"

	"github.com/fortuna/services/cfb-analytics-service/internal/client"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Origin checks are left to the CORS layer in front of the service
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket upgrades the connection and registers a live update client
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	clientID := uuid.New().String()
	c := client.NewClient(clientID, conn, h.hub, h.logger.WithField("component", "client"))

	h.hub.Register(c)

	// Pumps outlive the request; they stop with the handler context
	go c.WritePump(h.ctx)
	go c.ReadPump(h.ctx)
}
