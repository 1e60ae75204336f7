package hub

import (
	"context"
	"sync"
	"time"

	"github.com/fortuna/services/cfb-analytics-service/internal/client"
	"github.com/fortuna/services/cfb-analytics-service/internal/logging"
	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
	"github.com/sirupsen/logrus"
)

const (
	broadcastBufferSize = 256
	metricsInterval     = 60 * time.Second
)

// Hub tracks connected dashboards and fans analysis updates out to them
type Hub struct {
	clients   map[*client.Client]bool
	clientsMu sync.RWMutex

	broadcast  chan models.AnalysisUpdate
	register   chan *client.Client
	unregister chan *client.Client

	totalConnections int64
	totalMessages    int64
	droppedUpdates   int64
	metricsMu        sync.Mutex

	logger *logrus.Entry
}

// NewHub creates a new Hub instance
func NewHub(logger *logrus.Entry) *Hub {
	return &Hub{
		clients:    make(map[*client.Client]bool),
		broadcast:  make(chan models.AnalysisUpdate, broadcastBufferSize),
		register:   make(chan *client.Client),
		unregister: make(chan *client.Client),
		logger:     logging.OrDiscard(logger),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("hub started")

	go h.reportMetrics(ctx)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case update := <-h.broadcast:
			h.broadcastUpdate(update)
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(c *client.Client) {
	h.register <- c
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(c *client.Client) {
	h.unregister <- c
}

// Broadcast queues an update for all matching clients. Drops it when the queue is full.
func (h *Hub) Broadcast(update models.AnalysisUpdate) {
	select {
	case h.broadcast <- update:
	default:
		h.metricsMu.Lock()
		h.droppedUpdates++
		h.metricsMu.Unlock()
		h.logger.WithField("game_id", update.GameID).Warn("broadcast buffer full, dropping update")
	}
}

func (h *Hub) registerClient(c *client.Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.clients[c] = true

	h.metricsMu.Lock()
	h.totalConnections++
	h.metricsMu.Unlock()

	h.logger.WithFields(logrus.Fields{
		"client_id": c.ID,
		"active":    len(h.clients),
	}).Info("client connected")
}

func (h *Hub) unregisterClient(c *client.Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.Send)
		h.logger.WithFields(logrus.Fields{
			"client_id": c.ID,
			"active":    len(h.clients),
		}).Info("client disconnected")
	}
}

// broadcastUpdate sends an update to every client whose filter matches.
// Clients with a full buffer are disconnected.
func (h *Hub) broadcastUpdate(update models.AnalysisUpdate) {
	h.clientsMu.RLock()
	clients := make([]*client.Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	message := models.ServerMessage{
		Type:      models.MessageTypeAnalysisUpdate,
		Payload:   update,
		Timestamp: time.Now(),
	}

	sent, slow := 0, 0
	for _, c := range clients {
		if !c.MatchesFilter(update) {
			continue
		}
		if c.TrySend(message) {
			sent++
			continue
		}
		slow++
		go h.Unregister(c)
	}

	if sent > 0 {
		h.metricsMu.Lock()
		h.totalMessages += int64(sent)
		h.metricsMu.Unlock()
	}
	if slow > 0 {
		h.logger.WithField("clients", slow).Warn("disconnecting slow clients")
	}
}

// GetMetrics returns hub metrics
func (h *Hub) GetMetrics() map[string]interface{} {
	h.clientsMu.RLock()
	activeClients := len(h.clients)
	h.clientsMu.RUnlock()

	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()

	return map[string]interface{}{
		"active_clients":     activeClients,
		"total_connections":  h.totalConnections,
		"total_messages":     h.totalMessages,
		"dropped_updates":    h.droppedUpdates,
		"broadcast_capacity": cap(h.broadcast),
		"broadcast_usage":    len(h.broadcast),
	}
}

// GetClientCount returns the number of active clients
func (h *Hub) GetClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.logger.WithField("active", len(h.clients)).Info("shutting down hub")

	for c := range h.clients {
		close(c.Send)
		delete(h.clients, c)
	}
}

func (h *Hub) reportMetrics(ctx context.Context) {
	ticker := time.NewTicker(metricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.logger.WithFields(logrus.Fields(h.GetMetrics())).Debug("hub metrics")
		}
	}
}
