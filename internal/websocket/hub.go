package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"pdf-chat-be/internal/model"
	"pdf-chat-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "pdf_chat_cluster_events"

// Hub fans notifications out to every connected browser tab. There is no
// user identity here: a connection is keyed only by the client id the tab
// generated for itself.
type Hub struct {
	clients map[uuid.UUID]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance fanout, may be nil
	rdb *redis.Client

	// instanceID filters out this instance's own relayed messages
	instanceID string

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis relay if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ClientID] = client
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"client_id": client.ClientID})

		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.ClientID]; ok && current == client {
				delete(h.clients, client.ClientID)
				close(client.Send)
				h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"client_id": client.ClientID})
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends a notification to all connected clients and relays it
// to other instances over Redis.
func (h *Hub) Broadcast(notification model.Notification) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})

	h.broadcastLocal(data)

	if h.rdb != nil {
		payload := map[string]interface{}{
			"origin":  h.instanceID,
			"message": json.RawMessage(data),
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), clusterChannel, jsonPayload)
	}
}

func (h *Hub) broadcastLocal(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"client_id": client.ClientID})
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			Origin  string          `json:"origin"`
			Message json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		// Own messages were already delivered locally.
		if payload.Origin == h.instanceID {
			continue
		}

		h.broadcastLocal(payload.Message)
	}
}
