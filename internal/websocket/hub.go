package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"legal-rag-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// Hub tracks clients per conversation thread. A room is all sockets
// currently watching one thread (multi-device, multi-tab).
type Hub struct {
	// Registered clients map: ThreadID -> List of Clients
	rooms map[string][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis Subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.rooms[client.ThreadID] = append(h.rooms[client.ThreadID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client joined room", map[string]interface{}{"thread_id": client.ThreadID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.ThreadID]; ok {
				for i, c := range clients {
					if c == client {
						// Remove from slice
						h.rooms[client.ThreadID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.rooms[client.ThreadID]) == 0 {
					delete(h.rooms, client.ThreadID)
					h.logger.Info("Hub", "Room emptied", map[string]interface{}{"thread_id": client.ThreadID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Register adds a client to its thread room.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// SendToRoom delivers a frame to every socket in a thread room, on this
// instance and (via redis) on every other instance.
func (h *Hub) SendToRoom(threadID string, frame interface{}) {
	data, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal frame", map[string]interface{}{"error": err.Error()})
		return
	}

	h.deliverLocal(threadID, data)

	// Publish to Redis for other instances
	if h.rdb != nil {
		payload := map[string]interface{}{
			"target_thread_id": threadID,
			"message":          json.RawMessage(data),
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), "cluster_events", jsonPayload)
	}
}

func (h *Hub) deliverLocal(threadID string, data []byte) {
	h.mu.RLock()
	clients := append([]*Client(nil), h.rooms[threadID]...)
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"thread_id": threadID})
			h.unregister <- client
		}
	}
}

func (h *Hub) subscribeToRedis() {
	// Every instance subscribes to "cluster_events". When a message
	// arrives, deliver it to the target room if we host any of its
	// sockets locally.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "cluster_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			TargetThreadID string          `json:"target_thread_id"`
			Message        json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		h.deliverLocal(payload.TargetThreadID, payload.Message)
	}
}
