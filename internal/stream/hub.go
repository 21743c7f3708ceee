package stream

import (
	"context"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Hub fans location updates out to websocket viewers of a shared route.
// Redis pub/sub carries updates across instances.
type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	ShareID string
	Send    chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(shareID string) *Client {
	client := &Client{
		ShareID: shareID,
		Send:    make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[shareID] == nil {
		h.clients[shareID] = map[*Client]struct{}{}
	}
	h.clients[shareID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if shareClients, ok := h.clients[client.ShareID]; ok {
		delete(shareClients, client)
		if len(shareClients) == 0 {
			delete(h.clients, client.ShareID)
		}
	}
	close(client.Send)
}

// Broadcast pushes a payload to every viewer of a shared route. With Redis
// configured, the payload goes through pub/sub so viewers connected to other
// instances receive it too; the local viewers get it back via the
// subscription, which keeps delivery single-path.
func (h *Hub) Broadcast(shareID string, payload []byte) {
	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(shareID), payload).Err()
		if err != nil {
			log.Printf("redis publish error: %v", err)
		}
		return
	}
	h.deliver(shareID, payload)
}

func (h *Hub) deliver(shareID string, payload []byte) {
	h.mu.RLock()
	clients := h.clients[shareID]
	h.mu.RUnlock()

	for client := range clients {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis() {
	// Pattern subscription; Subscribe would treat the glob as a literal
	// channel name and never match published updates.
	pubsub := h.redis.PSubscribe(context.Background(), "shareroute:*:location")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.deliver(shareIDFromChannel(msg.Channel), []byte(msg.Payload))
	}
}

func redisChannel(shareID string) string {
	return "shareroute:" + shareID + ":location"
}

func shareIDFromChannel(ch string) string {
	// shareroute:{shareId}:location
	const prefix = "shareroute:"
	const suffix = ":location"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
