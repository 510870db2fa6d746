package stream

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"backend-trollfeed/internal/feed"

	"github.com/redis/go-redis/v9"
)

const moderationChannel = "moderation:events"

// Hub fans moderation events out to connected admin dashboards. With a
// redis client events travel through a pub/sub channel so every server
// instance delivers them; without one delivery is process-local.
type Hub struct {
	redis   *redis.Client
	clients map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	Send chan []byte
}

type event struct {
	Type string    `json:"type"`
	Post feed.Post `json:"post"`
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register() *Client {
	client := &Client{Send: make(chan []byte, 64)}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.Send)
	}
}

// NotifyPending announces a freshly submitted post awaiting review.
func (h *Hub) NotifyPending(post feed.Post) {
	payload, err := json.Marshal(event{Type: "post.pending", Post: post})
	if err != nil {
		log.Printf("marshal moderation event: %v", err)
		return
	}
	h.Broadcast(payload)
}

func (h *Hub) Broadcast(payload []byte) {
	if h.redis != nil {
		// The subscriber loop delivers to local clients too, so a
		// successful publish is the whole job.
		err := h.redis.Publish(context.Background(), moderationChannel, payload).Err()
		if err == nil {
			return
		}
		log.Printf("redis publish error: %v", err)
	}
	h.deliver(payload)
}

func (h *Hub) deliver(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis() {
	pubsub := h.redis.Subscribe(context.Background(), moderationChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.deliver([]byte(msg.Payload))
	}
}
