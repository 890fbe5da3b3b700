package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisHub fans pushes out across server instances. Local connections are
// served directly; a push for a user connected elsewhere is published to that
// user's Redis channel and delivered by the instance holding the connection.
type RedisHub struct {
	clients map[string]*UserClient
	mu      sync.RWMutex

	redisClient *redis.Client
	pubsub      *redis.PubSub
	serverID    string

	Register   chan *UserClient
	Unregister chan *UserClient
}

type redisEnvelope struct {
	FromServerID string `json:"fromServerId"`
	ToUserID     string `json:"toUserId"`
	Payload      []byte `json:"payload"`
}

func NewRedisHub(redisAddr string, serverID string) IHub {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	hub := &RedisHub{
		clients:     make(map[string]*UserClient),
		redisClient: rdb,
		serverID:    serverID,
		Register:    make(chan *UserClient),
		Unregister:  make(chan *UserClient),
	}

	hub.pubsub = rdb.PSubscribe(context.Background(), "events:*")

	return hub
}

func (h *RedisHub) Run() {
	go h.subscribeRedis()

	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client.UserId] = client
			h.mu.Unlock()

			h.redisClient.Set(
				context.Background(),
				"user:"+client.UserId+":server",
				h.serverID,
				0,
			)

			log.Printf("[%s] %s connected", h.serverID, client.UserId)

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.UserId]; ok {
				delete(h.clients, client.UserId)
				close(client.send)

				h.redisClient.Del(
					context.Background(),
					"user:"+client.UserId+":server",
				)

				log.Printf("[%s] %s disconnected", h.serverID, client.UserId)
			}
			h.mu.Unlock()
		}
	}
}

func (h *RedisHub) subscribeRedis() {
	ch := h.pubsub.Channel()

	log.Printf("[%s] Redis subscriber started", h.serverID)

	for msg := range ch {
		var envelope redisEnvelope
		if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
			log.Printf("Error unmarshaling Redis message: %v", err)
			continue
		}

		// Skip envelopes this instance published itself.
		if envelope.FromServerID == h.serverID {
			continue
		}

		h.mu.RLock()
		_, existsLocally := h.clients[envelope.ToUserID]
		h.mu.RUnlock()
		if !existsLocally {
			continue
		}

		h.SendToClient(envelope.ToUserID, envelope.Payload)
	}
}

func (h *RedisHub) SendToClient(userID string, message []byte) {
	h.mu.RLock()
	client, existsLocally := h.clients[userID]
	h.mu.RUnlock()

	if existsLocally {
		select {
		case client.send <- message:
		default:
			log.Printf("[%s] Failed to send to local client %s", h.serverID, userID)
		}
		return
	}

	// The user may be connected to another instance.
	h.publishToRedis(userID, message)
}

func (h *RedisHub) publishToRedis(userID string, message []byte) {
	ctx := context.Background()

	envelope := redisEnvelope{
		FromServerID: h.serverID,
		ToUserID:     userID,
		Payload:      message,
	}

	msgBytes, err := json.Marshal(envelope)
	if err != nil {
		log.Printf("Error marshaling Redis message: %v", err)
		return
	}

	err = h.redisClient.Publish(ctx, "events:"+userID, msgBytes).Err()
	if err != nil {
		log.Printf("Error publishing to Redis: %v", err)
	}
}

func (h *RedisHub) RegisterClient(client *UserClient) {
	h.Register <- client
}

func (h *RedisHub) UnregisterClient(client *UserClient) {
	h.Unregister <- client
}
