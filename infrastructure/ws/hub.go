package ws

import (
	"log"
	"sync"
)

// Hub tracks one connection per user on this process. Push targets a user id;
// an unconnected user is silently skipped.
type Hub struct {
	clients    map[string]*UserClient
	Register   chan *UserClient
	Unregister chan *UserClient
	mu         sync.RWMutex
}

func NewHub() IHub {
	return &Hub{
		clients:    make(map[string]*UserClient),
		Register:   make(chan *UserClient),
		Unregister: make(chan *UserClient),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client.UserId] = client
			h.mu.Unlock()
			log.Printf("%s is connected", client.UserId)

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.UserId]; ok {
				delete(h.clients, client.UserId)
				close(client.send)
				log.Printf("%s is disconnected", client.UserId)
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) SendToClient(clientID string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, exists := h.clients[clientID]
	if exists {
		select {
		case client.send <- message:
		default:
			log.Printf("Failed to send to client: %s", clientID)
		}
	}
}

func (h *Hub) RegisterClient(client *UserClient) {
	h.Register <- client
}

func (h *Hub) UnregisterClient(client *UserClient) {
	h.Unregister <- client
}
