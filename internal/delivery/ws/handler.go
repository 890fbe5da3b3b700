package ws

import (
	"log"
	"net/http"

	"gigtalk/infrastructure/ws"
	"gigtalk/internal/entity"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades an authenticated request and registers the connection as
// the user's push channel. The channel is server-to-client only.
type Handler struct {
	hub ws.IHub
}

func NewHandler(hub ws.IHub) *Handler {
	return &Handler{
		hub: hub,
	}
}

// ServeWS upgrades the connection for an already-authenticated user; the
// HTTP layer resolves the id from its auth context.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request, userId entity.UserID) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Upgrade error: %v", err)
		return
	}

	client := ws.NewClient(userId.String(), h.hub, conn)
	h.hub.RegisterClient(client)

	go client.WritePump()
	go client.ReadPump()
}
