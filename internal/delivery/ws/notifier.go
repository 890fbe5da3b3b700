package ws

import (
	"encoding/json"
	"log"

	"gigtalk/infrastructure/ws"
	"gigtalk/internal/entity"
)

const (
	EventNewMessage   = "message:new"
	EventMessagesRead = "message:read"
)

type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// HubNotifier pushes message events to participants over their websocket
// connection, if any. Implements usecase.Notifier.
type HubNotifier struct {
	hub ws.IHub
}

func NewHubNotifier(hub ws.IHub) *HubNotifier {
	return &HubNotifier{
		hub: hub,
	}
}

func (n *HubNotifier) NotifyNewMessage(message entity.Message) {
	n.push(message.ReceiverId, Event{
		Type:    EventNewMessage,
		Payload: message,
	})
}

func (n *HubNotifier) NotifyMessagesRead(conversationId string, reader, counterpart entity.UserID) {
	n.push(counterpart, Event{
		Type: EventMessagesRead,
		Payload: map[string]string{
			"conversationId": conversationId,
			"readerId":       reader.String(),
		},
	})
}

func (n *HubNotifier) push(to entity.UserID, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Marshal ws event error: %v", err)
		return
	}
	n.hub.SendToClient(to.String(), data)
}
