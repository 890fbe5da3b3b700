package entity

import "time"

// AttachmentPlaceholder is the conversation summary text for messages that
// carry files but no body.
const AttachmentPlaceholder = "Sent an attachment"

type Message struct {
	Id             string    `bson:"_id" json:"id"`
	ConversationId string    `bson:"conversationId" json:"conversationId"`
	SenderId       UserID    `bson:"senderId" json:"senderId"`
	ReceiverId     UserID    `bson:"receiverId" json:"receiverId"`
	Content        string    `bson:"content" json:"content"`
	Attachments    []string  `bson:"attachments" json:"attachments"`
	IsRead         bool      `bson:"isRead" json:"isRead"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Summary is the text shown in the conversation list for this message.
func (m Message) Summary() string {
	if m.Content != "" {
		return m.Content
	}
	return AttachmentPlaceholder
}
