package usecase

import (
	"context"
	"errors"
	"log"

	"gigtalk/internal/entity"
	"gigtalk/internal/repository"
)

var (
	ErrNotParticipant = errors.New("access denied to this conversation")
	ErrEmptyMessage   = errors.New("message content or attachment is required")
)

// Notifier pushes message events to connected participants. Delivery is
// best-effort; a missing or broken connection never fails the operation.
type Notifier interface {
	NotifyNewMessage(message entity.Message)
	NotifyMessagesRead(conversationId string, reader, counterpart entity.UserID)
}

type MessageUsecase interface {
	// GetMessages returns a conversation's messages oldest first and, as a
	// documented side effect, acknowledges them for the requester: every
	// unread message addressed to the requester flips to read and the
	// requester's unread counter resets to zero. Not idempotent with respect
	// to unread state; in steady state repeat calls are no-ops.
	GetMessages(ctx context.Context, conversationId string, requesterId entity.UserID) ([]entity.Message, error)

	// Send appends a message and updates the conversation summary and the
	// recipient's unread counter. Attachments must already be durably stored;
	// Send only records their references.
	Send(ctx context.Context, conversationId string, senderId entity.UserID, content string, attachments []string) (entity.Message, error)

	// VerifyParticipant reports whether userId may operate on the
	// conversation. Callers with side effects of their own (attachment
	// storage) must check before producing them.
	VerifyParticipant(ctx context.Context, conversationId string, userId entity.UserID) error

	// SetNotifier wires the push channel. Optional; without one, operations
	// behave identically minus the push.
	SetNotifier(n Notifier)
}

type messageUsecase struct {
	messageRepo      repository.MessageRepository
	conversationRepo repository.ConversationRepository
	notifier         Notifier
}

func NewMessageUsecase(messageRepo repository.MessageRepository, conversationRepo repository.ConversationRepository) MessageUsecase {
	return &messageUsecase{
		messageRepo:      messageRepo,
		conversationRepo: conversationRepo,
	}
}

func (m *messageUsecase) SetNotifier(n Notifier) {
	m.notifier = n
}

func (m *messageUsecase) VerifyParticipant(ctx context.Context, conversationId string, userId entity.UserID) error {
	conversation, err := m.conversationRepo.Get(ctx, conversationId)
	if err != nil {
		return err
	}
	if !conversation.Participants.Contains(userId) {
		return ErrNotParticipant
	}
	return nil
}

func (m *messageUsecase) GetMessages(ctx context.Context, conversationId string, requesterId entity.UserID) ([]entity.Message, error) {
	conversation, err := m.conversationRepo.Get(ctx, conversationId)
	if err != nil {
		return nil, err
	}
	if !conversation.Participants.Contains(requesterId) {
		return nil, ErrNotParticipant
	}

	messages, err := m.messageRepo.GetByConversationId(ctx, conversationId)
	if err != nil {
		return nil, err
	}

	flipped, err := m.messageRepo.MarkRead(ctx, conversationId, requesterId)
	if err != nil {
		return nil, err
	}

	if err := m.conversationRepo.ResetUnread(ctx, conversationId, requesterId); err != nil {
		return nil, err
	}

	// Reflect the acknowledgment in the returned slice without re-reading.
	for i := range messages {
		if messages[i].ReceiverId == requesterId {
			messages[i].IsRead = true
		}
	}

	if flipped > 0 && m.notifier != nil {
		m.notifier.NotifyMessagesRead(conversationId, requesterId, conversation.Participants.Other(requesterId))
	}

	return messages, nil
}

func (m *messageUsecase) Send(ctx context.Context, conversationId string, senderId entity.UserID, content string, attachments []string) (entity.Message, error) {
	if content == "" && len(attachments) == 0 {
		return entity.Message{}, ErrEmptyMessage
	}

	conversation, err := m.conversationRepo.Get(ctx, conversationId)
	if err != nil {
		return entity.Message{}, err
	}
	if !conversation.Participants.Contains(senderId) {
		return entity.Message{}, ErrNotParticipant
	}

	message := entity.Message{
		ConversationId: conversationId,
		SenderId:       senderId,
		ReceiverId:     conversation.Participants.Other(senderId),
		Content:        content,
		Attachments:    attachments,
		IsRead:         false,
	}

	message, err = m.messageRepo.Create(ctx, message)
	if err != nil {
		return entity.Message{}, err
	}

	// A failed counter update after a successful insert is reported but the
	// message stands; reconciliation is the caller's concern.
	err = m.conversationRepo.RecordMessage(ctx, conversationId, message.ReceiverId, message.Summary(), message.CreatedAt)
	if err != nil {
		log.Printf("record message on conversation %s: %v", conversationId, err)
		return entity.Message{}, err
	}

	if m.notifier != nil {
		m.notifier.NotifyNewMessage(message)
	}

	return message, nil
}
