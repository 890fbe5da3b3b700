package repository

import (
	"context"
	"time"

	"gigtalk/internal/entity"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MessageRepository interface {
	Create(ctx context.Context, message entity.Message) (entity.Message, error)
	GetByConversationId(ctx context.Context, conversationId string) ([]entity.Message, error)

	// MarkRead flips every unread message addressed to reader in the
	// conversation to read, returning how many were flipped.
	MarkRead(ctx context.Context, conversationId string, reader entity.UserID) (int64, error)
}

type messageRepository struct {
	db mongo.Database
}

func NewMessageRepository(db mongo.Database) MessageRepository {
	return &messageRepository{
		db: db,
	}
}

func (r *messageRepository) Create(ctx context.Context, message entity.Message) (entity.Message, error) {
	collection := r.db.Collection("messages")
	now := time.Now()
	message.Id = uuid.New().String()
	message.CreatedAt = now
	message.UpdatedAt = now
	if message.Attachments == nil {
		message.Attachments = []string{}
	}

	_, err := collection.InsertOne(ctx, message)
	if err != nil {
		return entity.Message{}, err
	}

	return message, nil
}

// GetByConversationId returns a conversation's messages oldest first.
func (r *messageRepository) GetByConversationId(ctx context.Context, conversationId string) ([]entity.Message, error) {
	collection := r.db.Collection("messages")
	filter := bson.M{"conversationId": conversationId}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var messages []entity.Message
	err = cursor.All(ctx, &messages)
	if err != nil {
		return nil, err
	}

	return messages, nil
}

func (r *messageRepository) MarkRead(ctx context.Context, conversationId string, reader entity.UserID) (int64, error) {
	collection := r.db.Collection("messages")
	filter := bson.M{
		"conversationId": conversationId,
		"receiverId":     reader,
		"isRead":         false,
	}

	update := bson.M{
		"$set": bson.M{
			"isRead":    true,
			"updatedAt": time.Now(),
		},
	}

	result, err := collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}

	return result.ModifiedCount, nil
}
