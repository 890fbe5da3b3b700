package repository

import (
	"context"
	"errors"
	"time"

	"gigtalk/internal/entity"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrConversationNotFound = errors.New("conversation not found")

type ConversationRepository interface {
	Index(ctx context.Context, userId entity.UserID) ([]entity.Conversation, error)
	Get(ctx context.Context, conversationId string) (entity.Conversation, error)

	// FindOrCreate returns the conversation for the participant pair,
	// inserting it if absent. The second return reports whether this call
	// created the record. Concurrent calls with the same pair converge on
	// one document via an upsert against the unique pair key.
	FindOrCreate(ctx context.Context, participants entity.Participants) (entity.Conversation, bool, error)

	// RecordMessage applies the send-side conversation update in one atomic
	// document update: last-message summary and a counter increment for the
	// recipient.
	RecordMessage(ctx context.Context, conversationId string, recipient entity.UserID, summary string, at time.Time) error

	// ResetUnread zeroes the reader's counter.
	ResetUnread(ctx context.Context, conversationId string, reader entity.UserID) error
}

type conversationRepository struct {
	db mongo.Database
}

func NewConversationRepository(db mongo.Database) ConversationRepository {
	return &conversationRepository{
		db: db,
	}
}

// Index returns all conversations a user participates in, most recent first.
func (r *conversationRepository) Index(ctx context.Context, userId entity.UserID) ([]entity.Conversation, error) {
	collection := r.db.Collection("conversations")
	filter := bson.M{"participants": userId}

	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var conversations []entity.Conversation
	err = cursor.All(ctx, &conversations)
	if err != nil {
		return nil, err
	}

	return conversations, nil
}

// Get returns a conversation by ID.
func (r *conversationRepository) Get(ctx context.Context, conversationId string) (entity.Conversation, error) {
	collection := r.db.Collection("conversations")
	filter := bson.M{"_id": conversationId}

	var conversation entity.Conversation
	err := collection.FindOne(ctx, filter).Decode(&conversation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return entity.Conversation{}, ErrConversationNotFound
		}
		return entity.Conversation{}, err
	}

	return conversation, nil
}

func (r *conversationRepository) FindOrCreate(ctx context.Context, participants entity.Participants) (entity.Conversation, bool, error) {
	collection := r.db.Collection("conversations")
	now := time.Now()
	candidateId := uuid.New().String()

	filter := bson.M{"participantsKey": participants.Key()}
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":             candidateId,
			"participants":    participants,
			"participantsKey": participants.Key(),
			"lastMessage":     "",
			"lastMessageDate": now,
			"unreadCount":     bson.M{},
			"createdAt":       now,
			"updatedAt":       now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var conversation entity.Conversation
	err := collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&conversation)
	if err != nil {
		return entity.Conversation{}, false, err
	}

	return conversation, conversation.Id == candidateId, nil
}

func (r *conversationRepository) RecordMessage(ctx context.Context, conversationId string, recipient entity.UserID, summary string, at time.Time) error {
	collection := r.db.Collection("conversations")
	filter := bson.M{"_id": conversationId}

	update := bson.M{
		"$set": bson.M{
			"lastMessage":     summary,
			"lastMessageDate": at,
			"updatedAt":       at,
		},
		"$inc": bson.M{
			"unreadCount." + recipient.String(): 1,
		},
	}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrConversationNotFound
	}

	return nil
}

func (r *conversationRepository) ResetUnread(ctx context.Context, conversationId string, reader entity.UserID) error {
	collection := r.db.Collection("conversations")
	filter := bson.M{"_id": conversationId}

	update := bson.M{
		"$set": bson.M{
			"unreadCount." + reader.String(): 0,
			"updatedAt":                      time.Now(),
		},
	}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrConversationNotFound
	}

	return nil
}
