package usecase

import (
	"context"
	"errors"
	"log"

	"gigtalk/internal/entity"
	"gigtalk/internal/repository"
)

var (
	ErrSelfConversation  = entity.ErrSelfConversation
	ErrRecipientNotFound = errors.New("recipient not found")
)

type ConversationUsecase interface {
	// Index returns the user's conversations, most recently active first,
	// each annotated with the counterpart's public identity and the unread
	// count seen from the user's side.
	Index(ctx context.Context, userId entity.UserID) ([]entity.AnnotatedConversation, error)

	// FindOrCreate returns the existing conversation for the pair or creates
	// one. Order-independent and idempotent: repeated calls with (A,B) and
	// (B,A) all yield the same record, untouched counters included.
	FindOrCreate(ctx context.Context, userId, recipientId entity.UserID) (entity.Conversation, bool, error)

	// UnreadTotal sums the user's unread counters across all their
	// conversations. Always recomputed from the store.
	UnreadTotal(ctx context.Context, userId entity.UserID) (int, error)
}

type conversationUsecase struct {
	conversationRepo repository.ConversationRepository
	userRepo         repository.UserRepository
}

func NewConversationUsecase(conversationRepo repository.ConversationRepository, userRepo repository.UserRepository) ConversationUsecase {
	return &conversationUsecase{
		conversationRepo: conversationRepo,
		userRepo:         userRepo,
	}
}

func (c *conversationUsecase) Index(ctx context.Context, userId entity.UserID) ([]entity.AnnotatedConversation, error) {
	conversations, err := c.conversationRepo.Index(ctx, userId)
	if err != nil {
		return nil, err
	}

	// Bulk-fetch the counterpart of every conversation in one query.
	userIdSet := make(map[entity.UserID]bool)
	for _, conversation := range conversations {
		other := conversation.Participants.Other(userId)
		if other != "" {
			userIdSet[other] = true
		}
	}

	var userIds []entity.UserID
	for uid := range userIdSet {
		userIds = append(userIds, uid)
	}

	// A user lookup failure degrades the listing, it does not fail it: the
	// affected conversations come back with a nil counterpart.
	userMap := make(map[entity.UserID]entity.User)
	if len(userIds) > 0 {
		users, err := c.userRepo.Index(ctx, entity.UserIndexFilter{Ids: userIds})
		if err != nil {
			log.Printf("Index users error: %v", err)
		}
		for _, user := range users {
			userMap[user.Id] = user
		}
	}

	annotated := make([]entity.AnnotatedConversation, 0, len(conversations))
	for _, conversation := range conversations {
		item := entity.AnnotatedConversation{
			Conversation: conversation,
			UnreadCount:  conversation.UnreadCounts.For(userId),
		}

		if other, found := userMap[conversation.Participants.Other(userId)]; found {
			publicUser := other.Public()
			item.OtherUser = &publicUser
		}

		annotated = append(annotated, item)
	}

	return annotated, nil
}

func (c *conversationUsecase) FindOrCreate(ctx context.Context, userId, recipientId entity.UserID) (entity.Conversation, bool, error) {
	participants, err := entity.NewParticipants(userId, recipientId)
	if err != nil {
		return entity.Conversation{}, false, err
	}

	_, err = c.userRepo.Get(ctx, recipientId)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return entity.Conversation{}, false, ErrRecipientNotFound
		}
		return entity.Conversation{}, false, err
	}

	return c.conversationRepo.FindOrCreate(ctx, participants)
}

func (c *conversationUsecase) UnreadTotal(ctx context.Context, userId entity.UserID) (int, error) {
	conversations, err := c.conversationRepo.Index(ctx, userId)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, conversation := range conversations {
		total += conversation.UnreadCounts.For(userId)
	}

	return total, nil
}
