package usecase_test

import (
	"context"
	"sort"
	"time"

	"gigtalk/internal/entity"
	"gigtalk/internal/repository"

	"github.com/google/uuid"
)

// In-memory stand-ins for the Mongo repositories, honoring the same
// contracts: pair-key dedup on FindOrCreate, single-operation counter
// updates, ascending message order.

type fakeConversationRepo struct {
	conversations map[string]*entity.Conversation
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{conversations: make(map[string]*entity.Conversation)}
}

func (r *fakeConversationRepo) Index(ctx context.Context, userId entity.UserID) ([]entity.Conversation, error) {
	var out []entity.Conversation
	for _, c := range r.conversations {
		if c.Participants.Contains(userId) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (r *fakeConversationRepo) Get(ctx context.Context, conversationId string) (entity.Conversation, error) {
	c, ok := r.conversations[conversationId]
	if !ok {
		return entity.Conversation{}, repository.ErrConversationNotFound
	}
	return *c, nil
}

func (r *fakeConversationRepo) FindOrCreate(ctx context.Context, participants entity.Participants) (entity.Conversation, bool, error) {
	for _, c := range r.conversations {
		if c.ParticipantsKey == participants.Key() {
			return *c, false, nil
		}
	}
	now := time.Now()
	c := &entity.Conversation{
		Id:              uuid.New().String(),
		Participants:    participants,
		ParticipantsKey: participants.Key(),
		LastMessage:     "",
		LastMessageDate: now,
		UnreadCounts:    entity.UnreadCounts{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	r.conversations[c.Id] = c
	return *c, true, nil
}

func (r *fakeConversationRepo) RecordMessage(ctx context.Context, conversationId string, recipient entity.UserID, summary string, at time.Time) error {
	c, ok := r.conversations[conversationId]
	if !ok {
		return repository.ErrConversationNotFound
	}
	c.LastMessage = summary
	c.LastMessageDate = at
	c.UpdatedAt = at
	if c.UnreadCounts == nil {
		c.UnreadCounts = entity.UnreadCounts{}
	}
	c.UnreadCounts[recipient]++
	return nil
}

func (r *fakeConversationRepo) ResetUnread(ctx context.Context, conversationId string, reader entity.UserID) error {
	c, ok := r.conversations[conversationId]
	if !ok {
		return repository.ErrConversationNotFound
	}
	if c.UnreadCounts == nil {
		c.UnreadCounts = entity.UnreadCounts{}
	}
	c.UnreadCounts[reader] = 0
	return nil
}

type fakeMessageRepo struct {
	messages []*entity.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (r *fakeMessageRepo) Create(ctx context.Context, message entity.Message) (entity.Message, error) {
	now := time.Now()
	message.Id = uuid.New().String()
	message.CreatedAt = now
	message.UpdatedAt = now
	if message.Attachments == nil {
		message.Attachments = []string{}
	}
	stored := message
	r.messages = append(r.messages, &stored)
	return message, nil
}

func (r *fakeMessageRepo) GetByConversationId(ctx context.Context, conversationId string) ([]entity.Message, error) {
	var out []entity.Message
	for _, m := range r.messages {
		if m.ConversationId == conversationId {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeMessageRepo) MarkRead(ctx context.Context, conversationId string, reader entity.UserID) (int64, error) {
	var flipped int64
	for _, m := range r.messages {
		if m.ConversationId == conversationId && m.ReceiverId == reader && !m.IsRead {
			m.IsRead = true
			flipped++
		}
	}
	return flipped, nil
}

type fakeUserRepo struct {
	users    map[entity.UserID]entity.User
	indexErr error
}

func newFakeUserRepo(users ...entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[entity.UserID]entity.User)}
	for _, u := range users {
		r.users[u.Id] = u
	}
	return r
}

func (r *fakeUserRepo) Get(ctx context.Context, userId entity.UserID) (entity.User, error) {
	u, ok := r.users[userId]
	if !ok {
		return entity.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) Index(ctx context.Context, filter entity.UserIndexFilter) ([]entity.User, error) {
	if r.indexErr != nil {
		return nil, r.indexErr
	}
	var out []entity.User
	for _, id := range filter.Ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type recordingNotifier struct {
	newMessages []entity.Message
	reads       []string
}

func (n *recordingNotifier) NotifyNewMessage(message entity.Message) {
	n.newMessages = append(n.newMessages, message)
}

func (n *recordingNotifier) NotifyMessagesRead(conversationId string, reader, counterpart entity.UserID) {
	n.reads = append(n.reads, conversationId)
}
