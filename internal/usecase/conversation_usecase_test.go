package usecase_test

import (
	"context"
	"errors"
	"testing"

	"gigtalk/internal/entity"
	"gigtalk/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConversationFixture() (usecase.ConversationUsecase, *fakeConversationRepo, *fakeUserRepo) {
	convRepo := newFakeConversationRepo()
	userRepo := newFakeUserRepo(
		entity.User{Id: "u1", Name: "Ana", Avatar: "/avatars/ana.png"},
		entity.User{Id: "u2", Name: "Ben"},
	)
	return usecase.NewConversationUsecase(convRepo, userRepo), convRepo, userRepo
}

func TestFindOrCreateIsIdempotentAndOrderIndependent(t *testing.T) {
	uc, _, _ := newConversationFixture()
	ctx := context.Background()

	first, created, err := uc.FindOrCreate(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "", first.LastMessage)
	assert.Equal(t, 0, first.UnreadCounts.For("u1"))
	assert.Equal(t, 0, first.UnreadCounts.For("u2"))

	second, created, err := uc.FindOrCreate(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.Id, second.Id)

	// Reversed pair hits the same record.
	reversed, created, err := uc.FindOrCreate(ctx, "u2", "u1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.Id, reversed.Id)
}

func TestFindOrCreateRejectsSelfConversation(t *testing.T) {
	uc, convRepo, _ := newConversationFixture()

	_, _, err := uc.FindOrCreate(context.Background(), "u1", "u1")
	assert.ErrorIs(t, err, usecase.ErrSelfConversation)
	assert.Empty(t, convRepo.conversations)
}

func TestFindOrCreateRejectsUnknownRecipient(t *testing.T) {
	uc, convRepo, _ := newConversationFixture()

	_, _, err := uc.FindOrCreate(context.Background(), "u1", "ghost")
	assert.ErrorIs(t, err, usecase.ErrRecipientNotFound)
	assert.Empty(t, convRepo.conversations)
}

func TestIndexAnnotatesCounterpartAndUnread(t *testing.T) {
	uc, convRepo, _ := newConversationFixture()
	ctx := context.Background()

	conv, _, err := uc.FindOrCreate(ctx, "u1", "u2")
	require.NoError(t, err)
	require.NoError(t, convRepo.RecordMessage(ctx, conv.Id, "u1", "hello", conv.CreatedAt))

	listed, err := uc.Index(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.NotNil(t, listed[0].OtherUser)
	assert.Equal(t, entity.UserID("u2"), listed[0].OtherUser.Id)
	assert.Equal(t, "Ben", listed[0].OtherUser.Name)
	assert.Equal(t, 1, listed[0].UnreadCount)

	// The same conversation projected for the other side.
	listed, err = uc.Index(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, entity.UserID("u1"), listed[0].OtherUser.Id)
	assert.Equal(t, "/avatars/ana.png", listed[0].OtherUser.Avatar)
	assert.Equal(t, 0, listed[0].UnreadCount)
}

func TestIndexToleratesMissingCounterpart(t *testing.T) {
	convRepo := newFakeConversationRepo()
	userRepo := newFakeUserRepo(entity.User{Id: "u1", Name: "Ana"})
	uc := usecase.NewConversationUsecase(convRepo, userRepo)
	ctx := context.Background()

	participants, err := entity.NewParticipants("u1", "deleted-user")
	require.NoError(t, err)
	_, _, err = convRepo.FindOrCreate(ctx, participants)
	require.NoError(t, err)

	listed, err := uc.Index(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Nil(t, listed[0].OtherUser)
}

func TestIndexSurvivesUserLookupFailure(t *testing.T) {
	uc, convRepo, userRepo := newConversationFixture()
	ctx := context.Background()

	conv, _, err := uc.FindOrCreate(ctx, "u1", "u2")
	require.NoError(t, err)
	require.NoError(t, convRepo.RecordMessage(ctx, conv.Id, "u1", "hello", conv.CreatedAt))

	// A failing user lookup degrades the annotation, not the listing.
	userRepo.indexErr = errors.New("user store unavailable")

	listed, err := uc.Index(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Nil(t, listed[0].OtherUser)
	assert.Equal(t, 1, listed[0].UnreadCount)
}

func TestIndexEmptyForUserWithoutConversations(t *testing.T) {
	uc, _, _ := newConversationFixture()

	listed, err := uc.Index(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestUnreadTotalSumsAcrossConversations(t *testing.T) {
	convRepo := newFakeConversationRepo()
	userRepo := newFakeUserRepo(
		entity.User{Id: "u1", Name: "Ana"},
		entity.User{Id: "u2", Name: "Ben"},
		entity.User{Id: "u3", Name: "Cleo"},
	)
	uc := usecase.NewConversationUsecase(convRepo, userRepo)
	ctx := context.Background()

	convA, _, err := uc.FindOrCreate(ctx, "u1", "u2")
	require.NoError(t, err)
	convB, _, err := uc.FindOrCreate(ctx, "u1", "u3")
	require.NoError(t, err)

	require.NoError(t, convRepo.RecordMessage(ctx, convA.Id, "u1", "hi", convA.CreatedAt))
	require.NoError(t, convRepo.RecordMessage(ctx, convA.Id, "u1", "again", convA.CreatedAt))
	require.NoError(t, convRepo.RecordMessage(ctx, convB.Id, "u1", "yo", convB.CreatedAt))

	total, err := uc.UnreadTotal(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	total, err = uc.UnreadTotal(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}
