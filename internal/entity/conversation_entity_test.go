package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParticipantsCanonicalOrder(t *testing.T) {
	a, err := NewParticipants("u1", "u2")
	require.NoError(t, err)
	b, err := NewParticipants("u2", "u1")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, "u1:u2", a.Key())
}

func TestNewParticipantsRejectsSelf(t *testing.T) {
	_, err := NewParticipants("u1", "u1")
	assert.ErrorIs(t, err, ErrSelfConversation)
}

func TestParticipantsMembership(t *testing.T) {
	p, err := NewParticipants("u1", "u2")
	require.NoError(t, err)

	assert.True(t, p.Contains("u1"))
	assert.True(t, p.Contains("u2"))
	assert.False(t, p.Contains("u3"))

	assert.Equal(t, UserID("u2"), p.Other("u1"))
	assert.Equal(t, UserID("u1"), p.Other("u2"))
	assert.Equal(t, UserID(""), Participants{}.Other("u1"))
}

func TestUnreadCountsZeroDefault(t *testing.T) {
	var nilCounts UnreadCounts
	assert.Equal(t, 0, nilCounts.For("u1"))

	counts := UnreadCounts{"u1": 2}
	assert.Equal(t, 2, counts.For("u1"))
	assert.Equal(t, 0, counts.For("u2"))
}

func TestMessageSummary(t *testing.T) {
	withBody := Message{Content: "hi", Attachments: []string{"/uploads/messages/a.png"}}
	assert.Equal(t, "hi", withBody.Summary())

	attachmentOnly := Message{Attachments: []string{"/uploads/messages/a.png"}}
	assert.Equal(t, AttachmentPlaceholder, attachmentOnly.Summary())
}
