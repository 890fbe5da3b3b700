package entity

import (
	"errors"
	"time"
)

var ErrSelfConversation = errors.New("cannot start a conversation with yourself")

// UserID identifies a marketplace user. The auth service owns the format;
// this service only compares and keys on it.
type UserID string

func (id UserID) String() string { return string(id) }

// Participants are the two distinct users of a conversation, kept in sorted
// order so that the pair (A,B) and (B,A) map to the same record.
type Participants []UserID

func NewParticipants(a, b UserID) (Participants, error) {
	if a == b {
		return nil, ErrSelfConversation
	}
	if b < a {
		a, b = b, a
	}
	return Participants{a, b}, nil
}

func (p Participants) Contains(id UserID) bool {
	for _, member := range p {
		if member == id {
			return true
		}
	}
	return false
}

// Other returns the counterpart of id. The caller must have verified
// membership first; for a non-participant it returns the empty id.
func (p Participants) Other(id UserID) UserID {
	for _, member := range p {
		if member != id {
			return member
		}
	}
	return ""
}

// Key is the canonical pair key the storage layer puts a unique index on.
func (p Participants) Key() string {
	return string(p[0]) + ":" + string(p[1])
}

// UnreadCounts maps a participant to the number of messages addressed to them
// that they have not yet read. An absent key means zero.
type UnreadCounts map[UserID]int

func (u UnreadCounts) For(id UserID) int {
	if u == nil {
		return 0
	}
	return u[id]
}

type Conversation struct {
	Id              string       `bson:"_id" json:"id"`
	Participants    Participants `bson:"participants" json:"participants"`
	ParticipantsKey string       `bson:"participantsKey" json:"-"`
	LastMessage     string       `bson:"lastMessage" json:"lastMessage"`
	LastMessageDate time.Time    `bson:"lastMessageDate" json:"lastMessageDate"`
	UnreadCounts    UnreadCounts `bson:"unreadCount" json:"-"`
	CreatedAt       time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time    `bson:"updatedAt" json:"updatedAt"`
}

// AnnotatedConversation is the listing projection for one requesting user:
// the counterpart's public identity and the unread count seen from their side.
type AnnotatedConversation struct {
	Conversation
	OtherUser   *PublicUser `json:"otherUser"`
	UnreadCount int         `json:"unreadCount"`
}
