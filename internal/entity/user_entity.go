package entity

import "time"

type User struct {
	Id        UserID    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Avatar    string    `bson:"avatar,omitempty" json:"avatar,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PublicUser is the identity shared with the other side of a conversation.
type PublicUser struct {
	Id     UserID `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		Id:     u.Id,
		Name:   u.Name,
		Avatar: u.Avatar,
	}
}

type UserIndexFilter struct {
	Ids []UserID `bson:"ids"`
}
