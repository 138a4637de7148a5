package models

import (
	"fmt"
)

// User is a bare chat identity. Guild-scoped data lives on Member.
type User struct {
	ID          int64
	Name        string
	DisplayName string
	Bot         bool
}

func NewUser(id int64, name string, bot bool) *User {
	return &User{
		ID:          id,
		Name:        name,
		DisplayName: name,
		Bot:         bot,
	}
}

// NewBotUser synthesizes the id-0 author used for bot and anonymous posts.
func NewBotUser(name string) *User {
	return NewUser(0, name, true)
}

func (u *User) Mention() string {
	return fmt.Sprintf("<@%d>", u.ID)
}

func (u *User) String() string {
	return u.Name
}
