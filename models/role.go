package models

import (
	"fmt"
)

type Role struct {
	ID       int64
	Name     string
	Position int
}

func NewRole(id int64, name string, position int) *Role {
	return &Role{ID: id, Name: name, Position: position}
}

func (r *Role) Mention() string {
	return fmt.Sprintf("<@&%d>", r.ID)
}
