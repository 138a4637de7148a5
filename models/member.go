package models

import (
	"slices"

	"daosim/utils"
)

// Member is a User inside a specific guild, carrying that guild's roles.
type Member struct {
	*User
	Guild *Guild
	Roles []*Role
}

func NewMember(user *User, guild *Guild, roles ...*Role) *Member {
	utils.AssertInvariant(user != nil, "member user cannot be nil")

	member := &Member{User: user, Guild: guild}
	member.AddRoles(roles...)
	return member
}

// AddRoles grants roles, skipping ones the member already holds.
// Every role must belong to the member's guild.
func (m *Member) AddRoles(roles ...*Role) {
	for _, role := range roles {
		utils.AssertInvariant(role != nil, "role cannot be nil")
		if m.Guild != nil {
			utils.AssertInvariant(m.Guild.HasRole(role), "role "+role.Name+" does not belong to guild "+m.Guild.Name)
		}
		if slices.Contains(m.Roles, role) {
			continue
		}
		m.Roles = append(m.Roles, role)
	}
}

func (m *Member) RemoveRoles(roles ...*Role) {
	m.Roles = slices.DeleteFunc(m.Roles, func(held *Role) bool {
		return slices.Contains(roles, held)
	})
}

func (m *Member) HasRole(name string) bool {
	return slices.ContainsFunc(m.Roles, func(role *Role) bool {
		return role.Name == name
	})
}

func (m *Member) HasAnyRole(names ...string) bool {
	return slices.ContainsFunc(names, m.HasRole)
}

func (m *Member) RoleNames() []string {
	names := make([]string, 0, len(m.Roles))
	for _, role := range m.Roles {
		names = append(names, role.Name)
	}
	return names
}
