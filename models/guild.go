package models

import (
	"slices"

	"github.com/samber/mo"
)

// Post ids start here so forum threads never collide with text-channel thread ids.
const forumPostIDBase = 1000

// Guild owns the channel, member and role collections. Adding an entity
// whose id or name is already taken replaces the earlier entry in place.
type Guild struct {
	ID       int64
	Name     string
	Channels []*Channel
	Members  []*Member
	Roles    []*Role

	lastPostID int64
}

func NewGuild(id int64, name string) *Guild {
	return &Guild{
		ID:         id,
		Name:       name,
		lastPostID: forumPostIDBase - 1,
	}
}

func (g *Guild) nextPostID() int64 {
	g.lastPostID++
	return g.lastPostID
}

func upsert[T any](items []T, item T, same func(T) bool) []T {
	if idx := slices.IndexFunc(items, same); idx >= 0 {
		items[idx] = item
		return items
	}
	return append(items, item)
}

func find[T any](items []T, match func(T) bool) mo.Option[T] {
	if idx := slices.IndexFunc(items, match); idx >= 0 {
		return mo.Some(items[idx])
	}
	return mo.None[T]()
}

func (g *Guild) AddChannel(channel *Channel) *Channel {
	channel.Guild = g
	g.Channels = upsert(g.Channels, channel, func(c *Channel) bool {
		return c.ID == channel.ID || c.Name == channel.Name
	})
	return channel
}

func (g *Guild) AddForumChannel(forum *ForumChannel) *ForumChannel {
	g.AddChannel(forum.Channel)
	return forum
}

func (g *Guild) AddMember(member *Member) *Member {
	member.Guild = g
	g.Members = upsert(g.Members, member, func(m *Member) bool {
		return m.ID == member.ID || m.Name == member.Name
	})
	return member
}

// AddRole replaces a role with the same id and appends otherwise. Names may
// repeat, so members holding an earlier role of the same name stay valid.
func (g *Guild) AddRole(role *Role) *Role {
	g.Roles = upsert(g.Roles, role, func(r *Role) bool {
		return r.ID == role.ID
	})
	return role
}

func (g *Guild) GetChannel(id int64) mo.Option[*Channel] {
	return find(g.Channels, func(c *Channel) bool { return c.ID == id })
}

func (g *Guild) ChannelByName(name string) mo.Option[*Channel] {
	return find(g.Channels, func(c *Channel) bool { return c.Name == name })
}

func (g *Guild) GetForumChannel(id int64) mo.Option[*ForumChannel] {
	channel, ok := g.GetChannel(id).Get()
	if !ok {
		return mo.None[*ForumChannel]()
	}
	return channel.Forum()
}

func (g *Guild) Forums() []*ForumChannel {
	var forums []*ForumChannel
	for _, channel := range g.Channels {
		if forum, ok := channel.Forum().Get(); ok {
			forums = append(forums, forum)
		}
	}
	return forums
}

func (g *Guild) GetMember(id int64) mo.Option[*Member] {
	return find(g.Members, func(m *Member) bool { return m.ID == id })
}

func (g *Guild) MemberByName(name string) mo.Option[*Member] {
	return find(g.Members, func(m *Member) bool { return m.Name == name })
}

func (g *Guild) GetRole(id int64) mo.Option[*Role] {
	return find(g.Roles, func(r *Role) bool { return r.ID == id })
}

func (g *Guild) RoleByName(name string) mo.Option[*Role] {
	return find(g.Roles, func(r *Role) bool { return r.Name == name })
}

// HasRole reports whether role is one of this guild's roles (by identity).
func (g *Guild) HasRole(role *Role) bool {
	return slices.Contains(g.Roles, role)
}
