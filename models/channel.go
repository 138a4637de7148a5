package models

import (
	"fmt"
	"slices"
	"time"

	"daosim/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/mo"
)

type Channel struct {
	messageLog
	ID       int64
	Name     string
	Type     discordgo.ChannelType
	Guild    *Guild
	Category string
	// RestrictedTo limits access to members holding any of these roles. Empty means open.
	RestrictedTo []*Role
	Threads      []*Thread

	lastThreadID int64
	forum        *ForumChannel
}

func NewTextChannel(id int64, name string, guild *Guild) *Channel {
	return &Channel{
		ID:    id,
		Name:  name,
		Type:  discordgo.ChannelTypeGuildText,
		Guild: guild,
	}
}

func (c *Channel) GetID() int64 {
	return c.ID
}

func (c *Channel) GetName() string {
	return c.Name
}

func (c *Channel) GetGuild() *Guild {
	return c.Guild
}

func (c *Channel) Mention() string {
	return fmt.Sprintf("<#%d>", c.ID)
}

// Send posts a message. Without an author option the synthesized bot user is the author.
func (c *Channel) Send(content string, opts ...SendOption) *Message {
	return c.post(c, content, opts)
}

func (c *Channel) IsRestricted() bool {
	return len(c.RestrictedTo) > 0
}

func (c *Channel) AllowedRoleNames() []string {
	names := make([]string, 0, len(c.RestrictedTo))
	for _, role := range c.RestrictedTo {
		names = append(names, role.Name)
	}
	return names
}

// CanAccess reports whether member may post here.
func (c *Channel) CanAccess(member *Member) bool {
	if !c.IsRestricted() {
		return true
	}
	if member == nil {
		return false
	}
	return member.HasAnyRole(c.AllowedRoleNames()...)
}

// IsForum reports whether this channel backs a ForumChannel.
func (c *Channel) IsForum() bool {
	return c.forum != nil
}

func (c *Channel) Forum() mo.Option[*ForumChannel] {
	if c.forum == nil {
		return mo.None[*ForumChannel]()
	}
	return mo.Some(c.forum)
}

// CreateThread opens a thread under this channel. Text channels number
// threads 1, 2, ...; forum channels use the guild-wide post id space.
func (c *Channel) CreateThread(name string, owner *User) *Thread {
	if c.forum != nil {
		return c.forum.CreateThread(name, owner)
	}
	c.lastThreadID++
	thread := newThread(c.lastThreadID, name, c, owner)
	c.Threads = append(c.Threads, thread)
	return thread
}

// ThreadByName returns the first thread with the given name.
func (c *Channel) ThreadByName(name string) mo.Option[*Thread] {
	idx := slices.IndexFunc(c.Threads, func(t *Thread) bool { return t.Name == name })
	if idx < 0 {
		return mo.None[*Thread]()
	}
	return mo.Some(c.Threads[idx])
}

type Thread struct {
	messageLog
	ID          int64
	Name        string
	Type        discordgo.ChannelType
	Parent      *Channel
	Owner       *User
	Guild       *Guild
	AppliedTags []*ForumTag
	CreatedAt   time.Time
	Archived    bool
	Locked      bool
}

func newThread(id int64, name string, parent *Channel, owner *User) *Thread {
	utils.AssertInvariant(parent != nil, "thread parent cannot be nil")

	return &Thread{
		ID:        id,
		Name:      name,
		Type:      discordgo.ChannelTypeGuildPublicThread,
		Parent:    parent,
		Owner:     owner,
		Guild:     parent.Guild,
		CreatedAt: time.Now(),
	}
}

// ParentID is derived from Parent so it can never drift from the parent's id.
func (t *Thread) ParentID() int64 {
	return t.Parent.ID
}

func (t *Thread) GetID() int64 {
	return t.ID
}

func (t *Thread) GetName() string {
	return t.Name
}

func (t *Thread) GetGuild() *Guild {
	return t.Guild
}

func (t *Thread) Mention() string {
	return fmt.Sprintf("<#%d>", t.ID)
}

// Send posts a message. Without an author option the synthesized bot user is the author.
func (t *Thread) Send(content string, opts ...SendOption) *Message {
	return t.post(t, content, opts)
}

func (t *Thread) HasTag(name string) bool {
	return FindTag(t.AppliedTags, TagByName(name)).IsPresent()
}
