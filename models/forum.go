package models

import (
	"slices"

	"daosim/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/mo"
)

// ForumAccess lists the role names allowed to read, write and vote in a
// forum. An empty list allows everyone.
type ForumAccess struct {
	Read  []string
	Write []string
	Vote  []string
}

func (a ForumAccess) CanRead(member *Member) bool {
	return allowedBy(a.Read, member)
}

func (a ForumAccess) CanWrite(member *Member) bool {
	return allowedBy(a.Write, member)
}

func (a ForumAccess) CanVote(member *Member) bool {
	return allowedBy(a.Vote, member)
}

func allowedBy(roleNames []string, member *Member) bool {
	if len(roleNames) == 0 {
		return true
	}
	return member != nil && member.HasAnyRole(roleNames...)
}

type ForumChannel struct {
	*Channel
	AvailableTags []*ForumTag
	Access        ForumAccess

	posts map[int64]*Thread
}

func NewForumChannel(id int64, name string, guild *Guild, tags ...*ForumTag) *ForumChannel {
	utils.AssertInvariant(guild != nil, "forum channel requires a guild")

	channel := NewTextChannel(id, name, guild)
	channel.Type = discordgo.ChannelTypeGuildForum
	forum := &ForumChannel{
		Channel:       channel,
		AvailableTags: tags,
		posts:         make(map[int64]*Thread),
	}
	channel.forum = forum
	return forum
}

// CreatePost opens a new thread with the author's opening message (id 1) and the given tags applied.
func (f *ForumChannel) CreatePost(title, content string, author *Member, tags []*ForumTag) *Thread {
	utils.AssertInvariant(author != nil, "forum post author cannot be nil")

	thread := f.CreateThread(title, author.User)
	thread.Send(content, WithMember(author))
	thread.AppliedTags = slices.Clone(tags)
	return thread
}

// CreateThread allocates from the guild-wide post id space so thread ids stay unique across forums.
func (f *ForumChannel) CreateThread(name string, owner *User) *Thread {
	thread := newThread(f.Guild.nextPostID(), name, f.Channel, owner)
	f.posts[thread.ID] = thread
	f.Threads = append(f.Threads, thread)
	return thread
}

func (f *ForumChannel) GetThread(id int64) mo.Option[*Thread] {
	thread, ok := f.posts[id]
	if !ok {
		return mo.None[*Thread]()
	}
	return mo.Some(thread)
}

func (f *ForumChannel) ActiveThreads() []*Thread {
	return slices.DeleteFunc(slices.Clone(f.Threads), func(t *Thread) bool { return t.Archived })
}

func (f *ForumChannel) ArchivedThreads() []*Thread {
	return slices.DeleteFunc(slices.Clone(f.Threads), func(t *Thread) bool { return !t.Archived })
}

func (f *ForumChannel) FindTag(key TagKey) mo.Option[*ForumTag] {
	return FindTag(f.AvailableTags, key)
}
