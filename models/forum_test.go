package models

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referendumTags() []*ForumTag {
	return []*ForumTag{
		NewForumTag(101, "MediumSpender"),
		NewForumTag(102, "BigSpender"),
		NewForumTag(104, "SmallSpender"),
	}
}

func TestForumCreatePost(t *testing.T) {
	guild := newTestGuild()
	rep := guild.AddRole(NewRole(11, "dao-team-representative", 7))
	author := guild.AddMember(NewMember(NewUser(301, "dao_rep1", false), guild, rep))
	forum := guild.AddForumChannel(NewForumChannel(201, "referendas", guild, referendumTags()...))

	tag := forum.FindTag(TagByName("MediumSpender")).MustGet()
	thread := forum.CreatePost("123: Treasury Spend", "Proposal body", author, []*ForumTag{tag})

	assert.Equal(t, int64(1000), thread.ID)
	assert.Equal(t, forum.ID, thread.ParentID())
	assert.Same(t, author.User, thread.Owner)
	assert.Equal(t, []*ForumTag{tag}, thread.AppliedTags)
	assert.True(t, thread.HasTag("MediumSpender"))
	assert.Equal(t, discordgo.ChannelTypeGuildForum, forum.Type)

	messages := thread.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, int64(1), messages[0].ID)
	assert.Equal(t, "Proposal body", messages[0].Content)
	assert.Same(t, author, messages[0].Member)

	assert.Same(t, thread, forum.GetThread(1000).MustGet())
	assert.False(t, forum.GetThread(1).IsPresent())
	assert.Equal(t, []*Thread{thread}, forum.Threads)
}

func TestForumPostIDsUniqueAcrossForums(t *testing.T) {
	guild := newTestGuild()
	author := guild.AddMember(NewMember(NewUser(301, "dao_rep1", false), guild))
	referendas := guild.AddForumChannel(NewForumChannel(201, "referendas", guild))
	public := guild.AddForumChannel(NewForumChannel(202, "public-discussions", guild))

	first := referendas.CreatePost("123: A", "a", author, nil)
	second := public.CreatePost("Ref 123: A", "b", author, nil)
	third := public.Channel.CreateThread("Ref 124: B", author.User)

	assert.Equal(t, int64(1000), first.ID)
	assert.Equal(t, int64(1001), second.ID)
	assert.Equal(t, int64(1002), third.ID)
	assert.Same(t, third, public.GetThread(1002).MustGet())
	assert.Equal(t, public.ID, third.ParentID())
}

func TestForumActiveAndArchivedThreads(t *testing.T) {
	guild := newTestGuild()
	author := guild.AddMember(NewMember(NewUser(301, "dao_rep1", false), guild))
	forum := guild.AddForumChannel(NewForumChannel(201, "referendas", guild))

	open := forum.CreatePost("1: open", "x", author, nil)
	closed := forum.CreatePost("2: closed", "y", author, nil)
	closed.Archived = true

	assert.Equal(t, []*Thread{open}, forum.ActiveThreads())
	assert.Equal(t, []*Thread{closed}, forum.ArchivedThreads())
	assert.Len(t, forum.Threads, 2)
}

func TestFindTag(t *testing.T) {
	tags := referendumTags()

	tests := []struct {
		name  string
		key   TagKey
		want  string
		found bool
	}{
		{"by name", TagByName("BigSpender"), "BigSpender", true},
		{"by id", TagByID(104), "SmallSpender", true},
		{"unknown name", TagByName("Root"), "", false},
		{"unknown id", TagByID(999), "", false},
		{"zero key", TagKey{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindTag(tags, tt.key)
			require.Equal(t, tt.found, got.IsPresent())
			if tt.found {
				assert.Equal(t, tt.want, got.MustGet().Name)
			}
		})
	}

	assert.Equal(t, "id=104", TagByID(104).String())
	assert.Equal(t, "name=Root", TagByName("Root").String())
}

func TestForumAccess(t *testing.T) {
	guild := newTestGuild()
	admin := guild.AddRole(NewRole(11, "Admin", 8))
	participant := guild.AddRole(NewRole(12, "dao-participant", 6))
	adminMember := NewMember(NewUser(301, "admin_user", false), guild, admin)
	participantMember := NewMember(NewUser(302, "participant1", false), guild, participant)

	access := ForumAccess{
		Read:  []string{"Admin", "dao-participant"},
		Write: []string{"Admin"},
	}

	assert.True(t, access.CanRead(participantMember))
	assert.False(t, access.CanWrite(participantMember))
	assert.True(t, access.CanWrite(adminMember))
	assert.True(t, access.CanVote(participantMember), "empty vote list allows everyone")
	assert.False(t, access.CanWrite(nil))
}
