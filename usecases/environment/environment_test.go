package environment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"daosim/clients/discord"
	"daosim/core"
	"daosim/models"
)

func newGovernanceEnv(t *testing.T) *Environment {
	t.Helper()

	env := New()
	env.AddRole("Admin", 3)
	env.AddRole("dao-team-representative", 2)
	env.AddRole("dao-participant", 1)
	env.AddChannel("general")
	env.AddChannel("coordination", InCategory("DAO"), RestrictedTo("dao-team-representative"))
	env.AddForumChannel("referendas",
		InCategory("DAO"),
		WithTags(models.NewForumTag(101, "MediumSpender"), models.NewForumTag(104, "SmallSpender")))
	env.AddForumChannel("restricted-forum", RestrictedTo("dao-team-representative"))
	env.AddUser("admin_user", WithRoles("Admin"))
	env.AddUser("dao_rep1", WithRoles("dao-team-representative"))
	env.AddUser("participant1", WithRoles("dao-participant"))
	return env
}

func TestNew(t *testing.T) {
	env := New()

	assert.Equal(t, int64(1), env.Guild.ID)
	assert.Equal(t, "Test Server", env.Guild.Name)
	assert.Same(t, env.Guild, env.Bot.GetGuild(1).MustGet())

	custom := New(WithGuild(7, "Other"))
	assert.Equal(t, "Other", custom.Guild.Name)
}

func TestEnvironmentIDs(t *testing.T) {
	env := newGovernanceEnv(t)

	assert.Equal(t, int64(11), env.Role("Admin").MustGet().ID)
	assert.Equal(t, int64(13), env.Role("dao-participant").MustGet().ID)
	assert.Equal(t, int64(101), env.Channel("general").MustGet().ID)
	assert.Equal(t, int64(102), env.Channel("coordination").MustGet().ID)
	assert.Equal(t, int64(201), env.ForumChannel("referendas").MustGet().ID)
	assert.Equal(t, int64(202), env.ForumChannel("restricted-forum").MustGet().ID)
	assert.Equal(t, int64(301), env.User("admin_user").MustGet().ID)
	assert.Equal(t, int64(303), env.User("participant1").MustGet().ID)

	explicit := env.AddChannel("explicit", WithChannelID(555))
	assert.Equal(t, int64(555), explicit.ID)
	assert.Equal(t, int64(104), env.AddChannel("after-explicit").ID)

	assert.Equal(t, int64(999), env.AddUser("fixed", WithUserID(999)).ID)

	explicitRole := env.AddRole("council", 4, WithRoleID(500))
	assert.Equal(t, int64(500), explicitRole.ID)
	assert.Same(t, explicitRole, env.Role("council").MustGet())
	assert.Equal(t, int64(15), env.AddRole("after-explicit", 0).ID)
}

func TestEnvironmentReAddRole(t *testing.T) {
	env := newGovernanceEnv(t)
	original := env.Role("dao-team-representative").MustGet()
	rep := env.User("dao_rep1").MustGet()

	replacement := env.AddRole("dao-team-representative", 2)

	assert.Equal(t, int64(14), replacement.ID)
	assert.Same(t, replacement, env.Role("dao-team-representative").MustGet())
	assert.True(t, env.Guild.HasRole(original), "members holding the earlier role stay valid")
	assert.True(t, env.Guild.HasRole(replacement))
	assert.Equal(t, []string{"Admin", "dao-team-representative", "dao-participant"}, env.RoleNames())

	assert.NotPanics(t, func() { rep.AddRoles(original, replacement) })
	assert.NotPanics(t, func() {
		env.AddUser("dao_rep2", WithRoles("dao-team-representative"))
	})
	assert.Same(t, replacement, env.User("dao_rep2").MustGet().Roles[0])
}

func TestEnvironmentNamesAndLookups(t *testing.T) {
	env := newGovernanceEnv(t)

	assert.Equal(t, []string{"Admin", "dao-team-representative", "dao-participant"}, env.RoleNames())
	assert.Equal(t, []string{"general", "coordination"}, env.ChannelNames())
	assert.Equal(t, []string{"referendas", "restricted-forum"}, env.ForumChannelNames())
	assert.Equal(t, []string{"admin_user", "dao_rep1", "participant1"}, env.UserNames())

	assert.False(t, env.Role("missing").IsPresent())
	assert.False(t, env.Channel("referendas").IsPresent(), "forums are not text channels")
	assert.False(t, env.User("missing").IsPresent())
}

func TestEnvironmentRoleFiltering(t *testing.T) {
	env := newGovernanceEnv(t)

	member := env.AddUser("mixed", WithRoles("Admin", "no-such-role"))
	assert.Equal(t, []string{"Admin"}, member.RoleNames())

	channel := env.AddChannel("odd", RestrictedTo("no-such-role"))
	assert.False(t, channel.IsRestricted())

	coordination := env.Channel("coordination").MustGet()
	assert.True(t, coordination.IsRestricted())
	assert.Equal(t, []string{"dao-team-representative"}, coordination.AllowedRoleNames())
	assert.Equal(t, "DAO", coordination.Category)
}

func TestEnvironmentLenientOverwrite(t *testing.T) {
	env := newGovernanceEnv(t)
	first := env.Channel("general").MustGet()

	second := env.AddChannel("general")

	assert.NotSame(t, first, second)
	assert.Same(t, second, env.Channel("general").MustGet())
	assert.Equal(t, []string{"general", "coordination"}, env.ChannelNames())
}

func TestCreateForumPost(t *testing.T) {
	env := newGovernanceEnv(t)

	t.Run("creates post with known tags", func(t *testing.T) {
		thread, err := env.CreateForumPost("123: Spend", "details", "referendas", "dao_rep1", "MediumSpender", "Bogus")

		require.NoError(t, err)
		assert.Equal(t, env.ForumChannel("referendas").MustGet().ID, thread.ParentID())
		require.Len(t, thread.AppliedTags, 1)
		assert.Equal(t, "MediumSpender", thread.AppliedTags[0].Name)
		require.Len(t, thread.Messages(), 1)
		assert.Equal(t, "dao_rep1", thread.Messages()[0].Author.Name)
	})

	tests := []struct {
		name         string
		forum        string
		author       string
		isNotFound   bool
		isPermission bool
	}{
		{"unknown forum", "nope", "dao_rep1", true, false},
		{"text channel is not a forum", "coordination", "dao_rep1", true, false},
		{"forum checked before author", "nope", "ghost", true, false},
		{"unknown author", "referendas", "ghost", true, false},
		{"restricted forum refuses participant", "restricted-forum", "participant1", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.CreateForumPost("x", "y", tt.forum, tt.author)

			require.Error(t, err)
			assert.Equal(t, tt.isNotFound, core.IsNotFoundError(err))
			assert.Equal(t, tt.isPermission, core.IsPermissionError(err))
		})
	}

	t.Run("restricted forum allows role holder", func(t *testing.T) {
		_, err := env.CreateForumPost("x", "y", "restricted-forum", "dao_rep1")
		assert.NoError(t, err)
	})
}

func TestThreadMessages(t *testing.T) {
	env := newGovernanceEnv(t)
	thread, err := env.CreateForumPost("123: Spend", "details", "referendas", "dao_rep1")
	require.NoError(t, err)

	msg, err := env.AddMessageToThread(thread, "I agree", "participant1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), msg.ID)
	assert.Equal(t, "participant1", msg.Author.Name)

	msg, err = env.AddMessageToForumThread(thread.ID, "referendas", "Me too", "admin_user")
	require.NoError(t, err)
	assert.Equal(t, int64(3), msg.ID)

	_, err = env.AddMessageToForumThread(9999, "referendas", "?", "admin_user")
	assert.True(t, core.IsNotFoundError(err))
	_, err = env.AddMessageToThread(thread, "?", "ghost")
	assert.True(t, core.IsNotFoundError(err))

	threads, err := env.GetChannelThreads("referendas")
	require.NoError(t, err)
	assert.Equal(t, []*models.Thread{thread}, threads)
	_, err = env.GetChannelThreads("missing")
	assert.True(t, core.IsNotFoundError(err))
}

func TestSimulateMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("fires on_message then processes command", func(t *testing.T) {
		bot := &discord.MockBot{}
		bot.On("AddGuild", mock.Anything).Return()
		var calls []string
		bot.On("TriggerEvent", mock.Anything, discord.EventMessage, mock.MatchedBy(func(args []any) bool {
			return len(args) == 1
		})).Run(func(mock.Arguments) { calls = append(calls, "event") }).Return(nil)
		bot.On("ProcessCommand", mock.Anything, mock.Anything).Run(func(mock.Arguments) { calls = append(calls, "command") }).Return(nil)

		env := New(WithBot(bot))
		env.AddUser("user1")
		env.AddChannel("general")

		msg, err := env.SimulateMessage(ctx, "general", "!vote yes", "user1")

		require.NoError(t, err)
		assert.Equal(t, "user1", msg.Author.Name)
		assert.Equal(t, []string{"event", "command"}, calls)
		bot.AssertExpectations(t)
	})

	t.Run("dispatches registered prefix command", func(t *testing.T) {
		env := newGovernanceEnv(t)
		var got []string
		env.Bot.AddCommand("vote", func(ctx context.Context, msg *models.Message, args []string) error {
			got = args
			return nil
		})

		_, err := env.SimulateMessage(ctx, "general", "!vote yes", "dao_rep1")

		require.NoError(t, err)
		assert.Equal(t, []string{"yes"}, got)
	})

	t.Run("unknown channel or author", func(t *testing.T) {
		env := newGovernanceEnv(t)

		_, err := env.SimulateMessage(ctx, "nope", "hi", "dao_rep1")
		assert.True(t, core.IsNotFoundError(err))
		_, err = env.SimulateMessage(ctx, "general", "hi", "ghost")
		assert.True(t, core.IsNotFoundError(err))
	})
}

func TestSimulateReaction(t *testing.T) {
	ctx := context.Background()
	env := newGovernanceEnv(t)

	_, err := env.SimulateReaction("👍", -1, "dao_rep1")
	assert.True(t, core.IsNotFoundError(err), "no messages yet")

	first, err := env.SimulateMessage(ctx, "general", "first", "dao_rep1")
	require.NoError(t, err)
	second, err := env.SimulateMessage(ctx, "general", "second", "participant1")
	require.NoError(t, err)

	reacted, err := env.SimulateReaction("👍", -1, "admin_user")
	require.NoError(t, err)
	assert.Same(t, second, reacted)

	reacted, err = env.SimulateReaction("🎉", 0, "admin_user")
	require.NoError(t, err)
	assert.Same(t, first, reacted)
	assert.Equal(t, []string{"🎉"}, first.Reactions)

	_, err = env.SimulateReaction("👍", 5, "admin_user")
	assert.True(t, core.IsNotFoundError(err))
	_, err = env.SimulateReaction("👍", -1, "ghost")
	assert.True(t, core.IsNotFoundError(err))

	assert.Len(t, env.MessageHistory(), 2)
}

func TestGetMessagesInChannel(t *testing.T) {
	ctx := context.Background()
	env := newGovernanceEnv(t)
	for _, content := range []string{"a", "b", "c"} {
		_, err := env.SimulateMessage(ctx, "general", content, "dao_rep1")
		require.NoError(t, err)
	}

	all, err := env.GetMessagesInChannel("general", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	recent, err := env.GetMessagesInChannel("general", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "b", recent[0].Content)

	_, err = env.GetMessagesInChannel("missing", 0)
	assert.True(t, core.IsNotFoundError(err))
}

func TestTriggerReady(t *testing.T) {
	env := New()
	ready := false
	env.Bot.Event(discord.EventReady, func(ctx context.Context, args ...any) error {
		ready = true
		return nil
	})

	require.NoError(t, env.TriggerReady(context.Background()))
	assert.True(t, ready)
}
