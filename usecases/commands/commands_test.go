package commands

import (
	"testing"

	"daosim/models"
)

type commandFixture struct {
	guild       *models.Guild
	referendas  *models.ForumChannel
	public      *models.ForumChannel
	general     *models.Channel
	rep         *models.Member
	admin       *models.Member
	participant *models.Member
	cfg         Config
}

func newCommandFixture(t *testing.T) *commandFixture {
	t.Helper()

	guild := models.NewGuild(1, "Test Server")
	adminRole := guild.AddRole(models.NewRole(11, AdminRoleName, 8))
	repRole := guild.AddRole(models.NewRole(12, RepresentativeRoleName, 7))
	participantRole := guild.AddRole(models.NewRole(13, "dao-participant", 6))

	f := &commandFixture{
		guild:       guild,
		general:     guild.AddChannel(models.NewTextChannel(101, "general", guild)),
		referendas:  guild.AddForumChannel(models.NewForumChannel(201, "referendas", guild, models.NewForumTag(101, "MediumSpender"))),
		public:      guild.AddForumChannel(models.NewForumChannel(203, "public-discussions", guild)),
		admin:       guild.AddMember(models.NewMember(models.NewUser(301, "admin_user", false), guild, adminRole)),
		rep:         guild.AddMember(models.NewMember(models.NewUser(302, "dao_rep1", false), guild, repRole)),
		participant: guild.AddMember(models.NewMember(models.NewUser(307, "participant1", false), guild, participantRole)),
	}
	f.cfg = DefaultConfig()
	f.cfg.ForumChannelID = f.referendas.ID
	return f
}

func (f *commandFixture) referendum(title string) *models.Thread {
	return f.referendas.CreatePost(title, "Proposal details", f.rep, nil)
}
