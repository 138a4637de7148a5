package environment

import (
	"context"
	"fmt"

	"daosim/core"
	"daosim/core/log"
	"daosim/fixtures"
	"daosim/models"
	"daosim/usecases/commands"

	"github.com/shopspring/decimal"
)

const (
	botUserName       = "bot_user"
	defaultAuthorName = "dao_rep1"
	defaultTagName    = "SmallSpender"
)

// voterRoles may vote in referendum threads. Only representatives count toward quorum.
var voterRoles = []string{commands.RepresentativeRoleName, commands.AdminRoleName}

// JamDao is an Environment seeded with the JAM DAO governance layout.
type JamDao struct {
	*Environment
	Commands commands.Config
}

func NewJamDao(cfg commands.Config, opts ...Option) *JamDao {
	return &JamDao{
		Environment: New(opts...),
		Commands:    cfg,
	}
}

// Setup seeds the embedded JAM DAO layout.
func (e *JamDao) Setup() error {
	structure, err := fixtures.JamDao()
	if err != nil {
		return fmt.Errorf("failed to load JAM DAO fixture: %w", err)
	}
	return e.SetupWith(structure)
}

// SetupWith seeds a custom layout. It must contain the referendum forum.
func (e *JamDao) SetupWith(structure *fixtures.Structure) error {
	e.ApplyStructure(structure)

	if botMember, ok := e.User(botUserName).Get(); ok {
		e.Bot.SetBotUser(botMember.User)
	}

	forum, err := e.requireForum(e.Commands.ForumChannelName)
	if err != nil {
		return fmt.Errorf("failed to locate referendum forum: %w", err)
	}
	e.Commands.ForumChannelID = forum.ID

	log.Info("✅ JAM DAO environment ready: referendum forum #%s (%d)", forum.Name, forum.ID)
	return nil
}

func (e *JamDao) ReferendumForum() *models.ForumChannel {
	return e.ForumChannel(e.Commands.ForumChannelName).MustGet()
}

// CreateReferendumPost opens a referendum thread. The author defaults to
// dao_rep1 and the tags default to SmallSpender.
func (e *JamDao) CreateReferendumPost(title, content, authorName string, tagNames ...string) (*models.Thread, error) {
	if authorName == "" {
		authorName = defaultAuthorName
	}
	if len(tagNames) == 0 {
		tagNames = []string{defaultTagName}
	}
	return e.CreateForumPost(title, content, e.Commands.ForumChannelName, authorName, tagNames...)
}

// AddVoteToReferendum posts a vote message. Only representatives and admins may vote.
func (e *JamDao) AddVoteToReferendum(thread *models.Thread, voteContent, authorName string) (*models.Message, error) {
	author, err := e.requireUser(authorName)
	if err != nil {
		return nil, err
	}
	if !author.HasAnyRole(voterRoles...) {
		return nil, core.NewPermissionError(
			"User %s does not have permission to vote. Only users with %s role can vote.",
			authorName, commands.RepresentativeRoleName)
	}
	return thread.Send(voteContent, models.WithMember(author)), nil
}

// QuorumEligibleUsers lists representatives in guild member order. Admins
// may vote but do not count toward the eligible total.
func (e *JamDao) QuorumEligibleUsers() []*models.Member {
	var eligible []*models.Member
	for _, member := range e.Guild.Members {
		if member.HasRole(commands.RepresentativeRoleName) {
			eligible = append(eligible, member)
		}
	}
	return eligible
}

// QuorumPercentage is votes over eligible members, times 100. Zero eligible members yields zero.
func (e *JamDao) QuorumPercentage(votes int) decimal.Decimal {
	eligible := len(e.QuorumEligibleUsers())
	if eligible == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(votes)).
		Div(decimal.NewFromInt(int64(eligible))).
		Mul(decimal.NewFromInt(100))
}

func (e *JamDao) CalculateQuorumPercentage(votes int) float64 {
	return e.QuorumPercentage(votes).InexactFloat64()
}

// SlashCommand describes one simulated slash command invocation. ThreadID
// zero means the command is not issued from a thread. PublicThread, when
// set, is where /feedback posts instead of the companion thread lookup.
type SlashCommand struct {
	Name         string
	Options      map[string]string
	UserName     string
	ThreadID     int64
	ChannelName  string
	PublicThread *models.Thread
}

// SimulateSlashCommand builds an interaction for cmd and runs the matching command.
func (e *JamDao) SimulateSlashCommand(ctx context.Context, cmd SlashCommand) (commands.Result, error) {
	user, err := e.requireUser(cmd.UserName)
	if err != nil {
		return commands.Result{}, err
	}
	target, err := e.resolveTarget(cmd.ThreadID, cmd.ChannelName)
	if err != nil {
		return commands.Result{}, err
	}

	interaction := models.NewInteraction(user, target, cmd.Name, cmd.Options)
	log.Info("🤖 /%s by %s in %s", cmd.Name, cmd.UserName, target.GetName())

	switch cmd.Name {
	case commands.CommandFeedback:
		var opts []commands.FeedbackOption
		if cmd.PublicThread != nil {
			opts = append(opts, commands.WithPublicThread(cmd.PublicThread))
		}
		return commands.Feedback(ctx, interaction, e.Commands, opts...)
	case commands.CommandVote:
		return commands.Vote(ctx, interaction, e.Commands)
	default:
		return commands.Result{}, fmt.Errorf("slash command %s %w", cmd.Name, core.ErrNotFound)
	}
}

// resolveTarget finds a thread by id, checking the named forum before the
// others, or else resolves the channel by name.
func (e *JamDao) resolveTarget(threadID int64, channelName string) (models.Messageable, error) {
	if threadID != 0 {
		if forum, ok := e.ForumChannel(channelName).Get(); ok {
			if thread, ok := forum.GetThread(threadID).Get(); ok {
				return thread, nil
			}
		}
		for _, forum := range e.Guild.Forums() {
			if thread, ok := forum.GetThread(threadID).Get(); ok {
				return thread, nil
			}
		}
		return nil, fmt.Errorf("thread %d %w", threadID, core.ErrNotFound)
	}
	channel, err := e.anyChannel(channelName)
	if err != nil {
		return nil, err
	}
	return channel, nil
}
